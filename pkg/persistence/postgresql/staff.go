package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/persistence"
)

// StaffRepository handles staff-related database operations.
type StaffRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStaffRepository(db *sql.DB, logger *slog.Logger) *StaffRepository {
	return &StaffRepository{db: db, logger: logger}
}

const staffColumns = `
			id
		  , organization_id
		  , name
		  , email
		  , role
		  , skills
		  , max_concurrent_tasks
		  , current_task_count
		  , is_active
		  , created_at
		  , updated_at
`

func (r *StaffRepository) Create(ctx context.Context, staff *models.StaffMember) error {
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	skills, err := marshalSkills(staff)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO staff (` + staffColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(ctx, query,
		staff.ID,
		staff.OrganizationID,
		staff.Name,
		staff.Email,
		staff.Role,
		skills,
		staff.Availability.MaxConcurrentTasks,
		staff.Availability.CurrentTaskCount,
		staff.IsActive,
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert staff member: %w", err)
	}

	return nil
}

func (r *StaffRepository) GetByID(ctx context.Context, organizationID, id string) (*models.StaffMember, error) {
	query := `
		SELECT ` + staffColumns + `
		FROM staff
		WHERE organization_id = $1 AND id = $2
	`

	staff, err := scanStaff(r.db.QueryRowContext(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrStaffNotFound
		}

		return nil, fmt.Errorf("failed to scan staff member: %w", err)
	}

	return staff, nil
}

func (r *StaffRepository) Update(ctx context.Context, staff *models.StaffMember) error {
	staff.UpdatedAt = time.Now().UTC()

	skills, err := marshalSkills(staff)
	if err != nil {
		return err
	}

	query := `
		UPDATE staff
		SET name = $3
		  , email = $4
		  , role = $5
		  , skills = $6
		  , max_concurrent_tasks = $7
		  , current_task_count = $8
		  , is_active = $9
		  , updated_at = $10
		WHERE organization_id = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		staff.OrganizationID,
		staff.ID,
		staff.Name,
		staff.Email,
		staff.Role,
		skills,
		staff.Availability.MaxConcurrentTasks,
		staff.Availability.CurrentTaskCount,
		staff.IsActive,
		staff.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.ErrStaffNotFound
	}

	return nil
}

func (r *StaffRepository) ListStaff(ctx context.Context, organizationID string) ([]models.StaffMember, error) {
	query := `
		SELECT ` + staffColumns + `
		FROM staff
		WHERE organization_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}

	defer closeRows(ctx, r.logger, rows)

	members := make([]models.StaffMember, 0)

	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}

		members = append(members, *staff)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return members, nil
}

func marshalSkills(staff *models.StaffMember) ([]byte, error) {
	skills := staff.Skills
	if skills == nil {
		skills = []string{}
	}

	data, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skills: %w", err)
	}

	return data, nil
}

func scanStaff(row rowScanner) (*models.StaffMember, error) {
	var (
		staff  models.StaffMember
		skills []byte
	)

	err := row.Scan(
		&staff.ID,
		&staff.OrganizationID,
		&staff.Name,
		&staff.Email,
		&staff.Role,
		&skills,
		&staff.Availability.MaxConcurrentTasks,
		&staff.Availability.CurrentTaskCount,
		&staff.IsActive,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(skills, &staff.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
	}

	return &staff, nil
}
