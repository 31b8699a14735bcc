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
	"github.com/shopmate/shopmate/pkg/stages"
)

// ProjectRepository handles project-related database operations.
type ProjectRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewProjectRepository(db *sql.DB, logger *slog.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

const projectColumns = `
			id
		  , organization_id
		  , customer_id
		  , name
		  , description
		  , current_stage
		  , timeline
		  , assigned_team
		  , status
		  , created_at
		  , updated_at
		  , completed_at
`

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	timeline, assignedTeam, err := marshalProjectFields(project)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.ExecContext(ctx, query,
		project.ID,
		project.OrganizationID,
		project.CustomerID,
		project.Name,
		project.Description,
		string(project.CurrentStage),
		timeline,
		assignedTeam,
		string(project.Status),
		project.CreatedAt,
		project.UpdatedAt,
		project.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, organizationID, id string) (*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE organization_id = $1 AND id = $2
	`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrProjectNotFound
		}

		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	return project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()

	timeline, assignedTeam, err := marshalProjectFields(project)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET customer_id = $3
		  , name = $4
		  , description = $5
		  , current_stage = $6
		  , timeline = $7
		  , assigned_team = $8
		  , status = $9
		  , updated_at = $10
		  , completed_at = $11
		WHERE organization_id = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		project.OrganizationID,
		project.ID,
		project.CustomerID,
		project.Name,
		project.Description,
		string(project.CurrentStage),
		timeline,
		assignedTeam,
		string(project.Status),
		project.UpdatedAt,
		project.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.ErrProjectNotFound
	}

	return nil
}

func (r *ProjectRepository) List(ctx context.Context, organizationID string, opts persistence.ListProjectsOptions) ([]*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE organization_id = $1
	`
	args := []any{organizationID}

	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if opts.CurrentStage != "" {
		args = append(args, opts.CurrentStage)
		query += fmt.Sprintf(" AND current_stage = $%d", len(args))
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}

	defer closeRows(ctx, r.logger, rows)

	projects := make([]*models.Project, 0)

	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}

		projects = append(projects, project)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

func marshalProjectFields(project *models.Project) (timeline, assignedTeam []byte, err error) {
	timeline, err = json.Marshal(project.Timeline)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal timeline: %w", err)
	}

	team := project.AssignedTeam
	if team == nil {
		team = []string{}
	}

	assignedTeam, err = json.Marshal(team)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal assigned team: %w", err)
	}

	return timeline, assignedTeam, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		project      models.Project
		currentStage string
		status       string
		timeline     []byte
		assignedTeam []byte
	)

	err := row.Scan(
		&project.ID,
		&project.OrganizationID,
		&project.CustomerID,
		&project.Name,
		&project.Description,
		&currentStage,
		&timeline,
		&assignedTeam,
		&status,
		&project.CreatedAt,
		&project.UpdatedAt,
		&project.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	project.CurrentStage = stages.ID(currentStage)
	project.Status = models.ProjectStatus(status)

	if err := json.Unmarshal(timeline, &project.Timeline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timeline: %w", err)
	}

	if err := json.Unmarshal(assignedTeam, &project.AssignedTeam); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assigned team: %w", err)
	}

	return &project, nil
}

func closeRows(ctx context.Context, logger *slog.Logger, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.ErrorContext(ctx, "failed to close rows", "error", err)
	}
}
