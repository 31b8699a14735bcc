package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/persistence"
)

// StaffRepository stores staff records as root/<org>/staff/<id>.json.
type StaffRepository struct {
	root string
}

func NewStaffRepository(root string) *StaffRepository {
	return &StaffRepository{root: root}
}

func (r *StaffRepository) dir(organizationID string) string {
	return path.Join(r.root, organizationID, "staff")
}

func (r *StaffRepository) Create(ctx context.Context, staff *models.StaffMember) error {
	return r.write(staff)
}

func (r *StaffRepository) Update(ctx context.Context, staff *models.StaffMember) error {
	if _, err := r.GetByID(ctx, staff.OrganizationID, staff.ID); err != nil {
		return err
	}

	return r.write(staff)
}

func (r *StaffRepository) write(staff *models.StaffMember) error {
	dir := r.dir(staff.OrganizationID)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create staff directory: %w", err)
	}

	now := time.Now().UTC()
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = now
	}

	staff.UpdatedAt = now

	data, err := json.MarshalIndent(staff, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal staff member %s: %w", staff.ID, err)
	}

	return os.WriteFile(path.Join(dir, staff.ID+".json"), data, 0600)
}

func (r *StaffRepository) GetByID(_ context.Context, organizationID, id string) (*models.StaffMember, error) {
	filePath := filepath.Clean(path.Join(r.dir(organizationID), id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", persistence.ErrStaffNotFound, id)
		}

		return nil, fmt.Errorf("failed to fetch staff member %s: %w", id, err)
	}

	var staff models.StaffMember
	if err := json.Unmarshal(body, &staff); err != nil {
		return nil, fmt.Errorf("failed to unmarshal staff member %s: %w", id, err)
	}

	return &staff, nil
}

func (r *StaffRepository) ListStaff(ctx context.Context, organizationID string) ([]models.StaffMember, error) {
	dir := r.dir(organizationID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []models.StaffMember{}, nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list staff files: %w", err)
	}

	staff := make([]models.StaffMember, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		id := name[:len(name)-len(".json")]

		member, err := r.GetByID(ctx, organizationID, id)
		if err != nil {
			return nil, err
		}

		staff = append(staff, *member)
	}

	sort.Slice(staff, func(i, j int) bool {
		return staff[i].CreatedAt.Before(staff[j].CreatedAt)
	})

	return staff, nil
}
