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

// ProjectRepository stores projects as root/<org>/projects/<id>.json.
type ProjectRepository struct {
	root string
}

func NewProjectRepository(root string) *ProjectRepository {
	return &ProjectRepository{root: root}
}

func (r *ProjectRepository) dir(organizationID string) string {
	return path.Join(r.root, organizationID, "projects")
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.write(project)
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	if _, err := r.GetByID(ctx, project.OrganizationID, project.ID); err != nil {
		return err
	}

	return r.write(project)
}

func (r *ProjectRepository) write(project *models.Project) error {
	dir := r.dir(project.OrganizationID)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create projects directory: %w", err)
	}

	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}

	project.UpdatedAt = now

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project %s: %w", project.ID, err)
	}

	return os.WriteFile(path.Join(dir, project.ID+".json"), data, 0600)
}

func (r *ProjectRepository) GetByID(_ context.Context, organizationID, id string) (*models.Project, error) {
	filePath := filepath.Clean(path.Join(r.dir(organizationID), id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", persistence.ErrProjectNotFound, id)
		}

		return nil, fmt.Errorf("failed to fetch project %s: %w", id, err)
	}

	var project models.Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project %s: %w", id, err)
	}

	return &project, nil
}

func (r *ProjectRepository) List(ctx context.Context, organizationID string, opts persistence.ListProjectsOptions) ([]*models.Project, error) {
	dir := r.dir(organizationID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []*models.Project{}, nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}

	projects := make([]*models.Project, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		id := name[:len(name)-len(".json")]

		project, err := r.GetByID(ctx, organizationID, id)
		if err != nil {
			return nil, err
		}

		if opts.Status != nil && project.Status != *opts.Status {
			continue
		}

		if opts.CurrentStage != "" && string(project.CurrentStage) != opts.CurrentStage {
			continue
		}

		projects = append(projects, project)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	return paginate(projects, opts.Offset, opts.Limit), nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = 50
	}

	if offset >= len(items) {
		return []T{}
	}

	end := offset + limit
	if end > len(items) {
		end = len(items)
	}

	return items[offset:end]
}
