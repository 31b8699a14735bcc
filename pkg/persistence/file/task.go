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

// TaskRepository stores tasks as root/<org>/tasks/<id>.json.
type TaskRepository struct {
	root string
}

func NewTaskRepository(root string) *TaskRepository {
	return &TaskRepository{root: root}
}

func (r *TaskRepository) dir(organizationID string) string {
	return path.Join(r.root, organizationID, "tasks")
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.write(task)
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	if _, err := r.GetByID(ctx, task.OrganizationID, task.ID); err != nil {
		return err
	}

	return r.write(task)
}

func (r *TaskRepository) write(task *models.Task) error {
	dir := r.dir(task.OrganizationID)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create tasks directory: %w", err)
	}

	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}

	task.UpdatedAt = now

	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal task %s: %w", task.ID, err)
	}

	return os.WriteFile(path.Join(dir, task.ID+".json"), data, 0600)
}

func (r *TaskRepository) GetByID(_ context.Context, organizationID, id string) (*models.Task, error) {
	filePath := filepath.Clean(path.Join(r.dir(organizationID), id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", persistence.ErrTaskNotFound, id)
		}

		return nil, fmt.Errorf("failed to fetch task %s: %w", id, err)
	}

	var task models.Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task %s: %w", id, err)
	}

	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, organizationID string, opts persistence.ListTasksOptions) ([]models.Task, error) {
	dir := r.dir(organizationID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []models.Task{}, nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list task files: %w", err)
	}

	tasks := make([]models.Task, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		id := name[:len(name)-len(".json")]

		task, err := r.GetByID(ctx, organizationID, id)
		if err != nil {
			return nil, err
		}

		if opts.ProjectID != "" && task.ProjectID != opts.ProjectID {
			continue
		}

		if opts.Status != nil && task.Status != *opts.Status {
			continue
		}

		tasks = append(tasks, *task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}
