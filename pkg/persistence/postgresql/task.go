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

// TaskRepository handles task-related database operations.
type TaskRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTaskRepository(db *sql.DB, logger *slog.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

const taskColumns = `
			id
		  , organization_id
		  , project_id
		  , title
		  , description
		  , stage
		  , task_type
		  , assigned_to
		  , priority
		  , status
		  , estimated_hours
		  , actual_hours
		  , started_at
		  , completed_at
		  , due_date
		  , dependencies
		  , created_at
		  , updated_at
`

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	dependencies, err := marshalDependencies(task)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = r.db.ExecContext(ctx, query,
		task.ID,
		task.OrganizationID,
		task.ProjectID,
		task.Title,
		task.Description,
		string(task.Stage),
		string(task.Type),
		task.AssignedTo,
		string(task.Priority),
		string(task.Status),
		task.EstimatedHours,
		task.ActualHours,
		task.StartedAt,
		task.CompletedAt,
		task.DueDate,
		dependencies,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, organizationID, id string) (*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE organization_id = $1 AND id = $2
	`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrTaskNotFound
		}

		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()

	dependencies, err := marshalDependencies(task)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $3
		  , description = $4
		  , stage = $5
		  , task_type = $6
		  , assigned_to = $7
		  , priority = $8
		  , status = $9
		  , estimated_hours = $10
		  , actual_hours = $11
		  , started_at = $12
		  , completed_at = $13
		  , due_date = $14
		  , dependencies = $15
		  , updated_at = $16
		WHERE organization_id = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		task.OrganizationID,
		task.ID,
		task.Title,
		task.Description,
		string(task.Stage),
		string(task.Type),
		task.AssignedTo,
		string(task.Priority),
		string(task.Status),
		task.EstimatedHours,
		task.ActualHours,
		task.StartedAt,
		task.CompletedAt,
		task.DueDate,
		dependencies,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepository) List(ctx context.Context, organizationID string, opts persistence.ListTasksOptions) ([]models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE organization_id = $1
	`
	args := []any{organizationID}

	if opts.ProjectID != "" {
		args = append(args, opts.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}

	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	defer closeRows(ctx, r.logger, rows)

	tasks := make([]models.Task, 0)

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		tasks = append(tasks, *task)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

func marshalDependencies(task *models.Task) ([]byte, error) {
	dependencies := task.Dependencies
	if dependencies == nil {
		dependencies = []string{}
	}

	data, err := json.Marshal(dependencies)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dependencies: %w", err)
	}

	return data, nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		task         models.Task
		stage        string
		taskType     string
		priority     string
		status       string
		dependencies []byte
	)

	err := row.Scan(
		&task.ID,
		&task.OrganizationID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&stage,
		&taskType,
		&task.AssignedTo,
		&priority,
		&status,
		&task.EstimatedHours,
		&task.ActualHours,
		&task.StartedAt,
		&task.CompletedAt,
		&task.DueDate,
		&dependencies,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Stage = stages.ID(stage)
	task.Type = models.TaskType(taskType)
	task.Priority = models.TaskPriority(priority)
	task.Status = models.TaskStatus(status)

	if err := json.Unmarshal(dependencies, &task.Dependencies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dependencies: %w", err)
	}

	return &task, nil
}
