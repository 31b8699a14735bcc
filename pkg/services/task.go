package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopmate/shopmate/pkg/automation"
	"github.com/shopmate/shopmate/pkg/eventbus"
	"github.com/shopmate/shopmate/pkg/events"
	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/persistence"
	"github.com/shopmate/shopmate/pkg/roster"
)

// ErrTaskNotFound is returned when a task is not found.
var ErrTaskNotFound = persistence.ErrTaskNotFound

// Task handles task queries, assignment, and completion. Assignment load
// accounting goes through the roster so that live counts survive restarts.
// Mutations are serialized per task id so the status and assignee checks
// stay atomic with their writes.
type Task struct {
	persistence persistence.Persistence
	automation  *automation.Engine
	roster      *roster.Service
	publisher   eventbus.EventPublisher
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTask creates a new task service.
func NewTask(p persistence.Persistence, engine *automation.Engine, r *roster.Service, publisher eventbus.EventPublisher, logger *slog.Logger) *Task {
	if logger == nil {
		logger = slog.Default()
	}

	return &Task{
		persistence: p,
		automation:  engine,
		roster:      r,
		publisher:   publisher,
		logger:      logger.With("module", "task_service"),
		locks:       make(map[string]*sync.Mutex),
	}
}

// taskLock returns the mutex guarding one task id, creating it on first
// use. Locks are never removed; task ids are bounded by project count
// times stage count.
func (s *Task) taskLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}

	return lock
}

// GetTask retrieves one task scoped to an organization.
func (s *Task) GetTask(ctx context.Context, organizationID, id string) (*models.Task, error) {
	if organizationID == "" {
		return nil, ErrEmptyOrganizationID
	}

	return s.persistence.TaskRepository().GetByID(ctx, organizationID, id)
}

// ListTasksRequest contains options for listing tasks.
type ListTasksRequest struct {
	ProjectID string
	Status    *models.TaskStatus
}

// ListTasks retrieves tasks with filtering.
func (s *Task) ListTasks(ctx context.Context, organizationID string, req ListTasksRequest) ([]models.Task, error) {
	if organizationID == "" {
		return nil, ErrEmptyOrganizationID
	}

	if req.Status != nil {
		switch *req.Status {
		case models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusReview,
			models.TaskStatusCompleted, models.TaskStatusBlocked:
		default:
			return nil, NewValidationError(
				"ListTasks",
				"INVALID_STATUS_FILTER",
				fmt.Sprintf("invalid task status %q", *req.Status),
				ErrInvalidStatusFilter,
			)
		}
	}

	return s.persistence.TaskRepository().List(ctx, organizationID, persistence.ListTasksOptions{
		ProjectID: req.ProjectID,
		Status:    req.Status,
	})
}

// AssignTask picks the least loaded qualified staff member for a task,
// persists the assignment, and records the load increase. The task status
// is left untouched; staff pick work up explicitly via StartTask.
func (s *Task) AssignTask(ctx context.Context, organizationID, taskID string) (*models.Task, error) {
	lock := s.taskLock(taskID)
	lock.Lock()
	defer lock.Unlock()

	task, err := s.persistence.TaskRepository().GetByID(ctx, organizationID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusCompleted {
		return nil, NewConflictError("AssignTask", "TASK_COMPLETED",
			fmt.Sprintf("task %s is already completed", taskID), ErrTaskAlreadyDone)
	}

	if task.AssignedTo != "" {
		return nil, NewConflictError("AssignTask", "TASK_ASSIGNED",
			fmt.Sprintf("task %s is already assigned to %s", taskID, task.AssignedTo), ErrTaskAlreadyAssigned)
	}

	available, err := s.roster.AvailableStaff(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load available staff: %w", err)
	}

	staffID, err := s.automation.AutoAssignTask(task, available)
	if err != nil {
		return nil, err
	}

	if err := s.persistence.TaskRepository().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task assignment: %w", err)
	}

	s.roster.RecordAssignment(ctx, staffID)
	s.announce(ctx, task.ID, events.TaskAssigned{
		BaseEvent: s.baseEvent(events.TaskAssignedEvent, task),
		TaskID:    task.ID,
		StaffID:   staffID,
	})

	s.logger.InfoContext(ctx, "Task assigned",
		"task_id", task.ID,
		"staff_id", staffID,
	)

	return task, nil
}

// StartTask moves a task into progress and stamps the start time.
func (s *Task) StartTask(ctx context.Context, organizationID, taskID string) (*models.Task, error) {
	lock := s.taskLock(taskID)
	lock.Lock()
	defer lock.Unlock()

	task, err := s.persistence.TaskRepository().GetByID(ctx, organizationID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusCompleted {
		return nil, NewConflictError("StartTask", "TASK_COMPLETED",
			fmt.Sprintf("task %s is already completed", taskID), ErrTaskAlreadyDone)
	}

	now := time.Now().UTC()
	task.Status = models.TaskStatusInProgress

	if task.StartedAt == nil {
		task.StartedAt = &now
	}

	if err := s.persistence.TaskRepository().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return task, nil
}

// CompleteTask marks a task completed, records actual hours, and releases
// the assignee's load slot.
func (s *Task) CompleteTask(ctx context.Context, organizationID, taskID string, actualHours float64) (*models.Task, error) {
	lock := s.taskLock(taskID)
	lock.Lock()
	defer lock.Unlock()

	task, err := s.persistence.TaskRepository().GetByID(ctx, organizationID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusCompleted {
		return nil, NewConflictError("CompleteTask", "TASK_COMPLETED",
			fmt.Sprintf("task %s is already completed", taskID), ErrTaskAlreadyDone)
	}

	s.automation.TransitionTask(task)

	if actualHours > 0 {
		task.ActualHours = actualHours
	}

	if err := s.persistence.TaskRepository().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	if task.AssignedTo != "" {
		s.roster.RecordCompletion(ctx, task.AssignedTo)
	}

	s.announce(ctx, task.ID, events.TaskCompleted{
		BaseEvent:   s.baseEvent(events.TaskCompletedEvent, task),
		TaskID:      task.ID,
		CompletedAt: *task.CompletedAt,
	})

	s.logger.InfoContext(ctx, "Task completed",
		"task_id", task.ID,
		"actual_hours", task.ActualHours,
	)

	return task, nil
}

// Bottlenecks scans the organization's open tasks for stages whose backlog
// crossed the alert threshold.
func (s *Task) Bottlenecks(ctx context.Context, organizationID string) ([]automation.Bottleneck, error) {
	tasks, err := s.persistence.TaskRepository().List(ctx, organizationID, persistence.ListTasksOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return automation.IdentifyBottlenecks(tasks), nil
}

// Metrics computes aggregate task counts and the average completion time
// for the organization.
func (s *Task) Metrics(ctx context.Context, organizationID string) (automation.TaskMetrics, error) {
	tasks, err := s.persistence.TaskRepository().List(ctx, organizationID, persistence.ListTasksOptions{})
	if err != nil {
		return automation.TaskMetrics{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	return automation.ComputeTaskMetrics(tasks), nil
}

func (s *Task) baseEvent(eventType events.EventType, task *models.Task) events.BaseEvent {
	return events.BaseEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		Timestamp:      time.Now().UTC(),
		OrganizationID: task.OrganizationID,
		ProjectID:      task.ProjectID,
	}
}

func (s *Task) announce(ctx context.Context, key string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish task event",
			"key", key,
			"error", err,
		)
	}
}
