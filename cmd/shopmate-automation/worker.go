package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopmate/shopmate/pkg/automation"
	"github.com/shopmate/shopmate/pkg/eventbus"
	"github.com/shopmate/shopmate/pkg/events"
	"github.com/shopmate/shopmate/pkg/services"
)

// WorkerManager consumes workflow events and runs stage side effects and
// task auto-assignment off the API's critical path.
type WorkerManager struct {
	id          string
	logger      *slog.Logger
	eventBus    eventbus.EventBus
	effects     *automation.EffectsRunner
	taskService *services.Task
	reporter    *Reporter
}

func NewWorkerManager(
	id string,
	eventBus eventbus.EventBus,
	effects *automation.EffectsRunner,
	taskService *services.Task,
	reporter *Reporter,
	logger *slog.Logger,
) *WorkerManager {
	return &WorkerManager{
		id:          id,
		logger:      logger.With("module", "shopmate-automation", "worker_id", id),
		eventBus:    eventBus,
		effects:     effects,
		taskService: taskService,
		reporter:    reporter,
	}
}

func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting automation worker", "worker_id", w.id)

	err := w.eventBus.Handle(events.ProjectStageEnteredEvent, w.handleStageEntered)
	if err != nil {
		return err
	}

	err = w.eventBus.Handle(events.TaskCreatedEvent, w.handleTaskCreated)
	if err != nil {
		return err
	}

	err = w.eventBus.Handle(events.TaskCompletedEvent, w.handleTaskCompleted)
	if err != nil {
		return err
	}

	err = w.eventBus.Subscribe(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	if w.reporter != nil {
		w.reporter.Start()
		defer w.reporter.Stop()
	}

	w.logger.InfoContext(ctx, "Worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down worker...")

	return nil
}

func (w *WorkerManager) handleStageEntered(ctx context.Context, event any) error {
	stageEvent, ok := event.(*events.ProjectStageEntered)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for ProjectStageEntered")

		return nil
	}

	logger := w.logger.With(
		"project_id", stageEvent.ProjectID,
		"stage", stageEvent.Stage,
		"event_id", stageEvent.ID,
	)
	logger.InfoContext(ctx, "Processing stage entered event")

	w.effects.RunStageEntry(ctx, stageEvent.OrganizationID, stageEvent.ProjectID, stageEvent.Stage)

	return nil
}

// handleTaskCreated tries to auto-assign every freshly spawned task. A
// task nobody qualifies for stays unassigned; it shows up later through
// the bottleneck report rather than a retry loop.
func (w *WorkerManager) handleTaskCreated(ctx context.Context, event any) error {
	taskEvent, ok := event.(*events.TaskCreated)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for TaskCreated")

		return nil
	}

	logger := w.logger.With(
		"task_id", taskEvent.Task.ID,
		"project_id", taskEvent.ProjectID,
	)
	logger.InfoContext(ctx, "Processing task created event")

	task, err := w.taskService.AssignTask(ctx, taskEvent.OrganizationID, taskEvent.Task.ID)

	switch {
	case err == nil:
		logger.InfoContext(ctx, "Task auto-assigned", "staff_id", task.AssignedTo)
	case automation.IsNoEligibleStaff(err):
		logger.WarnContext(ctx, "No eligible staff for task", "task_type", taskEvent.Task.Type)
	case services.IsConflictError(err):
		logger.InfoContext(ctx, "Task no longer assignable", "reason", err.Error())
	default:
		logger.ErrorContext(ctx, "Failed to auto-assign task", "error", err)
	}

	return nil
}

func (w *WorkerManager) handleTaskCompleted(ctx context.Context, event any) error {
	taskEvent, ok := event.(*events.TaskCompleted)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for TaskCompleted")

		return nil
	}

	w.logger.InfoContext(ctx, "Task completion observed",
		"task_id", taskEvent.TaskID,
		"project_id", taskEvent.ProjectID,
		"completed_at", taskEvent.CompletedAt,
	)

	return nil
}
