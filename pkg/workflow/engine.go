// Package workflow implements the project stage transition engine: strictly
// sequential transitions over the fixed stage chain, completion percentage
// derivation, delay reporting, and duration estimation.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopmate/shopmate/pkg/eventbus"
	"github.com/shopmate/shopmate/pkg/events"
	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/stages"
)

// TaskSource materializes the tasks a stage spawns. Implemented by the task
// automation engine.
type TaskSource interface {
	CreateStageTasks(project *models.Project, stage stages.ID) []models.Task
}

// Engine validates and performs stage transitions for one project at a
// time. Callers must serialize mutations per project id; the engine itself
// holds no locks.
type Engine struct {
	directory *stages.Directory
	tasks     TaskSource
	publisher eventbus.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewEngine creates a transition engine. The publisher may be nil, in which
// case stage-entry side effects are skipped entirely (useful in tests that
// only exercise state mechanics).
func NewEngine(directory *stages.Directory, tasks TaskSource, publisher eventbus.EventPublisher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		directory: directory,
		tasks:     tasks,
		publisher: publisher,
		logger:    logger.With("module", "workflow_engine"),
		now:       time.Now,
	}
}

// Result carries the outcome of a transition: the mutated project and the
// tasks the new stage spawned. Callers may discard the tasks.
type Result struct {
	Project *models.Project
	Tasks   []models.Task
}

// Transition moves the project to the next stage. When explicitNext is
// empty the directory's successor is used. An explicit target that is not
// the immediate successor fails with ErrInvalidStageTransition and leaves
// the project untouched.
func (e *Engine) Transition(ctx context.Context, project *models.Project, explicitNext stages.ID) (*Result, error) {
	current, ok := e.directory.Get(project.CurrentStage)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, project.CurrentStage)
	}

	next, hasNext := e.directory.NextOf(current.ID)

	var target stages.Definition

	switch {
	case explicitNext == "":
		if !hasNext {
			return nil, fmt.Errorf("%w: %q is the terminal stage", ErrNoNextStage, current.ID)
		}

		target = next
	default:
		if _, known := e.directory.Get(explicitNext); !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStage, explicitNext)
		}

		if !hasNext || explicitNext != next.ID {
			return nil, fmt.Errorf("%w: %q does not follow %q", ErrInvalidStageTransition, explicitNext, current.ID)
		}

		target = next
	}

	e.apply(project, current.ID, target)
	e.emitStageEntered(ctx, project, current.ID, target, false)

	return &Result{
		Project: project,
		Tasks:   e.createTasks(project, target.ID),
	}, nil
}

// ForceTransition moves the project to any known stage, bypassing the
// adjacency check. It is an operator escape hatch, not a default path.
func (e *Engine) ForceTransition(ctx context.Context, project *models.Project, target stages.ID) (*Result, error) {
	current, ok := e.directory.Get(project.CurrentStage)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, project.CurrentStage)
	}

	targetDef, ok := e.directory.Get(target)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, target)
	}

	e.apply(project, current.ID, targetDef)
	e.emitStageEntered(ctx, project, current.ID, targetDef, true)

	return &Result{
		Project: project,
		Tasks:   e.createTasks(project, targetDef.ID),
	}, nil
}

// apply performs the actual state mutation. Validation must already have
// passed: after this point the transition cannot fail.
func (e *Engine) apply(project *models.Project, previous stages.ID, target stages.Definition) {
	now := e.now()

	if project.Timeline.PhaseCompletionDates == nil {
		project.Timeline.PhaseCompletionDates = make(map[stages.ID]time.Time)
	}

	project.CurrentStage = target.ID
	project.Timeline.PhaseCompletionDates[previous] = now
	project.Timeline.CompletionPercentage = e.completionPercentage(target)
	project.UpdatedAt = now

	if target.Terminal() {
		project.Status = models.ProjectStatusCompleted
		project.CompletedAt = &now
		project.Timeline.ActualEnd = &now
	}
}

// completionPercentage derives progress purely from stage position:
// stages at or before the current one over the total stage count.
func (e *Engine) completionPercentage(current stages.Definition) float64 {
	total := e.directory.Len()
	reached := 0

	for _, def := range e.directory.All() {
		if def.DisplayOrder <= current.DisplayOrder {
			reached++
		}
	}

	return float64(reached) / float64(total) * 100
}

func (e *Engine) createTasks(project *models.Project, stage stages.ID) []models.Task {
	if e.tasks == nil {
		return nil
	}

	return e.tasks.CreateStageTasks(project, stage)
}

// emitStageEntered publishes the stage-entered event. Delivery is
// best-effort: a publish failure is logged and never fails the transition.
func (e *Engine) emitStageEntered(ctx context.Context, project *models.Project, previous stages.ID, target stages.Definition, forced bool) {
	if e.publisher == nil {
		return
	}

	event := events.ProjectStageEntered{
		BaseEvent: events.BaseEvent{
			ID:             uuid.NewString(),
			Type:           events.ProjectStageEnteredEvent,
			Timestamp:      e.now(),
			OrganizationID: project.OrganizationID,
			ProjectID:      project.ID,
		},
		PreviousStage:        previous,
		Stage:                target.ID,
		Forced:               forced,
		CompletionPercentage: project.Timeline.CompletionPercentage,
	}

	if err := e.publisher.Publish(ctx, project.ID, event); err != nil {
		e.logger.ErrorContext(ctx, "Failed to publish stage entered event",
			"project_id", project.ID,
			"stage", target.ID,
			"error", err,
		)
	}
}

// ReportDelay appends a delay record to the project timeline. It never
// moves the stage.
func (e *Engine) ReportDelay(ctx context.Context, project *models.Project, phase stages.ID, reason string, additionalDays int, reportedBy string) (models.Delay, error) {
	if _, ok := e.directory.Get(phase); !ok {
		return models.Delay{}, fmt.Errorf("%w: %q", ErrUnknownStage, phase)
	}

	delay := models.Delay{
		ID:             uuid.NewString(),
		Phase:          phase,
		Reason:         reason,
		AdditionalDays: additionalDays,
		ReportedAt:     e.now(),
		ReportedBy:     reportedBy,
	}

	project.Timeline.Delays = append(project.Timeline.Delays, delay)
	project.UpdatedAt = delay.ReportedAt

	if e.publisher != nil {
		event := events.ProjectDelayReported{
			BaseEvent: events.BaseEvent{
				ID:             uuid.NewString(),
				Type:           events.ProjectDelayReportedEvent,
				Timestamp:      delay.ReportedAt,
				OrganizationID: project.OrganizationID,
				ProjectID:      project.ID,
			},
			Delay: delay,
		}

		if err := e.publisher.Publish(ctx, project.ID, event); err != nil {
			e.logger.ErrorContext(ctx, "Failed to publish delay event",
				"project_id", project.ID,
				"phase", phase,
				"error", err,
			)
		}
	}

	return delay, nil
}

// EstimateDuration sums estimated hours over the inclusive display-order
// range [from, to].
func (e *Engine) EstimateDuration(from, to stages.ID) (float64, error) {
	fromDef, ok := e.directory.Get(from)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStage, from)
	}

	toDef, ok := e.directory.Get(to)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStage, to)
	}

	if fromDef.DisplayOrder > toDef.DisplayOrder {
		return 0, fmt.Errorf("%w: %q is after %q", ErrInvalidRange, from, to)
	}

	var total float64

	for _, def := range e.directory.All() {
		if def.DisplayOrder >= fromDef.DisplayOrder && def.DisplayOrder <= toDef.DisplayOrder {
			total += def.EstimatedDuration
		}
	}

	return total, nil
}

// Directory exposes the stage directory the engine was built with.
func (e *Engine) Directory() *stages.Directory {
	return e.directory
}
