package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shopmate/shopmate/pkg/eventbus"
	"github.com/shopmate/shopmate/pkg/events"
	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/persistence"
	"github.com/shopmate/shopmate/pkg/stages"
	"github.com/shopmate/shopmate/pkg/workflow"
)

// ErrProjectNotFound is returned when a project is not found.
var ErrProjectNotFound = persistence.ErrProjectNotFound

// Project orchestrates project lifecycle operations. The workflow engine
// holds no locks, so this service serializes all mutations per project id.
type Project struct {
	persistence persistence.Persistence
	engine      *workflow.Engine
	publisher   eventbus.EventPublisher
	validator   *validator.Validate
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProject creates a new project service.
func NewProject(p persistence.Persistence, engine *workflow.Engine, publisher eventbus.EventPublisher, logger *slog.Logger) *Project {
	if logger == nil {
		logger = slog.Default()
	}

	return &Project{
		persistence: p,
		engine:      engine,
		publisher:   publisher,
		validator:   validator.New(),
		logger:      logger.With("module", "project_service"),
		locks:       make(map[string]*sync.Mutex),
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Project) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// projectLock returns the mutex guarding one project id, creating it on
// first use. Locks are never removed; project counts stay small enough
// that the map does not need eviction.
func (s *Project) projectLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}

	return lock
}

// CreateProjectRequest contains the fields needed to open a new project.
type CreateProjectRequest struct {
	OrganizationID string `validate:"required"`
	CustomerID     string
	Name           string `validate:"required,min=3"`
	Description    string
	AssignedTeam   []string
	EstimatedStart time.Time
	EstimatedEnd   time.Time
}

// CreateProject opens a new project at the first stage of the chain.
func (s *Project) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("CreateProject", "INVALID_PROJECT", err.Error(), ErrInvalidRequest)
	}

	now := time.Now().UTC()

	estimatedStart := req.EstimatedStart
	if estimatedStart.IsZero() {
		estimatedStart = now
	}

	project := &models.Project{
		ID:             uuid.NewString(),
		OrganizationID: req.OrganizationID,
		CustomerID:     req.CustomerID,
		Name:           req.Name,
		Description:    req.Description,
		CurrentStage:   s.engine.Directory().First().ID,
		AssignedTeam:   req.AssignedTeam,
		Status:         models.ProjectStatusActive,
		Timeline: models.Timeline{
			EstimatedStart:       estimatedStart,
			ActualStart:          &now,
			EstimatedEnd:         req.EstimatedEnd,
			PhaseCompletionDates: make(map[stages.ID]time.Time),
			Delays:               []models.Delay{},
			CompletionPercentage: 0,
		},
	}

	if err := s.persistence.ProjectRepository().Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.InfoContext(ctx, "Project created",
		"project_id", project.ID,
		"organization_id", project.OrganizationID,
		"stage", project.CurrentStage,
	)

	return project, nil
}

// GetProject retrieves one project scoped to an organization.
func (s *Project) GetProject(ctx context.Context, organizationID, id string) (*models.Project, error) {
	if organizationID == "" {
		return nil, ErrEmptyOrganizationID
	}

	return s.persistence.ProjectRepository().GetByID(ctx, organizationID, id)
}

// ListProjectsRequest contains options for listing projects.
type ListProjectsRequest struct {
	Status       *models.ProjectStatus
	CurrentStage string
	Limit        int
	Offset       int
}

// ListProjects retrieves projects with filtering and pagination.
func (s *Project) ListProjects(ctx context.Context, organizationID string, req ListProjectsRequest) ([]*models.Project, error) {
	if organizationID == "" {
		return nil, ErrEmptyOrganizationID
	}

	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.Status != nil {
		switch *req.Status {
		case models.ProjectStatusActive, models.ProjectStatusPaused,
			models.ProjectStatusCompleted, models.ProjectStatusCancelled:
		default:
			return nil, NewValidationError(
				"ListProjects",
				"INVALID_STATUS_FILTER",
				fmt.Sprintf("invalid project status %q", *req.Status),
				ErrInvalidStatusFilter,
			)
		}
	}

	return s.persistence.ProjectRepository().List(ctx, organizationID, persistence.ListProjectsOptions{
		Status:       req.Status,
		CurrentStage: req.CurrentStage,
		Limit:        req.Limit,
		Offset:       req.Offset,
	})
}

// AdvanceStage moves a project to its next stage, persists the result, and
// stores and announces the tasks the new stage spawned. When explicitNext
// is empty the chain's successor is used.
func (s *Project) AdvanceStage(ctx context.Context, organizationID, projectID string, explicitNext stages.ID) (*workflow.Result, error) {
	return s.transition(ctx, organizationID, projectID, func(ctx context.Context, project *models.Project) (*workflow.Result, error) {
		return s.engine.Transition(ctx, project, explicitNext)
	})
}

// ForceStage moves a project to any known stage, bypassing the adjacency
// check. Operator escape hatch.
func (s *Project) ForceStage(ctx context.Context, organizationID, projectID string, target stages.ID) (*workflow.Result, error) {
	return s.transition(ctx, organizationID, projectID, func(ctx context.Context, project *models.Project) (*workflow.Result, error) {
		return s.engine.ForceTransition(ctx, project, target)
	})
}

func (s *Project) transition(
	ctx context.Context,
	organizationID, projectID string,
	move func(context.Context, *models.Project) (*workflow.Result, error),
) (*workflow.Result, error) {
	lock := s.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	project, err := s.persistence.ProjectRepository().GetByID(ctx, organizationID, projectID)
	if err != nil {
		return nil, err
	}

	if project.Status != models.ProjectStatusActive {
		return nil, NewConflictError(
			"transition",
			"PROJECT_NOT_ACTIVE",
			fmt.Sprintf("project %s has status %q", projectID, project.Status),
			ErrProjectNotActive,
		)
	}

	result, err := move(ctx, project)
	if err != nil {
		return nil, err
	}

	if err := s.persistence.ProjectRepository().Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project after transition: %w", err)
	}

	s.storeTasks(ctx, result)

	s.logger.InfoContext(ctx, "Project stage advanced",
		"project_id", project.ID,
		"stage", project.CurrentStage,
		"completion", project.Timeline.CompletionPercentage,
		"tasks_created", len(result.Tasks),
	)

	return result, nil
}

// storeTasks persists and announces the tasks spawned by a transition.
// The transition itself already happened; storage failures here are
// logged but do not roll it back.
func (s *Project) storeTasks(ctx context.Context, result *workflow.Result) {
	repo := s.persistence.TaskRepository()

	for i := range result.Tasks {
		task := &result.Tasks[i]

		if err := repo.Create(ctx, task); err != nil {
			s.logger.ErrorContext(ctx, "Failed to store spawned task",
				"task_id", task.ID,
				"project_id", task.ProjectID,
				"error", err,
			)

			continue
		}

		s.announceTask(ctx, *task)
	}
}

func (s *Project) announceTask(ctx context.Context, task models.Task) {
	if s.publisher == nil {
		return
	}

	event := events.TaskCreated{
		BaseEvent: events.BaseEvent{
			ID:             uuid.NewString(),
			Type:           events.TaskCreatedEvent,
			Timestamp:      time.Now().UTC(),
			OrganizationID: task.OrganizationID,
			ProjectID:      task.ProjectID,
		},
		Task: task,
	}

	if err := s.publisher.Publish(ctx, task.ID, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish task created event",
			"task_id", task.ID,
			"error", err,
		)
	}
}

// ReportDelay appends a delay record to the project and persists it.
func (s *Project) ReportDelay(ctx context.Context, organizationID, projectID string, phase stages.ID, reason string, additionalDays int, reportedBy string) (models.Delay, error) {
	lock := s.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	project, err := s.persistence.ProjectRepository().GetByID(ctx, organizationID, projectID)
	if err != nil {
		return models.Delay{}, err
	}

	delay, err := s.engine.ReportDelay(ctx, project, phase, reason, additionalDays, reportedBy)
	if err != nil {
		return models.Delay{}, err
	}

	if err := s.persistence.ProjectRepository().Update(ctx, project); err != nil {
		return models.Delay{}, fmt.Errorf("failed to save project after delay report: %w", err)
	}

	return delay, nil
}

// EstimateDuration sums estimated stage hours over an inclusive range.
func (s *Project) EstimateDuration(from, to stages.ID) (float64, error) {
	return s.engine.EstimateDuration(from, to)
}

// Stages returns the full stage directory in display order.
func (s *Project) Stages() []stages.Definition {
	return s.engine.Directory().All()
}
