// Package persistence provides the data storage abstraction for projects,
// tasks, and staff. The workflow core never talks to storage directly; it
// goes through these repositories.
package persistence

import (
	"context"
	"errors"

	"github.com/shopmate/shopmate/pkg/models"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrStaffNotFound   = errors.New("staff member not found")
)

func IsProjectNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound)
}

func IsTaskNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound)
}

func IsStaffNotFound(err error) bool {
	return errors.Is(err, ErrStaffNotFound)
}

// ListProjectsOptions filters and pages project listings. All reads are
// scoped to one organization.
type ListProjectsOptions struct {
	Status       *models.ProjectStatus
	CurrentStage string
	Limit        int
	Offset       int
}

// ListTasksOptions filters task listings.
type ListTasksOptions struct {
	ProjectID string
	Status    *models.TaskStatus
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, organizationID, id string) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	List(ctx context.Context, organizationID string, opts ListProjectsOptions) ([]*models.Project, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, organizationID, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	List(ctx context.Context, organizationID string, opts ListTasksOptions) ([]models.Task, error)
}

type StaffRepository interface {
	Create(ctx context.Context, staff *models.StaffMember) error
	GetByID(ctx context.Context, organizationID, id string) (*models.StaffMember, error)
	Update(ctx context.Context, staff *models.StaffMember) error
	ListStaff(ctx context.Context, organizationID string) ([]models.StaffMember, error)
}

type Persistence interface {
	ProjectRepository() ProjectRepository
	TaskRepository() TaskRepository
	StaffRepository() StaffRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
