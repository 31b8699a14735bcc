package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/persistence"
)

// ErrStaffNotFound is returned when a staff member is not found.
var ErrStaffNotFound = persistence.ErrStaffNotFound

// Staff manages the staff directory the assignment algorithm draws from.
type Staff struct {
	persistence persistence.Persistence
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewStaff creates a new staff service.
func NewStaff(p persistence.Persistence, logger *slog.Logger) *Staff {
	if logger == nil {
		logger = slog.Default()
	}

	return &Staff{
		persistence: p,
		validator:   validator.New(),
		logger:      logger.With("module", "staff_service"),
	}
}

// CreateStaffRequest contains the fields needed to register a staff member.
type CreateStaffRequest struct {
	OrganizationID     string `validate:"required"`
	Name               string `validate:"required,min=2"`
	Email              string `validate:"omitempty,email"`
	Role               string
	Skills             []string
	MaxConcurrentTasks int `validate:"min=1"`
}

// CreateStaff registers a new active staff member.
func (s *Staff) CreateStaff(ctx context.Context, req CreateStaffRequest) (*models.StaffMember, error) {
	if req.MaxConcurrentTasks == 0 {
		req.MaxConcurrentTasks = 3
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("CreateStaff", "INVALID_STAFF", err.Error(), ErrInvalidRequest)
	}

	staff := &models.StaffMember{
		ID:             uuid.NewString(),
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Email:          req.Email,
		Role:           req.Role,
		Skills:         req.Skills,
		Availability: models.Availability{
			MaxConcurrentTasks: req.MaxConcurrentTasks,
			CurrentTaskCount:   0,
		},
		IsActive: true,
	}

	if err := s.persistence.StaffRepository().Create(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}

	s.logger.InfoContext(ctx, "Staff member registered",
		"staff_id", staff.ID,
		"organization_id", staff.OrganizationID,
	)

	return staff, nil
}

// GetStaff retrieves one staff member scoped to an organization.
func (s *Staff) GetStaff(ctx context.Context, organizationID, id string) (*models.StaffMember, error) {
	if organizationID == "" {
		return nil, ErrEmptyOrganizationID
	}

	return s.persistence.StaffRepository().GetByID(ctx, organizationID, id)
}

// UpdateStaffRequest carries the mutable staff fields. Nil pointers leave
// the stored value unchanged.
type UpdateStaffRequest struct {
	Name               *string
	Email              *string
	Role               *string
	Skills             []string
	MaxConcurrentTasks *int
	IsActive           *bool
}

// UpdateStaff applies a partial update to a staff member.
func (s *Staff) UpdateStaff(ctx context.Context, organizationID, id string, req UpdateStaffRequest) (*models.StaffMember, error) {
	staff, err := s.persistence.StaffRepository().GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		staff.Name = *req.Name
	}

	if req.Email != nil {
		staff.Email = *req.Email
	}

	if req.Role != nil {
		staff.Role = *req.Role
	}

	if req.Skills != nil {
		staff.Skills = req.Skills
	}

	if req.MaxConcurrentTasks != nil {
		staff.Availability.MaxConcurrentTasks = *req.MaxConcurrentTasks
	}

	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := s.validator.Struct(staff); err != nil {
		return nil, NewValidationError("UpdateStaff", "INVALID_STAFF", err.Error(), ErrInvalidRequest)
	}

	if err := s.persistence.StaffRepository().Update(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}

	return staff, nil
}

// ListStaff returns every staff member of an organization.
func (s *Staff) ListStaff(ctx context.Context, organizationID string) ([]models.StaffMember, error) {
	if organizationID == "" {
		return nil, ErrEmptyOrganizationID
	}

	return s.persistence.StaffRepository().ListStaff(ctx, organizationID)
}
