// Package roster provides the staff read side for task assignment: the
// list of active staff with live workload counts layered on top of the
// stored records.
package roster

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopmate/shopmate/pkg/models"
)

// StaffLister is the persistence dependency: active staff for one
// organization.
type StaffLister interface {
	ListStaff(ctx context.Context, organizationID string) ([]models.StaffMember, error)
}

// LoadCounter tracks the number of open tasks per staff member across
// processes. Assignment increments, completion decrements.
type LoadCounter interface {
	Get(ctx context.Context, staffID string) (int, error)
	Increment(ctx context.Context, staffID string) error
	Decrement(ctx context.Context, staffID string) error
}

// Service resolves the available staff for assignment, overlaying live
// load counts onto stored availability.
type Service struct {
	staff  StaffLister
	loads  LoadCounter
	logger *slog.Logger
}

func NewService(staff StaffLister, loads LoadCounter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		staff:  staff,
		loads:  loads,
		logger: logger.With("module", "roster"),
	}
}

// AvailableStaff returns the organization's active staff with
// CurrentTaskCount replaced by the live counter value. A counter read
// failure falls back to the stored count rather than failing the lookup.
func (s *Service) AvailableStaff(ctx context.Context, organizationID string) ([]models.StaffMember, error) {
	staff, err := s.staff.ListStaff(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff for organization %s: %w", organizationID, err)
	}

	available := make([]models.StaffMember, 0, len(staff))

	for _, member := range staff {
		if !member.IsActive {
			continue
		}

		if s.loads != nil {
			count, err := s.loads.Get(ctx, member.ID)
			if err != nil {
				s.logger.WarnContext(ctx, "Load counter unavailable, using stored count",
					"staff_id", member.ID,
					"error", err,
				)
			} else {
				member.Availability.CurrentTaskCount = count
			}
		}

		available = append(available, member)
	}

	return available, nil
}

// RecordAssignment bumps the live load for the staff member.
func (s *Service) RecordAssignment(ctx context.Context, staffID string) {
	if s.loads == nil {
		return
	}

	if err := s.loads.Increment(ctx, staffID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to increment staff load", "staff_id", staffID, "error", err)
	}
}

// RecordCompletion releases one unit of load for the staff member.
func (s *Service) RecordCompletion(ctx context.Context, staffID string) {
	if staffID == "" || s.loads == nil {
		return
	}

	if err := s.loads.Decrement(ctx, staffID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to decrement staff load", "staff_id", staffID, "error", err)
	}
}
