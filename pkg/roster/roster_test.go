package roster_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/roster"
)

type staticStaffLister struct {
	members []models.StaffMember
	err     error
}

func (l *staticStaffLister) ListStaff(_ context.Context, _ string) ([]models.StaffMember, error) {
	return l.members, l.err
}

type failingCounter struct{}

func (failingCounter) Get(context.Context, string) (int, error) { return 0, errors.New("redis down") }
func (failingCounter) Increment(context.Context, string) error  { return errors.New("redis down") }
func (failingCounter) Decrement(context.Context, string) error  { return errors.New("redis down") }

func member(id string, active bool, storedCount int) models.StaffMember {
	return models.StaffMember{
		ID:       id,
		Name:     id,
		IsActive: active,
		Availability: models.Availability{
			MaxConcurrentTasks: 3,
			CurrentTaskCount:   storedCount,
		},
	}
}

func TestAvailableStaffFiltersInactive(t *testing.T) {
	t.Parallel()

	lister := &staticStaffLister{members: []models.StaffMember{
		member("active", true, 0),
		member("inactive", false, 0),
	}}

	service := roster.NewService(lister, roster.NewMemoryLoadCounter(), nil)

	available, err := service.AvailableStaff(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "active", available[0].ID)
}

func TestAvailableStaffOverlaysLiveCounts(t *testing.T) {
	t.Parallel()

	lister := &staticStaffLister{members: []models.StaffMember{
		member("dana", true, 0),
	}}

	counter := roster.NewMemoryLoadCounter()
	service := roster.NewService(lister, counter, nil)
	ctx := context.Background()

	service.RecordAssignment(ctx, "dana")
	service.RecordAssignment(ctx, "dana")

	available, err := service.AvailableStaff(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 2, available[0].Availability.CurrentTaskCount)

	service.RecordCompletion(ctx, "dana")

	available, err = service.AvailableStaff(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 1, available[0].Availability.CurrentTaskCount)
}

func TestAvailableStaffFallsBackToStoredCount(t *testing.T) {
	t.Parallel()

	lister := &staticStaffLister{members: []models.StaffMember{
		member("dana", true, 2),
	}}

	service := roster.NewService(lister, failingCounter{}, nil)

	available, err := service.AvailableStaff(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 2, available[0].Availability.CurrentTaskCount)
}

func TestAvailableStaffListerError(t *testing.T) {
	t.Parallel()

	service := roster.NewService(&staticStaffLister{err: errors.New("storage gone")}, nil, nil)

	_, err := service.AvailableStaff(context.Background(), "org-1")
	assert.Error(t, err)
}

func TestRecordCompletionIgnoresEmptyStaffID(t *testing.T) {
	t.Parallel()

	counter := roster.NewMemoryLoadCounter()
	service := roster.NewService(&staticStaffLister{}, counter, nil)

	assert.NotPanics(t, func() {
		service.RecordCompletion(context.Background(), "")
	})
}

func TestMemoryLoadCounterClampsAtZero(t *testing.T) {
	t.Parallel()

	counter := roster.NewMemoryLoadCounter()
	ctx := context.Background()

	require.NoError(t, counter.Decrement(ctx, "dana"))

	count, err := counter.Get(ctx, "dana")
	require.NoError(t, err)
	assert.Zero(t, count)
}
