package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate/shopmate/pkg/automation"
	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/persistence"
	"github.com/shopmate/shopmate/pkg/persistence/file"
	"github.com/shopmate/shopmate/pkg/roster"
	"github.com/shopmate/shopmate/pkg/services"
	"github.com/shopmate/shopmate/pkg/stages"
)

func newTaskService(t *testing.T) (*services.Task, *file.Persistence, *roster.Service) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())
	r := roster.NewService(p.StaffRepository(), roster.NewMemoryLoadCounter(), nil)

	return services.NewTask(p, automation.NewEngine(), r, nil, nil), p, r
}

func seedStaff(t *testing.T, p *file.Persistence, id string, skills []string, maxTasks int) {
	t.Helper()

	require.NoError(t, p.StaffRepository().Create(context.Background(), &models.StaffMember{
		ID:             id,
		OrganizationID: "org-1",
		Name:           "Staff " + id,
		Skills:         skills,
		Availability:   models.Availability{MaxConcurrentTasks: maxTasks},
		IsActive:       true,
	}))
}

func seedTask(t *testing.T, p *file.Persistence, id string, taskType models.TaskType) *models.Task {
	t.Helper()

	task := &models.Task{
		ID:             id,
		OrganizationID: "org-1",
		ProjectID:      "proj-1",
		Title:          "Seeded task",
		Stage:          stages.DesignConcepts,
		Type:           taskType,
		Status:         models.TaskStatusPending,
		Priority:       models.TaskPriorityHigh,
		EstimatedHours: 8,
	}
	require.NoError(t, p.TaskRepository().Create(context.Background(), task))

	return task
}

func TestAssignTaskPicksQualifiedStaff(t *testing.T) {
	t.Parallel()

	service, p, _ := newTaskService(t)
	ctx := context.Background()

	seedStaff(t, p, "staff-designer", []string{"CAD", "Design", "Problem Solving"}, 3)
	seedStaff(t, p, "staff-welder", []string{"CNC", "Assembly", "Quality Check"}, 3)
	seedTask(t, p, "task-1", models.TaskTypeDesign)

	task, err := service.AssignTask(ctx, "org-1", "task-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-designer", task.AssignedTo)
	assert.Equal(t, models.TaskStatusPending, task.Status)

	stored, err := p.TaskRepository().GetByID(ctx, "org-1", "task-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-designer", stored.AssignedTo)
}

func TestAssignTaskPrefersLeastLoaded(t *testing.T) {
	t.Parallel()

	service, p, r := newTaskService(t)
	ctx := context.Background()

	seedStaff(t, p, "staff-busy", nil, 5)
	seedStaff(t, p, "staff-idle", nil, 5)
	r.RecordAssignment(ctx, "staff-busy")
	r.RecordAssignment(ctx, "staff-busy")

	seedTask(t, p, "task-1", models.TaskTypeOther)

	task, err := service.AssignTask(ctx, "org-1", "task-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-idle", task.AssignedTo)
}

func TestAssignTaskNoEligibleStaff(t *testing.T) {
	t.Parallel()

	service, p, _ := newTaskService(t)
	ctx := context.Background()

	seedStaff(t, p, "staff-welder", []string{"CNC"}, 3)
	seedTask(t, p, "task-1", models.TaskTypeDesign)

	_, err := service.AssignTask(ctx, "org-1", "task-1")
	require.Error(t, err)
	assert.True(t, automation.IsNoEligibleStaff(err))
}

func TestAssignTaskConflicts(t *testing.T) {
	t.Parallel()

	service, p, _ := newTaskService(t)
	ctx := context.Background()

	seedStaff(t, p, "staff-1", nil, 3)

	assigned := seedTask(t, p, "task-assigned", models.TaskTypeOther)
	assigned.AssignedTo = "staff-1"
	require.NoError(t, p.TaskRepository().Update(ctx, assigned))

	_, err := service.AssignTask(ctx, "org-1", "task-assigned")
	require.Error(t, err)
	assert.True(t, services.IsConflictError(err))

	done := seedTask(t, p, "task-done", models.TaskTypeOther)
	done.Status = models.TaskStatusCompleted
	require.NoError(t, p.TaskRepository().Update(ctx, done))

	_, err = service.AssignTask(ctx, "org-1", "task-done")
	require.Error(t, err)
	assert.True(t, services.IsConflictError(err))
}

func TestAssignTaskUnknownTask(t *testing.T) {
	t.Parallel()

	service, _, _ := newTaskService(t)

	_, err := service.AssignTask(context.Background(), "org-1", "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsTaskNotFound(err))
}

func TestStartTask(t *testing.T) {
	t.Parallel()

	service, p, _ := newTaskService(t)
	ctx := context.Background()

	seedTask(t, p, "task-1", models.TaskTypeOther)

	task, err := service.StartTask(ctx, "org-1", "task-1")
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, task.Status)
	require.NotNil(t, task.StartedAt)

	started := *task.StartedAt

	// starting again keeps the original timestamp
	task, err = service.StartTask(ctx, "org-1", "task-1")
	require.NoError(t, err)
	assert.Equal(t, started, *task.StartedAt)
}

func TestCompleteTaskReleasesLoad(t *testing.T) {
	t.Parallel()

	service, p, r := newTaskService(t)
	ctx := context.Background()

	seedStaff(t, p, "staff-1", nil, 3)
	seedTask(t, p, "task-1", models.TaskTypeOther)

	_, err := service.AssignTask(ctx, "org-1", "task-1")
	require.NoError(t, err)

	available, err := r.AvailableStaff(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 1, available[0].Availability.CurrentTaskCount)

	task, err := service.CompleteTask(ctx, "org-1", "task-1", 6.5)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.InDelta(t, 6.5, task.ActualHours, 1e-9)

	available, err = r.AvailableStaff(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Zero(t, available[0].Availability.CurrentTaskCount)

	// completing twice is a conflict
	_, err = service.CompleteTask(ctx, "org-1", "task-1", 0)
	require.Error(t, err)
	assert.True(t, services.IsConflictError(err))
}

func TestAssignTaskConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	service, p, r := newTaskService(t)
	ctx := context.Background()

	seedStaff(t, p, "staff-1", nil, 5)
	seedTask(t, p, "task-1", models.TaskTypeOther)

	const attempts = 8

	var wg sync.WaitGroup

	errs := make(chan error, attempts)

	for range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := service.AssignTask(ctx, "org-1", "task-1")
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	var assigned, conflicts int

	for err := range errs {
		switch {
		case err == nil:
			assigned++
		case services.IsConflictError(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, assigned)
	assert.Equal(t, attempts-1, conflicts)

	// exactly one load increment recorded
	available, err := r.AvailableStaff(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 1, available[0].Availability.CurrentTaskCount)
}

func TestListTasksValidatesStatus(t *testing.T) {
	t.Parallel()

	service, _, _ := newTaskService(t)

	bogus := models.TaskStatus("archived")
	_, err := service.ListTasks(context.Background(), "org-1", services.ListTasksRequest{Status: &bogus})
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}

func TestBottlenecksAndMetrics(t *testing.T) {
	t.Parallel()

	service, p, _ := newTaskService(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		task := seedTask(t, p, "task-"+id, models.TaskTypeDesign)
		task.Status = models.TaskStatusBlocked
		require.NoError(t, p.TaskRepository().Update(ctx, task))
	}

	started := time.Now().UTC().Add(-2 * time.Hour)
	completed := started.Add(2 * time.Hour)
	done := seedTask(t, p, "task-done", models.TaskTypeOther)
	done.Status = models.TaskStatusCompleted
	done.StartedAt = &started
	done.CompletedAt = &completed
	require.NoError(t, p.TaskRepository().Update(ctx, done))

	bottlenecks, err := service.Bottlenecks(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, bottlenecks, 1)
	assert.Equal(t, stages.DesignConcepts, bottlenecks[0].Stage)
	assert.Equal(t, 4, bottlenecks[0].Count)

	metrics, err := service.Metrics(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 5, metrics.TotalTasks)
	assert.Equal(t, 1, metrics.CompletedTasks)
	assert.InDelta(t, 2.0, metrics.AverageCompletionTimeHours, 1e-9)
}
