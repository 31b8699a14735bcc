package automation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/stages"
)

func fixedEngine(at time.Time) *Engine {
	return &Engine{now: func() time.Time { return at }}
}

func TestCreateStageTasks(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := fixedEngine(now)

	project := &models.Project{
		ID:             "proj-42",
		OrganizationID: "org-1",
		Name:           "Garden Pavilion",
	}

	tasks := engine.CreateStageTasks(project, stages.DesignConcepts)
	require.Len(t, tasks, 1)

	task := tasks[0]
	assert.Equal(t, "task-proj-42-design_concepts", task.ID)
	assert.Equal(t, "org-1", task.OrganizationID)
	assert.Equal(t, "proj-42", task.ProjectID)
	assert.Equal(t, "Create Design Concepts", task.Title)
	assert.Equal(t, models.TaskTypeDesign, task.Type)
	assert.Equal(t, models.TaskPriorityHigh, task.Priority)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.InDelta(t, 8, task.EstimatedHours, 1e-9)
	assert.Equal(t, now.Add(8*time.Hour), task.DueDate)
	assert.Empty(t, task.AssignedTo)
}

func TestCreateStageTasksDueDateFollowsEstimate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := fixedEngine(now)
	project := &models.Project{ID: "p", OrganizationID: "o", Name: "n"}

	tests := []struct {
		stage stages.ID
		hours float64
	}{
		{stages.DetailedDesign, 16},
		{stages.BOMGeneration, 4},
		{stages.FinalQuote, 1},
		{stages.Manufacturing, 40},
		{stages.Delivery, 2},
	}

	for _, tt := range tests {
		tasks := engine.CreateStageTasks(project, tt.stage)
		require.Len(t, tasks, 1, "stage %s", tt.stage)
		assert.InDelta(t, tt.hours, tasks[0].EstimatedHours, 1e-9)
		assert.Equal(t, now.Add(time.Duration(tt.hours*float64(time.Hour))), tasks[0].DueDate)
	}
}

func TestCreateStageTasksStageWithoutTemplate(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	project := &models.Project{ID: "p", OrganizationID: "o"}

	assert.Empty(t, engine.CreateStageTasks(project, stages.Contact))
	assert.Empty(t, engine.CreateStageTasks(project, stages.Completion))
}

func TestTransitionTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 11, 17, 30, 0, 0, time.UTC)
	engine := fixedEngine(now)

	task := &models.Task{
		ID:     "task-1",
		Status: models.TaskStatusInProgress,
	}

	engine.TransitionTask(task)

	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)
	assert.Equal(t, now, task.UpdatedAt)
}
