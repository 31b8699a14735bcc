// Package automation derives tasks from stage transitions, assigns them to
// staff by skill and load, and analyzes the open task queue.
package automation

import (
	"fmt"
	"time"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/stages"
)

// taskTemplate is the static description of the task a stage spawns.
type taskTemplate struct {
	Title          string
	Type           models.TaskType
	EstimatedHours float64
	Priority       models.TaskPriority
}

// stageTaskTemplates maps stages to the task they materialize on entry.
// Not every stage spawns a trackable task.
var stageTaskTemplates = map[stages.ID]taskTemplate{
	stages.DesignConcepts: {
		Title:          "Create Design Concepts",
		Type:           models.TaskTypeDesign,
		EstimatedHours: 8,
		Priority:       models.TaskPriorityHigh,
	},
	stages.DetailedDesign: {
		Title:          "Develop Detailed Design",
		Type:           models.TaskTypeDesign,
		EstimatedHours: 16,
		Priority:       models.TaskPriorityHigh,
	},
	stages.BOMGeneration: {
		Title:          "Generate Bill of Materials",
		Type:           models.TaskTypeReview,
		EstimatedHours: 4,
		Priority:       models.TaskPriorityMedium,
	},
	stages.FinalQuote: {
		Title:          "Approve Final Quote",
		Type:           models.TaskTypeApproval,
		EstimatedHours: 1,
		Priority:       models.TaskPriorityHigh,
	},
	stages.Manufacturing: {
		Title:          "Manufacturing Process",
		Type:           models.TaskTypeManufacturing,
		EstimatedHours: 40,
		Priority:       models.TaskPriorityHigh,
	},
	stages.Delivery: {
		Title:          "Arrange Delivery",
		Type:           models.TaskTypeDelivery,
		EstimatedHours: 2,
		Priority:       models.TaskPriorityMedium,
	},
}

// timeNow is indirected for tests.
var timeNow = time.Now

// Engine implements task creation, assignment, and completion.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a task automation engine.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// CreateStageTasks materializes the tasks the given stage spawns for the
// project. Stages without a template spawn nothing; that is not an error.
func (e *Engine) CreateStageTasks(project *models.Project, stage stages.ID) []models.Task {
	template, ok := stageTaskTemplates[stage]
	if !ok {
		return nil
	}

	now := e.now()

	return []models.Task{
		{
			ID:             fmt.Sprintf("task-%s-%s", project.ID, stage),
			OrganizationID: project.OrganizationID,
			ProjectID:      project.ID,
			Title:          template.Title,
			Description:    fmt.Sprintf("%s for project %s", template.Title, project.Name),
			Stage:          stage,
			Type:           template.Type,
			Priority:       template.Priority,
			Status:         models.TaskStatusPending,
			EstimatedHours: template.EstimatedHours,
			DueDate:        now.Add(time.Duration(template.EstimatedHours * float64(time.Hour))),
			Dependencies:   []string{},
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
}

// TransitionTask marks a task completed. Dependencies are advisory data
// and are not checked here.
func (e *Engine) TransitionTask(task *models.Task) *models.Task {
	now := e.now()
	task.Status = models.TaskStatusCompleted
	task.CompletedAt = &now
	task.UpdatedAt = now

	return task
}
