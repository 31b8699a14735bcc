package automation

import (
	"fmt"

	"github.com/shopmate/shopmate/pkg/models"
)

// requiredSkillsByType is the fixed task type to skill requirement table.
// Unknown types behave like "other": no skill requirement.
var requiredSkillsByType = map[models.TaskType][]string{
	models.TaskTypeDesign:        {"CAD", "Design", "Problem Solving"},
	models.TaskTypeManufacturing: {"CNC", "Assembly", "Quality Check"},
	models.TaskTypeReview:        {"Analysis", "Attention to Detail"},
	models.TaskTypeApproval:      {"Decision Making", "Quality Standards"},
	models.TaskTypeDelivery:      {"Logistics", "Customer Service"},
	models.TaskTypeOther:         {},
}

// RequiredSkills returns the skills a task of the given type demands.
func RequiredSkills(taskType models.TaskType) []string {
	return requiredSkillsByType[taskType]
}

// AutoAssignTask picks the least-loaded staff member with capacity and the
// task's required skills, and writes the assignment onto the task. Ties
// break on roster order: first encountered wins, keeping the choice
// deterministic.
//
// Assignment does not change task status: the task stays pending and status
// transitions remain the caller's responsibility.
func (e *Engine) AutoAssignTask(task *models.Task, availableStaff []models.StaffMember) (string, error) {
	required := RequiredSkills(task.Type)

	var best *models.StaffMember

	for i := range availableStaff {
		staff := &availableStaff[i]

		if !staff.HasCapacity() || !staff.HasSkills(required) {
			continue
		}

		if best == nil || staff.Availability.CurrentTaskCount < best.Availability.CurrentTaskCount {
			best = staff
		}
	}

	if best == nil {
		return "", fmt.Errorf("%w: task %s (type %s)", ErrNoEligibleStaff, task.ID, task.Type)
	}

	task.AssignedTo = best.ID
	task.UpdatedAt = e.now()

	return best.ID, nil
}
