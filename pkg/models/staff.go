package models

import "time"

// Availability holds the load limits the assignment algorithm reads. The
// engine never mutates staff records directly; the roster adjusts
// CurrentTaskCount as tasks are assigned and completed.
type Availability struct {
	MaxConcurrentTasks int `json:"max_concurrent_tasks" validate:"min=1"`
	CurrentTaskCount   int `json:"current_task_count"`
}

// StaffMember is a worker eligible for task assignment.
type StaffMember struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organization_id" validate:"required"`
	Name           string       `json:"name"            validate:"required,min=2"`
	Email          string       `json:"email"           validate:"omitempty,email"`
	Role           string       `json:"role"`
	Skills         []string     `json:"skills"`
	Availability   Availability `json:"availability"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// HasSkills reports whether the member's skill set covers every required
// skill. An empty requirement always qualifies.
func (s StaffMember) HasSkills(required []string) bool {
	if len(required) == 0 {
		return true
	}

	have := make(map[string]bool, len(s.Skills))
	for _, skill := range s.Skills {
		have[skill] = true
	}

	for _, skill := range required {
		if !have[skill] {
			return false
		}
	}

	return true
}

// HasCapacity reports whether the member can take one more task.
func (s StaffMember) HasCapacity() bool {
	return s.Availability.CurrentTaskCount < s.Availability.MaxConcurrentTasks
}
