package models

import (
	"time"

	"github.com/shopmate/shopmate/pkg/stages"
)

// TaskType partitions tasks by the kind of work; it drives the required
// skill lookup during auto-assignment.
type TaskType string

const (
	TaskTypeDesign        TaskType = "design"
	TaskTypeManufacturing TaskType = "manufacturing"
	TaskTypeReview        TaskType = "review"
	TaskTypeApproval      TaskType = "approval"
	TaskTypeDelivery      TaskType = "delivery"
	TaskTypeOther         TaskType = "other"
)

// TaskStatus represents the tracking state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// TaskPriority orders tasks for staff attention.
type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

// Task is a unit of work spawned by a stage transition. Dependencies are
// advisory data; completion is not gated on them.
type Task struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organization_id"`
	ProjectID      string       `json:"project_id"      validate:"required"`
	Title          string       `json:"title"           validate:"required"`
	Description    string       `json:"description"`
	Stage          stages.ID    `json:"stage"`
	Type           TaskType     `json:"type"`
	AssignedTo     string       `json:"assigned_to"`
	Priority       TaskPriority `json:"priority"`
	Status         TaskStatus   `json:"status"`
	EstimatedHours float64      `json:"estimated_hours" validate:"min=0"`
	ActualHours    float64      `json:"actual_hours"`
	StartedAt      *time.Time   `json:"started_at,omitempty"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	DueDate        time.Time    `json:"due_date"`
	Dependencies   []string     `json:"dependencies"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
