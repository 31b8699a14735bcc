// Package web provides HTTP request and response types for the project API.
package web

import "time"

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CreateProjectRequest represents the request body for opening a new project.
type CreateProjectRequest struct {
	CustomerID     string     `json:"customer_id"`
	Name           string     `json:"name"            validate:"required,min=3"`
	Description    string     `json:"description"`
	AssignedTeam   []string   `json:"assigned_team"`
	EstimatedStart *time.Time `json:"estimated_start,omitempty"`
	EstimatedEnd   *time.Time `json:"estimated_end,omitempty"`
}

// AdvanceStageRequest represents the request body for a stage transition.
// TargetStage is optional; when empty the next stage in the chain is used.
type AdvanceStageRequest struct {
	TargetStage string `json:"target_stage"`
}

// ForceStageRequest represents the request body for a forced stage move.
type ForceStageRequest struct {
	TargetStage string `json:"target_stage" validate:"required"`
}

// ReportDelayRequest represents the request body for reporting a delay.
type ReportDelayRequest struct {
	Phase          string `json:"phase"           validate:"required"`
	Reason         string `json:"reason"          validate:"required"`
	AdditionalDays int    `json:"additional_days" validate:"min=1"`
	ReportedBy     string `json:"reported_by"`
}

// CompleteTaskRequest represents the request body for completing a task.
type CompleteTaskRequest struct {
	ActualHours float64 `json:"actual_hours" validate:"min=0"`
}

// CreateStaffRequest represents the request body for registering a staff member.
type CreateStaffRequest struct {
	Name               string   `json:"name"                 validate:"required,min=2"`
	Email              string   `json:"email"                validate:"omitempty,email"`
	Role               string   `json:"role"`
	Skills             []string `json:"skills"`
	MaxConcurrentTasks int      `json:"max_concurrent_tasks" validate:"omitempty,min=1"`
}

// UpdateStaffRequest represents the request body for updating a staff member.
// All fields are optional to support partial updates.
type UpdateStaffRequest struct {
	Name               *string  `json:"name,omitempty"                 validate:"omitempty,min=2"`
	Email              *string  `json:"email,omitempty"                validate:"omitempty,email"`
	Role               *string  `json:"role,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	MaxConcurrentTasks *int     `json:"max_concurrent_tasks,omitempty" validate:"omitempty,min=1"`
	IsActive           *bool    `json:"is_active,omitempty"`
}

// EstimateResponse carries the summed stage hours over an inclusive range.
type EstimateResponse struct {
	FromStage      string  `json:"from_stage"`
	ToStage        string  `json:"to_stage"`
	EstimatedHours float64 `json:"estimated_hours"`
}
