// Package models defines the core domain models for the ShopMate CRM/ERP backend.
package models

import (
	"time"

	"github.com/shopmate/shopmate/pkg/stages"
)

// ProjectStatus represents the lifecycle state of a project record, as
// distinct from its position in the stage chain.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusPaused    ProjectStatus = "paused"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// Project is a customer engagement moving through the fixed stage chain.
// Timeline is mutated exclusively by the workflow transition engine; the
// surrounding service layer serializes writes per project id.
type Project struct {
	ID             string        `json:"id"`
	OrganizationID string        `json:"organization_id" validate:"required"`
	CustomerID     string        `json:"customer_id"`
	Name           string        `json:"name"            validate:"required,min=3"`
	Description    string        `json:"description"`
	CurrentStage   stages.ID     `json:"current_stage"`
	Timeline       Timeline      `json:"timeline"`
	AssignedTeam   []string      `json:"assigned_team"`
	Status         ProjectStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
}

// Timeline tracks per-project workflow state: which stages have been
// exited and when, reported delays, and the derived completion percentage.
type Timeline struct {
	EstimatedStart       time.Time               `json:"estimated_start"`
	ActualStart          *time.Time              `json:"actual_start,omitempty"`
	EstimatedEnd         time.Time               `json:"estimated_end"`
	ActualEnd            *time.Time              `json:"actual_end,omitempty"`
	PhaseCompletionDates map[stages.ID]time.Time `json:"phase_completion_dates"`
	Delays               []Delay                 `json:"delays"`
	CompletionPercentage float64                 `json:"completion_percentage"`
}

// Delay is one reported slip against a stage. Delays are append-only and
// never mutate the stage position.
type Delay struct {
	ID             string    `json:"id"`
	Phase          stages.ID `json:"phase"`
	Reason         string    `json:"reason"`
	AdditionalDays int       `json:"additional_days"`
	ReportedAt     time.Time `json:"reported_at"`
	ReportedBy     string    `json:"reported_by"`
}
