// Package events defines event types published on workflow and task
// lifecycle changes.
package events

import (
	"time"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/stages"
)

type EventType string

// Topic is the single event stream all ShopMate services share.
const Topic = "shopmate.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ProjectStageEnteredEvent  EventType = "project.stage.entered"
	ProjectDelayReportedEvent EventType = "project.delay.reported"

	AIActionTriggeredEvent   EventType = "assistant.action.triggered"
	AutomationRuleFiredEvent EventType = "automation.rule.fired"

	TaskCreatedEvent   EventType = "task.created"
	TaskAssignedEvent  EventType = "task.assigned"
	TaskCompletedEvent EventType = "task.completed"
)

type BaseEvent struct {
	ID             string         `json:"id"`
	Type           EventType      `json:"type"`
	Timestamp      time.Time      `json:"timestamp"`
	OrganizationID string         `json:"organization_id"`
	ProjectID      string         `json:"project_id,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// ProjectStageEntered is published after a successful transition. Consumers
// (the automation worker) run the stage's assistant actions and automation
// rules off the transition's critical path.
type ProjectStageEntered struct {
	BaseEvent

	PreviousStage        stages.ID `json:"previous_stage"`
	Stage                stages.ID `json:"stage"`
	Forced               bool      `json:"forced"`
	CompletionPercentage float64   `json:"completion_percentage"`
}

func (e ProjectStageEntered) GetType() EventType {
	return ProjectStageEnteredEvent
}

type ProjectDelayReported struct {
	BaseEvent

	Delay models.Delay `json:"delay"`
}

func (e ProjectDelayReported) GetType() EventType {
	return ProjectDelayReportedEvent
}

// AIActionTriggered records that an auto-executing assistant action was
// dispatched on stage entry.
type AIActionTriggered struct {
	BaseEvent

	Stage  stages.ID       `json:"stage"`
	Action stages.AIAction `json:"action"`
}

func (e AIActionTriggered) GetType() EventType {
	return AIActionTriggeredEvent
}

// AutomationRuleFired records the outcome of one automation rule run. A
// failed rule never fails the transition that triggered it.
type AutomationRuleFired struct {
	BaseEvent

	Stage stages.ID             `json:"stage"`
	Rule  stages.AutomationRule `json:"rule"`
	Error string                `json:"error,omitempty"`
}

func (e AutomationRuleFired) GetType() EventType {
	return AutomationRuleFiredEvent
}

type TaskCreated struct {
	BaseEvent

	Task models.Task `json:"task"`
}

func (e TaskCreated) GetType() EventType {
	return TaskCreatedEvent
}

type TaskAssigned struct {
	BaseEvent

	TaskID  string `json:"task_id"`
	StaffID string `json:"staff_id"`
}

func (e TaskAssigned) GetType() EventType {
	return TaskAssignedEvent
}

type TaskCompleted struct {
	BaseEvent

	TaskID      string    `json:"task_id"`
	CompletedAt time.Time `json:"completed_at"`
}

func (e TaskCompleted) GetType() EventType {
	return TaskCompletedEvent
}
