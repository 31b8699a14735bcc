package automation

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/shopmate/shopmate/pkg/eventbus"
	"github.com/shopmate/shopmate/pkg/events"
	"github.com/shopmate/shopmate/pkg/stages"
)

// Notifier delivers assistant actions. Delivery is best-effort; errors are
// logged by the caller and never propagated.
type Notifier interface {
	Notify(ctx context.Context, organizationID, projectID string, action stages.AIAction) error
}

// RuleRunner executes one automation rule. A rule failure is isolated: it
// never halts the remaining rules.
type RuleRunner interface {
	RunRule(ctx context.Context, organizationID, projectID string, rule stages.AutomationRule) error
}

// EffectsRunner fans out stage-entry side effects: auto-executing
// assistant actions to the notifier, then enabled automation rules in
// priority order. It runs in the automation worker, off the transition's
// critical path.
type EffectsRunner struct {
	notifier  Notifier
	rules     RuleRunner
	publisher eventbus.EventPublisher
	directory *stages.Directory
	overlay   map[stages.ID][]stages.AutomationRule
	logger    *slog.Logger
}

func NewEffectsRunner(directory *stages.Directory, notifier Notifier, rules RuleRunner, publisher eventbus.EventPublisher, logger *slog.Logger) *EffectsRunner {
	if logger == nil {
		logger = slog.Default()
	}

	return &EffectsRunner{
		notifier:  notifier,
		rules:     rules,
		publisher: publisher,
		directory: directory,
		logger:    logger.With("module", "effects_runner"),
	}
}

// WithRuleOverlay adds organization-specific rules appended after each
// stage's built-in rules. Must be called before the runner is shared.
func (r *EffectsRunner) WithRuleOverlay(overlay map[stages.ID][]stages.AutomationRule) *EffectsRunner {
	r.overlay = overlay

	return r
}

// RunStageEntry executes the side effects of entering the given stage.
// Every failure is logged with project and stage context and swallowed:
// a misconfigured rule must not block transitions.
func (r *EffectsRunner) RunStageEntry(ctx context.Context, organizationID, projectID string, stage stages.ID) {
	def, ok := r.directory.Get(stage)
	if !ok {
		r.logger.WarnContext(ctx, "Stage entry effects requested for unknown stage",
			"project_id", projectID,
			"stage", stage,
		)

		return
	}

	r.runAIActions(ctx, organizationID, projectID, def)
	r.runAutomationRules(ctx, organizationID, projectID, def)
}

func (r *EffectsRunner) runAIActions(ctx context.Context, organizationID, projectID string, def stages.Definition) {
	if r.notifier == nil {
		return
	}

	for _, action := range def.AIActions {
		if !action.AutoExecute {
			continue
		}

		if err := r.notifier.Notify(ctx, organizationID, projectID, action); err != nil {
			r.logger.ErrorContext(ctx, "Failed to deliver assistant action",
				"project_id", projectID,
				"stage", def.ID,
				"action_type", action.Type,
				"error", err,
			)

			continue
		}

		r.publishRuleEvent(ctx, events.AIActionTriggered{
			BaseEvent: r.baseEvent(events.AIActionTriggeredEvent, organizationID, projectID),
			Stage:     def.ID,
			Action:    action,
		}, projectID)
	}
}

func (r *EffectsRunner) runAutomationRules(ctx context.Context, organizationID, projectID string, def stages.Definition) {
	if r.rules == nil {
		return
	}

	rules := def.AutomationRules
	if extra, ok := r.overlay[def.ID]; ok {
		rules = append(append([]stages.AutomationRule{}, rules...), extra...)
	}

	enabled := make([]stages.AutomationRule, 0, len(rules))

	for _, rule := range rules {
		if rule.Enabled {
			enabled = append(enabled, rule)
		}
	}

	// Priority descending; stable sort keeps declaration order on ties.
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority > enabled[j].Priority
	})

	for _, rule := range enabled {
		outcome := events.AutomationRuleFired{
			BaseEvent: r.baseEvent(events.AutomationRuleFiredEvent, organizationID, projectID),
			Stage:     def.ID,
			Rule:      rule,
		}

		if err := r.rules.RunRule(ctx, organizationID, projectID, rule); err != nil {
			outcome.Error = err.Error()

			r.logger.ErrorContext(ctx, "Automation rule failed",
				"project_id", projectID,
				"stage", def.ID,
				"rule_id", rule.ID,
				"action", rule.Action,
				"error", err,
			)
		}

		r.publishRuleEvent(ctx, outcome, projectID)
	}
}

func (r *EffectsRunner) baseEvent(eventType events.EventType, organizationID, projectID string) events.BaseEvent {
	return events.BaseEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		Timestamp:      timeNow(),
		OrganizationID: organizationID,
		ProjectID:      projectID,
	}
}

func (r *EffectsRunner) publishRuleEvent(ctx context.Context, event eventbus.Event, key string) {
	if r.publisher == nil {
		return
	}

	if err := r.publisher.Publish(ctx, key, event); err != nil {
		r.logger.ErrorContext(ctx, "Failed to publish effect event",
			"event_type", event.GetType(),
			"error", err,
		)
	}
}
