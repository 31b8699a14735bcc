// Package notify implements the assistant notification sink and the
// automation rule executor consumed by the effects runner. Both are
// best-effort collaborators: their failures are logged by callers, never
// propagated into transitions.
package notify

import (
	"context"
	"log/slog"

	"github.com/shopmate/shopmate/pkg/stages"
)

// SlogNotifier delivers assistant actions to the structured log. It stands
// in for the real assistant channel (chat, email, push), which consumes
// the same event stream.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogNotifier{logger: logger.With("module", "assistant_notifier")}
}

func (n *SlogNotifier) Notify(ctx context.Context, organizationID, projectID string, action stages.AIAction) error {
	n.logger.InfoContext(ctx, "Assistant notification",
		"organization_id", organizationID,
		"project_id", projectID,
		"action_type", action.Type,
		"requires_approval", action.RequiresApproval,
		"message", action.Message,
	)

	return nil
}

// LogRuleRunner records automation rule execution. Rule actions are opaque
// labels here; systems owning the labeled behavior subscribe to the
// rule-fired events instead of being called inline.
type LogRuleRunner struct {
	logger *slog.Logger
}

func NewLogRuleRunner(logger *slog.Logger) *LogRuleRunner {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogRuleRunner{logger: logger.With("module", "rule_runner")}
}

func (r *LogRuleRunner) RunRule(ctx context.Context, organizationID, projectID string, rule stages.AutomationRule) error {
	r.logger.InfoContext(ctx, "Automation rule executed",
		"organization_id", organizationID,
		"project_id", projectID,
		"rule_id", rule.ID,
		"condition", rule.Condition,
		"action", rule.Action,
		"priority", rule.Priority,
	)

	return nil
}
