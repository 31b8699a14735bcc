package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate/shopmate/pkg/stages"
)

type recordingNotifier struct {
	actions []stages.AIAction
	fail    bool
}

func (n *recordingNotifier) Notify(_ context.Context, _, _ string, action stages.AIAction) error {
	if n.fail {
		return errors.New("channel down")
	}

	n.actions = append(n.actions, action)

	return nil
}

type recordingRuleRunner struct {
	rules  []stages.AutomationRule
	failID string
}

func (r *recordingRuleRunner) RunRule(_ context.Context, _, _ string, rule stages.AutomationRule) error {
	r.rules = append(r.rules, rule)

	if rule.ID == r.failID {
		return errors.New("rule blew up")
	}

	return nil
}

func testDirectory(t *testing.T, def stages.Definition) *stages.Directory {
	t.Helper()

	def.DisplayOrder = 1
	def.NextStage = "last"

	dir, err := stages.NewDirectory([]stages.Definition{
		def,
		{ID: "last", Name: "Last", DisplayOrder: 2},
	})
	require.NoError(t, err)

	return dir
}

func TestRunStageEntryAutoExecuteOnly(t *testing.T) {
	t.Parallel()

	dir := testDirectory(t, stages.Definition{
		ID:   "greet",
		Name: "Greet",
		AIActions: []stages.AIAction{
			{ID: "auto", Type: stages.AIActionGreeting, AutoExecute: true},
			{ID: "manual", Type: stages.AIActionAdvice, AutoExecute: false},
		},
	})

	notifier := &recordingNotifier{}
	runner := NewEffectsRunner(dir, notifier, nil, nil, nil)

	runner.RunStageEntry(context.Background(), "org-1", "proj-1", "greet")

	require.Len(t, notifier.actions, 1)
	assert.Equal(t, "auto", notifier.actions[0].ID)
}

func TestRunStageEntryRulePriorityOrder(t *testing.T) {
	t.Parallel()

	dir := testDirectory(t, stages.Definition{
		ID:   "rules",
		Name: "Rules",
		AutomationRules: []stages.AutomationRule{
			{ID: "low", Enabled: true, Priority: 1},
			{ID: "disabled", Enabled: false, Priority: 100},
			{ID: "high", Enabled: true, Priority: 10},
		},
	})

	rules := &recordingRuleRunner{}
	runner := NewEffectsRunner(dir, nil, rules, nil, nil)

	runner.RunStageEntry(context.Background(), "org-1", "proj-1", "rules")

	require.Len(t, rules.rules, 2)
	assert.Equal(t, "high", rules.rules[0].ID)
	assert.Equal(t, "low", rules.rules[1].ID)
}

func TestRunStageEntryRuleFailureDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	dir := testDirectory(t, stages.Definition{
		ID:   "rules",
		Name: "Rules",
		AutomationRules: []stages.AutomationRule{
			{ID: "first", Enabled: true, Priority: 10},
			{ID: "second", Enabled: true, Priority: 5},
		},
	})

	rules := &recordingRuleRunner{failID: "first"}
	runner := NewEffectsRunner(dir, nil, rules, nil, nil)

	runner.RunStageEntry(context.Background(), "org-1", "proj-1", "rules")

	require.Len(t, rules.rules, 2)
	assert.Equal(t, "second", rules.rules[1].ID)
}

func TestRunStageEntryNotifierFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	dir := testDirectory(t, stages.Definition{
		ID:   "greet",
		Name: "Greet",
		AIActions: []stages.AIAction{
			{ID: "auto", AutoExecute: true},
		},
	})

	runner := NewEffectsRunner(dir, &recordingNotifier{fail: true}, nil, nil, nil)

	assert.NotPanics(t, func() {
		runner.RunStageEntry(context.Background(), "org-1", "proj-1", "greet")
	})
}

func TestRunStageEntryOverlayRules(t *testing.T) {
	t.Parallel()

	dir := testDirectory(t, stages.Definition{
		ID:   "rules",
		Name: "Rules",
		AutomationRules: []stages.AutomationRule{
			{ID: "builtin", Enabled: true, Priority: 5},
		},
	})

	rules := &recordingRuleRunner{}
	runner := NewEffectsRunner(dir, nil, rules, nil, nil).
		WithRuleOverlay(map[stages.ID][]stages.AutomationRule{
			"rules": {{ID: "custom", Enabled: true, Priority: 50}},
		})

	runner.RunStageEntry(context.Background(), "org-1", "proj-1", "rules")

	require.Len(t, rules.rules, 2)
	assert.Equal(t, "custom", rules.rules[0].ID)
	assert.Equal(t, "builtin", rules.rules[1].ID)
}

func TestRunStageEntryUnknownStage(t *testing.T) {
	t.Parallel()

	dir := testDirectory(t, stages.Definition{ID: "known", Name: "Known"})

	notifier := &recordingNotifier{}
	runner := NewEffectsRunner(dir, notifier, nil, nil, nil)

	runner.RunStageEntry(context.Background(), "org-1", "proj-1", "unknown")

	assert.Empty(t, notifier.actions)
}
