package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/stages"
	"github.com/shopmate/shopmate/pkg/workflow"
)

func newTestProject(stage stages.ID) *models.Project {
	return &models.Project{
		ID:             "project-1",
		OrganizationID: "org-1",
		Name:           "Garden Pavilion",
		CurrentStage:   stage,
		Status:         models.ProjectStatusActive,
	}
}

func newTestEngine() *workflow.Engine {
	return workflow.NewEngine(stages.Default(), nil, nil, nil)
}

func TestEngineTransitionToNextStage(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	project := newTestProject(stages.Contact)

	result, err := engine.Transition(context.Background(), project, "")
	require.NoError(t, err)

	assert.Equal(t, stages.LeadCreation, result.Project.CurrentStage)
	assert.Contains(t, project.Timeline.PhaseCompletionDates, stages.Contact)
	assert.InDelta(t, 8.0, project.Timeline.CompletionPercentage, 1e-9)
	assert.Equal(t, models.ProjectStatusActive, project.Status)
}

func TestEngineTransitionExplicitNext(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	project := newTestProject(stages.Contact)

	result, err := engine.Transition(context.Background(), project, stages.LeadCreation)
	require.NoError(t, err)
	assert.Equal(t, stages.LeadCreation, result.Project.CurrentStage)
}

func TestEngineTransitionRejectsSkip(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	project := newTestProject(stages.Contact)

	_, err := engine.Transition(context.Background(), project, stages.GPSMapping)
	require.Error(t, err)
	assert.True(t, workflow.IsInvalidStageTransition(err))

	// failed transition must leave the project untouched
	assert.Equal(t, stages.Contact, project.CurrentStage)
	assert.Empty(t, project.Timeline.PhaseCompletionDates)
	assert.Zero(t, project.Timeline.CompletionPercentage)
}

func TestEngineTransitionRejectsBackward(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	project := newTestProject(stages.SiteVisit)

	_, err := engine.Transition(context.Background(), project, stages.Contact)
	require.Error(t, err)
	assert.True(t, workflow.IsInvalidStageTransition(err))
	assert.Equal(t, stages.SiteVisit, project.CurrentStage)
}

func TestEngineTransitionUnknownStages(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()

	_, err := engine.Transition(context.Background(), newTestProject("warehouse"), "")
	require.Error(t, err)
	assert.True(t, workflow.IsUnknownStage(err))

	_, err = engine.Transition(context.Background(), newTestProject(stages.Contact), "warehouse")
	require.Error(t, err)
	assert.True(t, workflow.IsUnknownStage(err))
}

func TestEngineTransitionTerminalStage(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	project := newTestProject(stages.Completion)

	_, err := engine.Transition(context.Background(), project, "")
	require.Error(t, err)
	assert.True(t, workflow.IsNoNextStage(err))
}

func TestEngineFullChainWalk(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	project := newTestProject(stages.Contact)
	ctx := context.Background()

	for range 24 {
		_, err := engine.Transition(ctx, project, "")
		require.NoError(t, err)
	}

	assert.Equal(t, stages.Completion, project.CurrentStage)
	assert.InDelta(t, 100.0, project.Timeline.CompletionPercentage, 1e-9)
	assert.Equal(t, models.ProjectStatusCompleted, project.Status)
	require.NotNil(t, project.CompletedAt)
	require.NotNil(t, project.Timeline.ActualEnd)
	assert.Len(t, project.Timeline.PhaseCompletionDates, 24)
}

func TestEngineCompletionPercentageMonotonic(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	project := newTestProject(stages.Contact)
	ctx := context.Background()

	previous := project.Timeline.CompletionPercentage

	for {
		_, err := engine.Transition(ctx, project, "")
		if err != nil {
			break
		}

		assert.Greater(t, project.Timeline.CompletionPercentage, previous)
		previous = project.Timeline.CompletionPercentage
	}
}

func TestEngineForceTransition(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	project := newTestProject(stages.Contact)

	result, err := engine.ForceTransition(context.Background(), project, stages.Manufacturing)
	require.NoError(t, err)
	assert.Equal(t, stages.Manufacturing, result.Project.CurrentStage)

	_, err = engine.ForceTransition(context.Background(), project, "warehouse")
	require.Error(t, err)
	assert.True(t, workflow.IsUnknownStage(err))
}

func TestEngineReportDelay(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	project := newTestProject(stages.Manufacturing)

	delay, err := engine.ReportDelay(context.Background(), project, stages.Manufacturing, "material shortage", 5, "staff-1")
	require.NoError(t, err)

	assert.NotEmpty(t, delay.ID)
	assert.Equal(t, stages.Manufacturing, delay.Phase)
	assert.Equal(t, 5, delay.AdditionalDays)
	require.Len(t, project.Timeline.Delays, 1)

	// delays never move the stage
	assert.Equal(t, stages.Manufacturing, project.CurrentStage)

	_, err = engine.ReportDelay(context.Background(), project, "warehouse", "x", 1, "staff-1")
	require.Error(t, err)
	assert.True(t, workflow.IsUnknownStage(err))
	assert.Len(t, project.Timeline.Delays, 1)
}

func TestEngineEstimateDuration(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()

	tests := []struct {
		name    string
		from    stages.ID
		to      stages.ID
		want    float64
		wantErr func(error) bool
	}{
		{
			name: "single stage",
			from: stages.Contact,
			to:   stages.Contact,
			want: 0.5,
		},
		{
			name: "contact through lead creation",
			from: stages.Contact,
			to:   stages.LeadCreation,
			want: 1.5,
		},
		{
			name: "design block",
			from: stages.DesignConcepts,
			to:   stages.DetailedDesign,
			want: 24,
		},
		{
			name:    "reversed range",
			from:    stages.Manufacturing,
			to:      stages.Contact,
			wantErr: workflow.IsInvalidRange,
		},
		{
			name:    "unknown from",
			from:    "warehouse",
			to:      stages.Contact,
			wantErr: workflow.IsUnknownStage,
		},
		{
			name:    "unknown to",
			from:    stages.Contact,
			to:      "warehouse",
			wantErr: workflow.IsUnknownStage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := engine.EstimateDuration(tt.from, tt.to)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err))

				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEngineFullChainEstimate(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()

	total, err := engine.EstimateDuration(stages.Contact, stages.Completion)
	require.NoError(t, err)

	var want float64
	for _, def := range stages.Default().All() {
		want += def.EstimatedDuration
	}

	assert.InDelta(t, want, total, 1e-9)
}
