package stages_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate/shopmate/pkg/stages"
)

func TestDefaultDirectory(t *testing.T) {
	t.Parallel()

	dir := stages.Default()

	assert.Equal(t, 25, dir.Len())
	assert.Equal(t, stages.Contact, dir.First().ID)

	all := dir.All()
	require.Len(t, all, 25)

	seenOrders := make(map[int]bool)
	for _, def := range all {
		assert.False(t, seenOrders[def.DisplayOrder], "duplicate display order %d", def.DisplayOrder)
		seenOrders[def.DisplayOrder] = true
	}

	for order := 1; order <= 25; order++ {
		assert.True(t, seenOrders[order], "missing display order %d", order)
	}
}

func TestDefaultDirectoryChainWalk(t *testing.T) {
	t.Parallel()

	dir := stages.Default()

	current := dir.First()
	steps := 0

	for {
		next, ok := dir.NextOf(current.ID)
		if !ok {
			break
		}

		assert.Equal(t, current.DisplayOrder+1, next.DisplayOrder)

		current = next
		steps++
	}

	assert.Equal(t, 24, steps)
	assert.Equal(t, stages.Completion, current.ID)
	assert.True(t, current.Terminal())
}

func TestDefaultDirectoryTerminalStage(t *testing.T) {
	t.Parallel()

	dir := stages.Default()

	for _, def := range dir.All() {
		if def.ID == stages.Completion {
			assert.True(t, def.Terminal())

			continue
		}

		assert.False(t, def.Terminal(), "stage %s must not be terminal", def.ID)
	}

	_, hasNext := dir.NextOf(stages.Completion)
	assert.False(t, hasNext)
}

func TestDefaultDirectoryManufacturingPhase(t *testing.T) {
	t.Parallel()

	dir := stages.Default()

	creation, ok := dir.Get(stages.ProjectCreation)
	require.True(t, ok)

	for _, def := range dir.All() {
		expected := def.DisplayOrder >= creation.DisplayOrder
		assert.Equal(t, expected, def.IsManufacturingPhase, "stage %s", def.ID)
	}
}

func TestNewDirectoryValidation(t *testing.T) {
	t.Parallel()

	valid := []stages.Definition{
		{ID: "one", Name: "One", DisplayOrder: 1, NextStage: "two", EstimatedDuration: 1},
		{ID: "two", Name: "Two", DisplayOrder: 2, EstimatedDuration: 2},
	}

	tests := []struct {
		name    string
		mutate  func(defs []stages.Definition) []stages.Definition
		wantErr bool
	}{
		{
			name:   "valid chain",
			mutate: func(defs []stages.Definition) []stages.Definition { return defs },
		},
		{
			name: "duplicate id",
			mutate: func(defs []stages.Definition) []stages.Definition {
				defs[1].ID = "one"

				return defs
			},
			wantErr: true,
		},
		{
			name: "duplicate display order",
			mutate: func(defs []stages.Definition) []stages.Definition {
				defs[1].DisplayOrder = 1

				return defs
			},
			wantErr: true,
		},
		{
			name: "broken successor",
			mutate: func(defs []stages.Definition) []stages.Definition {
				defs[0].NextStage = "missing"

				return defs
			},
			wantErr: true,
		},
		{
			name: "negative duration",
			mutate: func(defs []stages.Definition) []stages.Definition {
				defs[0].EstimatedDuration = -1

				return defs
			},
			wantErr: true,
		},
		{
			name: "non-terminal last stage",
			mutate: func(defs []stages.Definition) []stages.Definition {
				defs[0].NextStage = "two"
				defs[1].NextStage = "one"

				return defs
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defs := make([]stages.Definition, len(valid))
			copy(defs, valid)

			_, err := stages.NewDirectory(tt.mutate(defs))
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestDirectoryAllReturnsCopy(t *testing.T) {
	t.Parallel()

	dir := stages.Default()

	all := dir.All()
	all[0].Name = "mutated"
	all[0].EstimatedDuration = 999

	fresh := dir.All()
	assert.NotEqual(t, "mutated", fresh[0].Name)
}

func TestStageDurations(t *testing.T) {
	t.Parallel()

	dir := stages.Default()

	contact, ok := dir.Get(stages.Contact)
	require.True(t, ok)
	assert.InDelta(t, 0.5, contact.EstimatedDuration, 1e-9)

	manufacturing, ok := dir.Get(stages.Manufacturing)
	require.True(t, ok)
	assert.InDelta(t, 40, manufacturing.EstimatedDuration, 1e-9)

	var total time.Duration
	for _, def := range dir.All() {
		total += time.Duration(def.EstimatedDuration * float64(time.Hour))
	}

	assert.Positive(t, total)
}
