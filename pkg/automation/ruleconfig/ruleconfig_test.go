package ruleconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate/shopmate/pkg/automation/ruleconfig"
	"github.com/shopmate/shopmate/pkg/stages"
)

const validOverlay = `{
	"rules": {
		"quotation": [
			{
				"id": "auto-followup",
				"condition": "quote_sent",
				"action": "schedule_followup_call",
				"enabled": true,
				"priority": 10
			}
		],
		"manufacturing": [
			{
				"id": "material-check",
				"condition": "stage_entered",
				"action": "verify_material_stock",
				"enabled": false,
				"priority": 5
			}
		]
	}
}`

func TestParseValidOverlay(t *testing.T) {
	t.Parallel()

	overlay, err := ruleconfig.Parse([]byte(validOverlay), stages.Default())
	require.NoError(t, err)
	require.Len(t, overlay, 2)

	quotation := overlay[stages.Quotation]
	require.Len(t, quotation, 1)
	assert.Equal(t, "auto-followup", quotation[0].ID)
	assert.Equal(t, "schedule_followup_call", quotation[0].Action)
	assert.True(t, quotation[0].Enabled)
	assert.Equal(t, 10, quotation[0].Priority)

	manufacturing := overlay[stages.Manufacturing]
	require.Len(t, manufacturing, 1)
	assert.False(t, manufacturing[0].Enabled)
}

func TestParseRejectsUnknownStage(t *testing.T) {
	t.Parallel()

	doc := `{
		"rules": {
			"warehouse": [
				{"id": "x", "condition": "c", "action": "a"}
			]
		}
	}`

	_, err := ruleconfig.Parse([]byte(doc), stages.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown stage")
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing rules key",
			doc:  `{"stages": {}}`,
		},
		{
			name: "rule without id",
			doc:  `{"rules": {"quotation": [{"condition": "c", "action": "a"}]}}`,
		},
		{
			name: "rule without action",
			doc:  `{"rules": {"quotation": [{"id": "x", "condition": "c"}]}}`,
		},
		{
			name: "empty action string",
			doc:  `{"rules": {"quotation": [{"id": "x", "condition": "c", "action": ""}]}}`,
		},
		{
			name: "rules not an object",
			doc:  `{"rules": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ruleconfig.Parse([]byte(tt.doc), stages.Default())
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := ruleconfig.Parse([]byte(`{"rules":`), stages.Default())
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(validOverlay), 0o600))

	overlay, err := ruleconfig.Load(path, stages.Default())
	require.NoError(t, err)
	assert.Len(t, overlay, 2)

	_, err = ruleconfig.Load(filepath.Join(dir, "missing.json"), stages.Default())
	assert.Error(t, err)
}
