// Package ruleconfig loads organization-specific automation rule overlays
// from JSON documents. Overlay rules extend the built-in per-stage rules;
// documents are schema-validated before they are accepted.
package ruleconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopmate/shopmate/pkg/stages"
	"github.com/xeipuuv/gojsonschema"
)

const overlaySchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"rules": {
			"type": "object",
			"additionalProperties": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "condition", "action"],
					"properties": {
						"id": {"type": "string", "minLength": 1},
						"condition": {"type": "string", "minLength": 1},
						"action": {"type": "string", "minLength": 1},
						"enabled": {"type": "boolean"},
						"priority": {"type": "integer"}
					}
				}
			}
		}
	},
	"required": ["rules"]
}`

type document struct {
	Rules map[string][]stages.AutomationRule `json:"rules"`
}

// Overlay holds extra automation rules per stage.
type Overlay map[stages.ID][]stages.AutomationRule

// Load reads and validates an overlay document from disk. Stage keys must
// exist in the given directory.
func Load(path string, directory *stages.Directory) (Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule overlay %s: %w", path, err)
	}

	return Parse(data, directory)
}

// Parse validates the document against the overlay schema and resolves the
// stage keys.
func Parse(data []byte, directory *stages.Directory) (Overlay, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode rule overlay: %w", err)
	}

	overlay := make(Overlay, len(doc.Rules))

	for key, rules := range doc.Rules {
		stageID := stages.ID(key)
		if _, ok := directory.Get(stageID); !ok {
			return nil, fmt.Errorf("rule overlay references unknown stage %q", key)
		}

		overlay[stageID] = rules
	}

	return overlay, nil
}

func validateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(overlaySchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate rule overlay: %w", err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}

		return fmt.Errorf("rule overlay schema validation failed: %s", strings.Join(messages, "; "))
	}

	return nil
}
