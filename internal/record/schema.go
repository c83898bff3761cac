package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/marketsense/jobbrief/internal/common"
)

// BuildJobPostingSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Every field is optional: an all-absent posting is a valid
// extraction outcome. Used locally to validate normalized records before
// they leave the pipeline.
func BuildJobPostingSchema() map[string]any {
	shortList := map[string]any{"type": "string", "maxLength": 600}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"company":              map[string]any{"type": "string", "minLength": 1},
			"role":                 map[string]any{"type": "string", "minLength": 1},
			"location":             map[string]any{"type": "string"},
			"seniority":            map[string]any{"type": "string"},
			"posted_recency":       map[string]any{"type": "string"},
			"posted_days":          map[string]any{"type": "integer", "minimum": 0},
			"salary_low":           map[string]any{"type": "integer", "minimum": 0},
			"salary_high":          map[string]any{"type": "integer", "minimum": 0},
			"mission":              map[string]any{"type": "string"},
			"funding":              map[string]any{"type": "string"},
			"must_have":            shortList,
			"nice_to_have":         shortList,
			"tech_questions":       shortList,
			"behavioral_questions": shortList,
			"perks":                shortList,
			"provenance": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
		},
	}
}

// ValidateAgainstSchema validates data against schemaMap.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: json does not match schema: %v", common.ErrValidation, err)
	}
	return nil
}

// Validate marshals the posting and checks it against the fixed schema.
func Validate(p JobPosting) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal posting: %w", err)
	}
	return ValidateAgainstSchema(BuildJobPostingSchema(), b)
}
