// internal/reconcile/schema.go
package reconcile

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// groundTruthSchema describes the shape a ground-truth profile must have
// before it can be indexed. The form fields themselves are an open set;
// only the identifying keys are load-bearing.
var groundTruthSchema = map[string]any{
	"type":     "object",
	"required": []any{"patient_id", "sample_type"},
	"properties": map[string]any{
		"patient_id":  map[string]any{"type": "string", "minLength": 1},
		"sample_type": map[string]any{"type": "string", "minLength": 1},
	},
}

// submissionSchema describes an agent submission file. The payload mirrors
// form field names and stays open.
var submissionSchema = map[string]any{
	"type":     "object",
	"required": []any{"task_id", "llm", "sample_type", "payload"},
	"properties": map[string]any{
		"task_id":     map[string]any{"type": "string"},
		"patient_id":  map[string]any{"type": "string"},
		"llm":         map[string]any{"type": "string"},
		"sample_type": map[string]any{"type": "string"},
		"submitted":   map[string]any{"type": "boolean"},
		"payload":     map[string]any{"type": "object"},
	},
}

// ValidateGroundTruth checks one ground-truth JSON document against the
// schema and returns a descriptive error when it does not conform.
func ValidateGroundTruth(doc []byte) error {
	return validate(groundTruthSchema, doc, "ground truth")
}

// ValidateSubmission checks one submission JSON document against the schema.
func ValidateSubmission(doc []byte) error {
	return validate(submissionSchema, doc, "submission")
}

func validate(schema map[string]any, doc []byte, what string) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%s schema validation error: %w", what, err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%s validation failed: %s", what, strings.Join(errs, ", "))
}
