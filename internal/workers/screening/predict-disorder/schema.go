// internal/workers/screening/predict-disorder/schema.go
package predictdisorder

import (
	"devscreen-workers/internal/common/validation"
	"devscreen-workers/internal/models"
	"devscreen-workers/internal/taxonomy"
)

// inputSchema describes the job variables. Symptoms may be empty: that case
// completes the job with a warning instead of raising an incident.
func inputSchema() map[string]interface{} {
	symptoms := taxonomy.Symptoms()
	enum := make([]interface{}, len(symptoms))
	for i, s := range symptoms {
		enum[i] = s
	}

	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"requestId": map[string]interface{}{"type": "string"},
			"symptoms": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string", "enum": enum},
			},
			"criteria": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"ageOfOnsetMonths": map[string]interface{}{
						"type":    "integer",
						"minimum": models.MinAgeOfOnsetMonths,
						"maximum": models.MaxAgeOfOnsetMonths,
					},
					"familyHistory":   map[string]interface{}{"type": "boolean"},
					"traumaExposure":  map[string]interface{}{"type": "boolean"},
					"milestoneDelays": map[string]interface{}{"type": "boolean"},
					"severity": map[string]interface{}{
						"type":    "integer",
						"minimum": models.MinSeverity,
						"maximum": models.MaxSeverity,
					},
				},
				"additionalProperties": false,
			},
		},
	}
}

func compileInputSchema() (*validation.Schema, error) {
	return validation.Compile(inputSchema())
}
