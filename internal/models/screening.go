// internal/models/screening.go
package models

// TaxonomyEntry is one symptom category with its ordered symptom labels.
type TaxonomyEntry struct {
	Category string   `json:"category"`
	Symptoms []string `json:"symptoms"`
}

// CriterionSpec describes one fixed criterion as it appears in the prompt.
type CriterionSpec struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Kind  string `json:"kind"` // "integer" or "boolean"
	Min   int    `json:"min,omitempty"`
	Max   int    `json:"max,omitempty"`
}

const (
	CriterionKindInteger = "integer"
	CriterionKindBoolean = "boolean"
)

// Criteria limits enforced at the boundaries.
const (
	MinAgeOfOnsetMonths = 0
	MaxAgeOfOnsetMonths = 120
	MinSeverity         = 1
	MaxSeverity         = 10
	DefaultSeverity     = 5
)

// Criteria holds the five fixed screening criteria. Every field is always
// present, so a Criteria value can never be partial.
type Criteria struct {
	AgeOfOnsetMonths int  `json:"ageOfOnsetMonths"`
	FamilyHistory    bool `json:"familyHistory"`
	TraumaExposure   bool `json:"traumaExposure"`
	MilestoneDelays  bool `json:"milestoneDelays"`
	Severity         int  `json:"severity"`
}

// DefaultCriteria returns the values a fresh form starts with.
func DefaultCriteria() Criteria {
	return Criteria{Severity: DefaultSeverity}
}

// Selection is one user's request: symptom labels plus criteria.
type Selection struct {
	Symptoms []string `json:"symptoms"`
	Criteria Criteria `json:"criteria"`
}
