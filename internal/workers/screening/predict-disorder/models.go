// internal/workers/screening/predict-disorder/models.go
package predictdisorder

import "devscreen-workers/internal/models"

// Input is read from the job variables. Criteria keys that are absent keep
// their form defaults.
type Input struct {
	RequestID string           `json:"requestId"`
	Symptoms  []string         `json:"symptoms"`
	Criteria  *models.Criteria `json:"criteria"`
}

func newInput() Input {
	defaults := models.DefaultCriteria()
	return Input{Criteria: &defaults}
}

func (in Input) Selection() models.Selection {
	criteria := models.DefaultCriteria()
	if in.Criteria != nil {
		criteria = *in.Criteria
	}
	return models.Selection{Symptoms: in.Symptoms, Criteria: criteria}
}

const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusRejected = "rejected"
)

type Output struct {
	RequestID   string   `json:"requestId"`
	Status      string   `json:"status"`
	Prediction  string   `json:"prediction,omitempty"`
	ErrorKind   string   `json:"errorKind,omitempty"`
	ErrorDetail string   `json:"errorDetail,omitempty"`
	Warning     string   `json:"warning,omitempty"`
	Symptoms    []string `json:"symptoms,omitempty"`
	Disclaimer  string   `json:"disclaimer,omitempty"`
}
