// internal/models/inference.go
package models

// InferenceStatus tags an InferenceResult.
type InferenceStatus string

const (
	InferenceSuccess InferenceStatus = "success"
	InferenceFailure InferenceStatus = "failure"
)

// ErrorKind classifies an inference failure.
type ErrorKind string

const (
	ErrorKindTransport ErrorKind = "TransportError"
	// ErrorKindMalformedResponse is never produced today: a parseable body
	// without content yields FallbackPrediction instead.
	ErrorKindMalformedResponse ErrorKind = "MalformedResponse"
)

// FallbackPrediction is returned when the model answers without content.
const FallbackPrediction = "No prediction returned"

// InferenceResult is either Success{Text} or Failure{Kind, Detail}.
type InferenceResult struct {
	Status InferenceStatus `json:"status"`
	Text   string          `json:"text,omitempty"`
	Kind   ErrorKind       `json:"errorKind,omitempty"`
	Detail string          `json:"errorDetail,omitempty"`
}

func Success(text string) InferenceResult {
	return InferenceResult{Status: InferenceSuccess, Text: text}
}

func Failure(kind ErrorKind, detail string) InferenceResult {
	return InferenceResult{Status: InferenceFailure, Kind: kind, Detail: detail}
}

func (r InferenceResult) IsSuccess() bool {
	return r.Status == InferenceSuccess
}

// Render is the text shown to the user: the prediction, or an
// "API Error: ..." line for failures.
func (r InferenceResult) Render() string {
	if r.IsSuccess() {
		return r.Text
	}
	return "API Error: " + r.Detail
}
