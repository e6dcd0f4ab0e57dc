// internal/screening/service.go

// Package screening is the boundary between callers (job worker, HTTP API,
// CLI) and the prompt/inference core.
package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"devscreen-workers/internal/common/logger"
	"devscreen-workers/internal/common/metrics"
	"devscreen-workers/internal/inference"
	"devscreen-workers/internal/models"
	"devscreen-workers/internal/prompt"
	"devscreen-workers/internal/taxonomy"
)

const (
	// NoSymptomsWarning is shown instead of a prediction when nothing is selected.
	NoSymptomsWarning = "Please select at least one symptom"

	Disclaimer = "*Note: This is a preliminary screening tool. Consult a healthcare professional for an official diagnosis.*"
)

var (
	ErrNoSymptoms       = errors.New("no symptoms selected")
	ErrUnknownSymptom   = errors.New("unknown symptom")
	ErrInvalidCriteria  = errors.New("invalid criteria")
	ErrInvalidSelection = errors.New("invalid selection")
)

// Prediction is the outcome of one accepted request.
type Prediction struct {
	RequestID string                 `json:"requestId"`
	Selection models.Selection       `json:"selection"`
	Prompt    string                 `json:"-"`
	Result    models.InferenceResult `json:"result"`
	Duration  time.Duration          `json:"-"`
}

// Text is what the user sees: the model's answer or "API Error: ...".
func (p *Prediction) Text() string {
	return p.Result.Render()
}

type Service struct {
	inferer inference.Inferer
	cfg     inference.Config
	logger  logger.Logger
}

func NewService(inferer inference.Inferer, cfg inference.Config, log logger.Logger) *Service {
	return &Service{
		inferer: inferer,
		cfg:     cfg,
		logger:  log.With(map[string]interface{}{"component": "screening"}),
	}
}

// Prepare checks sel and returns it in canonical form: symptoms deduplicated
// and ordered as in the taxonomy. An empty symptom list yields ErrNoSymptoms.
func Prepare(sel models.Selection) (models.Selection, error) {
	if len(sel.Symptoms) == 0 {
		return models.Selection{}, ErrNoSymptoms
	}

	known, unknown := taxonomy.Canonicalize(sel.Symptoms)
	if len(unknown) > 0 {
		return models.Selection{}, fmt.Errorf("%w: %s", ErrUnknownSymptom, strings.Join(unknown, ", "))
	}

	if err := ValidateCriteria(sel.Criteria); err != nil {
		return models.Selection{}, err
	}

	return models.Selection{Symptoms: known, Criteria: sel.Criteria}, nil
}

// ValidateCriteria enforces the numeric ranges of the two integer criteria.
func ValidateCriteria(c models.Criteria) error {
	if c.AgeOfOnsetMonths < models.MinAgeOfOnsetMonths || c.AgeOfOnsetMonths > models.MaxAgeOfOnsetMonths {
		return fmt.Errorf("%w: ageOfOnsetMonths must be between %d and %d, got %d",
			ErrInvalidCriteria, models.MinAgeOfOnsetMonths, models.MaxAgeOfOnsetMonths, c.AgeOfOnsetMonths)
	}
	if c.Severity < models.MinSeverity || c.Severity > models.MaxSeverity {
		return fmt.Errorf("%w: severity must be between %d and %d, got %d",
			ErrInvalidCriteria, models.MinSeverity, models.MaxSeverity, c.Severity)
	}
	return nil
}

// Preview compiles the prompt for sel without calling the model.
func Preview(sel models.Selection) (string, error) {
	canonical, err := Prepare(sel)
	if err != nil {
		return "", err
	}
	return prompt.Compile(canonical), nil
}

// Predict validates sel, compiles the prompt and runs one inference. An
// error is returned only for rejected selections; inference failures are
// reported through Prediction.Result.
func (s *Service) Predict(ctx context.Context, requestID string, sel models.Selection) (*Prediction, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := s.logger.With(map[string]interface{}{"requestId": requestID})

	canonical, err := Prepare(sel)
	if err != nil {
		reason := rejectionReason(err)
		metrics.SelectionsRejected.WithLabelValues(reason).Inc()
		log.Warn("selection rejected", map[string]interface{}{
			"reason": reason,
			"error":  err.Error(),
		})
		return nil, err
	}

	text := prompt.Compile(canonical)
	log.Debug("prompt compiled", map[string]interface{}{
		"symptomCount": len(canonical.Symptoms),
		"promptBytes":  len(text),
	})

	start := time.Now()
	result := s.inferer.Infer(ctx, text, s.cfg)
	elapsed := time.Since(start)

	fields := map[string]interface{}{
		"status":     string(result.Status),
		"durationMs": elapsed.Milliseconds(),
	}
	if !result.IsSuccess() {
		fields["errorKind"] = string(result.Kind)
	}
	log.Info("prediction completed", fields)

	return &Prediction{
		RequestID: requestID,
		Selection: canonical,
		Prompt:    text,
		Result:    result,
		Duration:  elapsed,
	}, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrNoSymptoms):
		return "no_symptoms"
	case errors.Is(err, ErrUnknownSymptom):
		return "unknown_symptom"
	case errors.Is(err, ErrInvalidCriteria):
		return "invalid_criteria"
	default:
		return "invalid_selection"
	}
}
