// internal/workers/screening/predict-disorder/handler.go
package predictdisorder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "devscreen-workers/internal/common/errors"
	"devscreen-workers/internal/common/metrics"
	"devscreen-workers/internal/common/observability"
	"devscreen-workers/internal/common/validation"
	"devscreen-workers/internal/models"
	"devscreen-workers/internal/screening"
)

const (
	TaskType = "predict-disorder"
)

// FetchVariables limits activated jobs to the variables this worker reads.
var FetchVariables = []string{"requestId", "symptoms", "criteria"}

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Predictor is implemented by *screening.Service.
type Predictor interface {
	Predict(ctx context.Context, requestID string, sel models.Selection) (*screening.Prediction, error)
}

type Handler struct {
	config     *Config
	predictor  Predictor
	schema     *validation.Schema
	obs        *observability.Observability
	errHandler *apperrors.ErrorHandler
	logger     Logger
}

func NewHandler(config *Config, predictor Predictor, obs *observability.Observability, log Logger) (*Handler, error) {
	schema, err := compileInputSchema()
	if err != nil {
		return nil, err
	}
	l := log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		predictor:  predictor,
		schema:     schema,
		obs:        obs,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput([]byte(job.Variables))
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

// parseInput validates the raw variables against the input schema and
// decodes them on top of the criteria defaults.
func (h *Handler) parseInput(raw []byte) (*Input, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	result, err := h.schema.ValidateJSON(raw)
	if err != nil {
		return nil, apperrors.NewSelectionInvalidError(fmt.Sprintf("parse input: %v", err))
	}
	if !result.Valid {
		return nil, apperrors.NewSelectionInvalidError(result.Summary())
	}

	input := newInput()
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, apperrors.NewSelectionInvalidError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	pred, err := h.predictor.Predict(ctx, input.RequestID, input.Selection())
	if errors.Is(err, screening.ErrNoSymptoms) {
		h.logger.Warn("no symptoms selected", map[string]interface{}{
			"requestId": input.RequestID,
		})
		return &Output{
			RequestID: input.RequestID,
			Status:    StatusRejected,
			Warning:   screening.NoSymptomsWarning,
		}, nil
	}
	if err != nil {
		stdErr := apperrors.NewSelectionInvalidError(err.Error())
		stdErr.Metadata = map[string]interface{}{"requestId": input.RequestID}
		return nil, fmt.Errorf("%w: %w", screening.ErrInvalidSelection, stdErr)
	}

	output := &Output{
		RequestID:  pred.RequestID,
		Prediction: pred.Text(),
		Symptoms:   pred.Selection.Symptoms,
		Disclaimer: screening.Disclaimer,
	}
	if pred.Result.IsSuccess() {
		output.Status = StatusSuccess
	} else {
		output.Status = StatusFailure
		output.ErrorKind = string(pred.Result.Kind)
		output.ErrorDetail = pred.Result.Detail
	}
	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	// The job context may be nearly spent after inference.
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, output.Status)
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), output.Status)

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":    job.Key,
		"requestId": output.RequestID,
		"status":    output.Status,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "error")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "error")

	h.errHandler.HandleJobError(context.Background(), client, job, stdErr)
}

// Execute runs the job logic without a Zeebe client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
