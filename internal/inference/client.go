// internal/inference/client.go

// Package inference sends a compiled prompt to an OpenAI-compatible chat
// completion endpoint and classifies the outcome.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"devscreen-workers/internal/common/config"
	"devscreen-workers/internal/common/logger"
	"devscreen-workers/internal/common/metrics"
	"devscreen-workers/internal/models"
)

// Config is the fixed request configuration. It is built once at start-up
// and never mutated.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration // 0 waits for the server indefinitely
}

// DefaultConfig mirrors the hosted endpoint the screening form was built for.
// The API key is intentionally left empty.
func DefaultConfig() Config {
	return Config{
		BaseURL:     config.DefaultInferenceBaseURL,
		Model:       config.DefaultInferenceModel,
		Temperature: 0.7,
		MaxTokens:   300,
		Timeout:     60 * time.Second,
	}
}

// ConfigFrom converts the loaded application config.
func ConfigFrom(c config.InferenceConfig) Config {
	return Config{
		BaseURL:     strings.TrimRight(c.BaseURL, "/"),
		APIKey:      c.APIKey,
		Model:       c.Model,
		Temperature: float32(c.Temperature),
		MaxTokens:   c.MaxTokens,
		Timeout:     c.TimeoutDuration(),
	}
}

// Inferer is satisfied by *Client; boundaries depend on it so tests can stub
// the endpoint.
type Inferer interface {
	Infer(ctx context.Context, prompt string, cfg Config) models.InferenceResult
}

// Client performs single-shot chat completions. It holds no per-request
// state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(httpClient *http.Client, log logger.Logger) *Client {
	if httpClient == nil {
		// Deadlines come from the request context only.
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.With(map[string]interface{}{"component": "inference"}),
	}
}

// Infer sends prompt as the only user message. It makes exactly one attempt
// and never returns an error: transport faults become a TransportError
// failure and a response without content becomes FallbackPrediction.
func (c *Client) Infer(ctx context.Context, prompt string, cfg Config) models.InferenceResult {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	oaCfg := openai.DefaultConfig(cfg.APIKey)
	oaCfg.BaseURL = cfg.BaseURL
	oaCfg.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(oaCfg)

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	elapsed := time.Since(start)
	metrics.InferenceDuration.Observe(elapsed.Seconds())

	if err != nil && isUnexpectedShape(err) {
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeFallback).Inc()
		c.logger.Warn("chat completion body has an unexpected shape", map[string]interface{}{
			"model":      cfg.Model,
			"durationMs": elapsed.Milliseconds(),
			"error":      err.Error(),
		})
		return models.Success(models.FallbackPrediction)
	}
	if err != nil {
		detail := describe(err)
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		c.logger.Warn("chat completion failed", map[string]interface{}{
			"model":      cfg.Model,
			"durationMs": elapsed.Milliseconds(),
			"error":      detail,
		})
		return models.Failure(models.ErrorKindTransport, detail)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeFallback).Inc()
		c.logger.Warn("chat completion returned no content", map[string]interface{}{
			"model":      cfg.Model,
			"durationMs": elapsed.Milliseconds(),
			"choices":    len(resp.Choices),
		})
		return models.Success(models.FallbackPrediction)
	}

	metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.logger.Info("chat completion succeeded", map[string]interface{}{
		"model":            cfg.Model,
		"durationMs":       elapsed.Milliseconds(),
		"promptTokens":     resp.Usage.PromptTokens,
		"completionTokens": resp.Usage.CompletionTokens,
	})
	return models.Success(resp.Choices[0].Message.Content)
}

// isUnexpectedShape reports a 2xx body that is valid JSON but does not fit
// the chat completion layout. Error responses arrive as APIError or
// RequestError and stay transport failures.
func isUnexpectedShape(err error) bool {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	if errors.As(err, &apiErr) || errors.As(err, &reqErr) {
		return false
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

// describe renders err for the user. Timeouts are named explicitly since the
// underlying message only says the context deadline passed.
func describe(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out: " + err.Error()
	}
	return err.Error()
}
