// internal/api/server.go

// Package api exposes the screening service over HTTP next to the health
// and metrics endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"devscreen-workers/internal/common/logger"
	"devscreen-workers/internal/models"
	"devscreen-workers/internal/prompt"
	"devscreen-workers/internal/screening"
	"devscreen-workers/internal/taxonomy"
)

const maxBodyBytes = 64 << 10

// Predictor is implemented by *screening.Service.
type Predictor interface {
	Predict(ctx context.Context, requestID string, sel models.Selection) (*screening.Prediction, error)
}

// ReadinessChecker is implemented by *camunda.Client.
type ReadinessChecker interface {
	HealthCheck(ctx context.Context) error
}

type Server struct {
	predictor Predictor
	ready     ReadinessChecker
	logger    logger.Logger
	mux       *http.ServeMux
}

// NewServer wires the routes. ready may be nil when no broker is configured.
func NewServer(predictor Predictor, ready ReadinessChecker, log logger.Logger) *Server {
	s := &Server{
		predictor: predictor,
		ready:     ready,
		logger:    log.With(map[string]interface{}{"component": "api"}),
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/taxonomy", s.handleTaxonomy)
	s.mux.HandleFunc("POST /api/prompt", s.handlePrompt)
	s.mux.HandleFunc("POST /api/predict", s.handlePredict)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ready", s.handleReady)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ==========================
// Request / response bodies
// ==========================

type selectionRequest struct {
	RequestID string           `json:"requestId"`
	Symptoms  []string         `json:"symptoms"`
	Criteria  *models.Criteria `json:"criteria"`
}

func (req selectionRequest) selection() models.Selection {
	criteria := models.DefaultCriteria()
	if req.Criteria != nil {
		criteria = *req.Criteria
	}
	return models.Selection{Symptoms: req.Symptoms, Criteria: criteria}
}

type taxonomyResponse struct {
	Categories []models.TaxonomyEntry `json:"categories"`
	Criteria   []models.CriterionSpec `json:"criteria"`
	Defaults   models.Criteria        `json:"defaults"`
}

type promptResponse struct {
	Symptoms []string               `json:"symptoms"`
	Groups   []models.TaxonomyEntry `json:"groups"`
	Prompt   string                 `json:"prompt"`
}

type predictResponse struct {
	RequestID   string   `json:"requestId"`
	Status      string   `json:"status"`
	Prediction  string   `json:"prediction"`
	ErrorKind   string   `json:"errorKind,omitempty"`
	ErrorDetail string   `json:"errorDetail,omitempty"`
	Symptoms    []string `json:"symptoms"`
	Disclaimer  string   `json:"disclaimer"`
}

type warningResponse struct {
	Warning string `json:"warning"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ==========================
// Handlers
// ==========================

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, taxonomyResponse{
		Categories: taxonomy.Categories(),
		Criteria:   taxonomy.Criteria(),
		Defaults:   models.DefaultCriteria(),
	})
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}

	sel, err := screening.Prepare(req.selection())
	if err != nil {
		s.writeSelectionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, promptResponse{
		Symptoms: sel.Symptoms,
		Groups:   taxonomy.ByCategory(sel.Symptoms),
		Prompt:   prompt.Compile(sel),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}

	pred, err := s.predictor.Predict(r.Context(), req.RequestID, req.selection())
	if err != nil {
		s.writeSelectionError(w, err)
		return
	}

	resp := predictResponse{
		RequestID:  pred.RequestID,
		Status:     string(pred.Result.Status),
		Prediction: pred.Text(),
		Symptoms:   pred.Selection.Symptoms,
		Disclaimer: screening.Disclaimer,
	}
	if !pred.Result.IsSuccess() {
		resp.ErrorKind = string(pred.Result.Kind)
		resp.ErrorDetail = pred.Result.Detail
	}
	// An upstream failure is still a completed request from the caller's view.
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready.HealthCheck(ctx); err != nil {
			s.logger.Warn("readiness check failed", map[string]interface{}{"error": err.Error()})
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"error":  err.Error(),
				"time":   time.Now().Format(time.RFC3339),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ==========================
// Helpers
// ==========================

func (s *Server) decodeSelection(w http.ResponseWriter, r *http.Request) (selectionRequest, bool) {
	defaults := models.DefaultCriteria()
	req := selectionRequest{Criteria: &defaults}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return selectionRequest{}, false
	}
	return req, true
}

func (s *Server) writeSelectionError(w http.ResponseWriter, err error) {
	if errors.Is(err, screening.ErrNoSymptoms) {
		writeJSON(w, http.StatusUnprocessableEntity, warningResponse{Warning: screening.NoSymptomsWarning})
		return
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
