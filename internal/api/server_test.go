package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devscreen-workers/internal/common/logger"
	"devscreen-workers/internal/inference"
	"devscreen-workers/internal/models"
	"devscreen-workers/internal/screening"
)

type stubInferer struct {
	result models.InferenceResult
	calls  int
}

func (s *stubInferer) Infer(context.Context, string, inference.Config) models.InferenceResult {
	s.calls++
	return s.result
}

type stubReadiness struct{ err error }

func (s stubReadiness) HealthCheck(context.Context) error { return s.err }

func newTestServer(t *testing.T, result models.InferenceResult, ready ReadinessChecker) (*Server, *stubInferer) {
	t.Helper()
	stub := &stubInferer{result: result}
	log := logger.NewTestLogger(t)
	svc := screening.NewService(stub, inference.DefaultConfig(), log)
	return NewServer(svc, ready, log), stub
}

func do(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

const exampleBody = `{
	"symptoms": ["Delayed speech development", "Repetitive language"],
	"criteria": {"ageOfOnsetMonths": 24, "familyHistory": true, "traumaExposure": false, "milestoneDelays": true, "severity": 7}
}`

func TestTaxonomy(t *testing.T) {
	s, _ := newTestServer(t, models.Success("x"), nil)

	rec := do(t, s, http.MethodGet, "/api/taxonomy", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body taxonomyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Categories, 8)
	assert.Len(t, body.Criteria, 5)
	assert.Equal(t, 5, body.Defaults.Severity)
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     models.InferenceResult
		wantCode   int
		wantCalls  int
		assertBody func(t *testing.T, raw []byte)
	}{
		{
			name:      "success",
			body:      exampleBody,
			result:    models.Success("ASD likely, 80% confidence"),
			wantCode:  http.StatusOK,
			wantCalls: 1,
			assertBody: func(t *testing.T, raw []byte) {
				var resp predictResponse
				require.NoError(t, json.Unmarshal(raw, &resp))
				assert.Equal(t, "success", resp.Status)
				assert.Equal(t, "ASD likely, 80% confidence", resp.Prediction)
				assert.Equal(t, screening.Disclaimer, resp.Disclaimer)
				assert.NotEmpty(t, resp.RequestID)
			},
		},
		{
			name:      "transport failure still 200",
			body:      exampleBody,
			result:    models.Failure(models.ErrorKindTransport, "connection refused"),
			wantCode:  http.StatusOK,
			wantCalls: 1,
			assertBody: func(t *testing.T, raw []byte) {
				var resp predictResponse
				require.NoError(t, json.Unmarshal(raw, &resp))
				assert.Equal(t, "failure", resp.Status)
				assert.Equal(t, "TransportError", resp.ErrorKind)
				assert.Equal(t, "API Error: connection refused", resp.Prediction)
			},
		},
		{
			name:      "empty symptoms warns",
			body:      `{"symptoms": []}`,
			result:    models.Success("unused"),
			wantCode:  http.StatusUnprocessableEntity,
			wantCalls: 0,
			assertBody: func(t *testing.T, raw []byte) {
				assert.JSONEq(t, `{"warning":"Please select at least one symptom"}`, string(raw))
			},
		},
		{
			name:      "unknown symptom",
			body:      `{"symptoms": ["Hiccups"]}`,
			result:    models.Success("unused"),
			wantCode:  http.StatusBadRequest,
			wantCalls: 0,
		},
		{
			name:      "severity out of range",
			body:      `{"symptoms": ["Impulsivity"], "criteria": {"severity": 12}}`,
			result:    models.Success("unused"),
			wantCode:  http.StatusBadRequest,
			wantCalls: 0,
		},
		{
			name:      "malformed body",
			body:      `{"symptoms": [`,
			result:    models.Success("unused"),
			wantCode:  http.StatusBadRequest,
			wantCalls: 0,
		},
		{
			name:      "unknown field",
			body:      `{"symptoms": ["Impulsivity"], "diagnosis": "x"}`,
			result:    models.Success("unused"),
			wantCode:  http.StatusBadRequest,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, stub := newTestServer(t, tt.result, nil)

			rec := do(t, s, http.MethodPost, "/api/predict", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCalls, stub.calls)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.assertBody != nil {
				tt.assertBody(t, rec.Body.Bytes())
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	s, stub := newTestServer(t, models.Success("unused"), nil)

	rec := do(t, s, http.MethodPost, "/api/prompt",
		`{"symptoms": ["Repetitive language", "Delayed speech development"], "criteria": {"severity": 7}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp promptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Delayed speech development", "Repetitive language"}, resp.Symptoms)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, "Communication", resp.Groups[0].Category)
	assert.Equal(t, resp.Symptoms, resp.Groups[0].Symptoms)
	assert.Contains(t, resp.Prompt, "- Severity of symptoms (1-10 scale): 7\n")
	assert.Contains(t, resp.Prompt, "- Age of symptom onset (months): 0\n")
	assert.Equal(t, 0, stub.calls)
}

func TestHealthAndReady(t *testing.T) {
	s, _ := newTestServer(t, models.Success("x"), nil)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/ready", "").Code)

	s, _ = newTestServer(t, models.Success("x"), stubReadiness{err: errors.New("broker unavailable")})
	rec := do(t, s, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "broker unavailable")
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, models.Success("x"), nil)
	rec := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, models.Success("x"), nil)
	rec := do(t, s, http.MethodGet, "/api/predict", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
