package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "devscreen-workers/internal/common/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf("inference:\n  base_url: %s\n  model: test-model\n  timeout: 2000\n", baseURL)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func chatServer(t *testing.T, status int, body string, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "test-model", req["model"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ==========================
// taxonomy / prompt
// ==========================

func TestTaxonomyCommand(t *testing.T) {
	out, err := run(t, "taxonomy")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Social Interaction:\n  - Limited eye contact\n"))
	assert.Contains(t, out, "Sleep:\n  - Difficulty falling/staying asleep\n")
	assert.Contains(t, out, "  - Severity of symptoms (1-10 scale) [1-10]\n")
	assert.Contains(t, out, "  - Family history of mental health or developmental disorders [yes/no]\n")
}

func TestPromptCommand(t *testing.T) {
	out, err := run(t, "prompt",
		"-s", "Repetitive language",
		"-s", "Sensory sensitivities (e.g., to noise, textures)",
		"--age", "24", "--family-history", "--severity", "7")
	require.NoError(t, err)

	assert.Contains(t, out, "Symptoms:\n- Repetitive language\n- Sensory sensitivities (e.g., to noise, textures)\n")
	assert.Contains(t, out, "- Age of symptom onset (months): 24\n")
	assert.Contains(t, out, "- Family history of mental health or developmental disorders: True\n")
	assert.Contains(t, out, "- Exposure to trauma or significant stress: False\n")
	assert.Contains(t, out, "- Severity of symptoms (1-10 scale): 7\n")
}

func TestPromptCommand_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode apperrors.ErrorCode
	}{
		{"no symptoms", []string{"prompt"}, apperrors.ErrCodeNoSymptomsSelected},
		{"unknown symptom", []string{"prompt", "-s", "Hiccups"}, apperrors.ErrCodeSelectionInvalid},
		{"severity out of range", []string{"prompt", "-s", "Impulsivity", "--severity", "11"}, apperrors.ErrCodeSelectionInvalid},
		{"age out of range", []string{"prompt", "-s", "Impulsivity", "--age", "121"}, apperrors.ErrCodeSelectionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.Normalize(err).Code)
		})
	}
}

func TestPromptCommand_EmptySelectionShowsWarning(t *testing.T) {
	_, err := run(t, "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please select at least one symptom")
}

// ==========================
// predict
// ==========================

func TestPredictCommand_Success(t *testing.T) {
	t.Setenv("INFERENCE_API_KEY", "test-key")
	hits := 0
	srv := chatServer(t, http.StatusOK,
		`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"ADHD: 70%"},"finish_reason":"stop"}]}`,
		&hits)

	out, err := run(t, "predict", "--config", writeConfig(t, srv.URL), "-s", "Impulsivity")
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
	assert.Contains(t, out, "Prediction:\nADHD: 70%\n")
	assert.Contains(t, out, "preliminary screening tool")
}

func TestPredictCommand_JSON(t *testing.T) {
	t.Setenv("INFERENCE_API_KEY", "test-key")
	hits := 0
	srv := chatServer(t, http.StatusOK, `{"choices":[]}`, &hits)

	out, err := run(t, "predict", "--config", writeConfig(t, srv.URL), "-s", "Impulsivity", "--json")
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "No prediction returned", body["prediction"])
	assert.Equal(t, []interface{}{"Impulsivity"}, body["symptoms"])
}

func TestPredictCommand_TransportFailure(t *testing.T) {
	t.Setenv("INFERENCE_API_KEY", "test-key")
	hits := 0
	srv := chatServer(t, http.StatusUnauthorized,
		`{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`,
		&hits)

	out, err := run(t, "predict", "--config", writeConfig(t, srv.URL), "-s", "Impulsivity")
	require.Error(t, err)

	assert.Equal(t, 1, hits)
	assert.Contains(t, out, "API Error: ")
	assert.Contains(t, out, "Invalid API Key")
	assert.Equal(t, apperrors.ErrCodeInferenceTransportError, apperrors.Normalize(err).Code)
}

func TestPredictCommand_EmptySelectionNeverCallsEndpoint(t *testing.T) {
	hits := 0
	srv := chatServer(t, http.StatusOK, `{}`, &hits)

	_, err := run(t, "predict", "--config", writeConfig(t, srv.URL))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please select at least one symptom")
	assert.Zero(t, hits)
}
