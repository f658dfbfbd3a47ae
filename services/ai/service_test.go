package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundryos/washstack/internal/config"
	"github.com/laundryos/washstack/internal/enum"
	washstack_errors "github.com/laundryos/washstack/internal/errors"
)

func completionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])

		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":"boom"}`))
			return
		}
		response := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
}

func classifierFor(serverURL string) *aiService {
	return &aiService{
		cfg: &config.OpenAIConfig{
			Url:            serverURL,
			ApiKey:         "test-key",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 5,
		},
		httpClient: http.DefaultClient,
	}
}

func TestClassifyTranscript(t *testing.T) {
	content := `{
		"category": "critical_incident",
		"severity": "critical",
		"requiresTechnician": true,
		"clientMood": "angry",
		"machineImpact": "single_machine",
		"summary": "Fuite d'eau importante sur le lave-linge 3",
		"recommendedActions": ["Couper l'arrivée d'eau", "Envoyer un technicien"],
		"estimatedRevenueLoss": 150
	}`
	server := completionServer(t, http.StatusOK, content)
	defer server.Close()

	classification, err := classifierFor(server.URL).ClassifyTranscript(context.Background(), "il y a de l'eau partout")
	require.NoError(t, err)

	assert.Equal(t, enum.CallCriticalIncident, classification.Category)
	assert.Equal(t, enum.SeverityCritical, classification.Severity)
	assert.True(t, classification.RequiresTechnician)
	assert.Equal(t, enum.MoodAngry, classification.ClientMood)
	assert.Equal(t, enum.ImpactSingleMachine, classification.MachineImpact)
	assert.Equal(t, "Fuite d'eau importante sur le lave-linge 3", classification.Summary)
	assert.Len(t, classification.RecommendedActions, 2)
	assert.InDelta(t, 150, classification.EstimatedRevenueLoss, 0.001)
}

func TestClassifyTranscriptMalformedContent(t *testing.T) {
	server := completionServer(t, http.StatusOK, "I think this is a critical incident")
	defer server.Close()

	_, err := classifierFor(server.URL).ClassifyTranscript(context.Background(), "panne machine")
	require.Error(t, err)
	assert.ErrorIs(t, err, washstack_errors.ErrClassificationShape)
}

func TestClassifyTranscriptInvalidEnum(t *testing.T) {
	content := `{
		"category": "weather_report",
		"severity": "critical",
		"requiresTechnician": false,
		"clientMood": "calm",
		"machineImpact": "single_machine",
		"summary": "n/a"
	}`
	server := completionServer(t, http.StatusOK, content)
	defer server.Close()

	_, err := classifierFor(server.URL).ClassifyTranscript(context.Background(), "panne machine")
	require.Error(t, err)
	assert.ErrorIs(t, err, washstack_errors.ErrClassificationShape)
}

func TestClassifyTranscriptUpstreamError(t *testing.T) {
	server := completionServer(t, http.StatusInternalServerError, "")
	defer server.Close()

	_, err := classifierFor(server.URL).ClassifyTranscript(context.Background(), "panne machine")
	assert.Error(t, err)
}

func TestClassifyTranscriptEmptyTranscript(t *testing.T) {
	_, err := classifierFor("http://localhost:1").ClassifyTranscript(context.Background(), "")
	assert.Error(t, err)
}
