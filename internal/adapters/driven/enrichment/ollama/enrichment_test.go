package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
)

func enrichmentRequest() driven.EnrichmentRequest {
	return driven.EnrichmentRequest{
		Query: "25F, dental treatment after accident",
		Decision: domain.Decision{
			Verdict:        domain.VerdictYes,
			ApprovedAmount: domain.AmountNotSpecified,
			Justification:  "accident-related expenses are covered",
			RuleID:         "inclusion:emergency",
		},
	}
}

func TestEnrichJustification_Success(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(generateResponse{Response: "  Reworded justification.\n", Done: true})
	}))
	defer server.Close()

	svc := New(Config{BaseURL: server.URL, Model: "llama3.2"})

	got, err := svc.EnrichJustification(context.Background(), enrichmentRequest())

	require.NoError(t, err)
	assert.Equal(t, "Reworded justification.", got)

	assert.Equal(t, "llama3.2", captured.Model)
	assert.False(t, captured.Stream)
	assert.Contains(t, captured.Prompt, "25F, dental treatment after accident")
	assert.Contains(t, captured.Prompt, "accident-related expenses are covered")
}

func TestEnrichJustification_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := New(Config{BaseURL: server.URL})

	_, err := svc.EnrichJustification(context.Background(), enrichmentRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
}

func TestEnrichJustification_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "   ", Done: true})
	}))
	defer server.Close()

	svc := New(Config{BaseURL: server.URL})

	_, err := svc.EnrichJustification(context.Background(), enrichmentRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
}

func TestEnrichJustification_Unreachable(t *testing.T) {
	svc := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})

	_, err := svc.EnrichJustification(context.Background(), enrichmentRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := New(Config{BaseURL: server.URL})

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestNew_Defaults(t *testing.T) {
	svc := New(Config{})

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.NoError(t, svc.Close())
}
