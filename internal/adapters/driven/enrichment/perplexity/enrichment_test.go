package perplexity

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
		Query: "46M, knee surgery",
		Intent: domain.ClaimIntent{
			Age:              46,
			Gender:           domain.GenderMale,
			Procedure:        "46M, knee surgery",
			ReimbursementPct: 100,
		},
		Decision: domain.Decision{
			Verdict:        domain.VerdictYes,
			ApprovedAmount: "₹50,000",
			Justification:  "covered under surgical benefits",
			RuleID:         "default:covered",
		},
		Clauses: []domain.RankedClause{
			{Section: domain.Section{Title: "Surgical Benefits", Text: "surgery covered", PageNumber: 3}, Score: 0.8},
		},
	}
}

func TestEnrichJustification_Success(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: "A clearer justification."}})
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := New(Config{APIKey: "test-key", BaseURL: server.URL})

	got, err := svc.EnrichJustification(context.Background(), enrichmentRequest())

	require.NoError(t, err)
	assert.Equal(t, "A clearer justification.", got)

	assert.Equal(t, DefaultModel, captured.Model)
	assert.False(t, captured.Stream)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, "46M, knee surgery")
	assert.Contains(t, captured.Messages[1].Content, "Surgical Benefits")
}

func TestEnrichJustification_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := New(Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := svc.EnrichJustification(context.Background(), enrichmentRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
}

func TestEnrichJustification_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	svc := New(Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := svc.EnrichJustification(context.Background(), enrichmentRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
}

func TestEnrichJustification_Unreachable(t *testing.T) {
	svc := New(Config{
		APIKey:  "test-key",
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	})

	_, err := svc.EnrichJustification(context.Background(), enrichmentRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
}

func TestEnrichJustification_CancelledContext(t *testing.T) {
	svc := New(Config{APIKey: "test-key"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.EnrichJustification(ctx, enrichmentRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
}

func TestNew_Defaults(t *testing.T) {
	svc := New(Config{APIKey: "k"})

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.NoError(t, svc.Close())
}
