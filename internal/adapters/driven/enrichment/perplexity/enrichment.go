// Package perplexity provides an enrichment service adapter using the
// Perplexity chat completions API.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.EnrichmentService = (*Service)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.perplexity.ai"
	DefaultModel   = "sonar"
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond throttles calls so batch fan-out stays
	// within the provider's connection budget.
	DefaultRequestsPerSecond = 2
	DefaultBurstSize         = 4
)

// Config holds configuration for the Perplexity enrichment service.
type Config struct {
	// APIKey is the Perplexity API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.perplexity.ai).
	BaseURL string

	// Model is the model to use (default: sonar).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests (default: 2).
	RequestsPerSecond float64

	// BurstSize is the rate limiter burst (default: 4).
	BurstSize int
}

// Service provides justification enrichment using Perplexity.
type Service struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

// chatRequest is the /chat/completions request format.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// chatMessage is the chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the /chat/completions response format.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// New creates a new Perplexity enrichment service.
func New(cfg Config) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.BurstSize == 0 {
		cfg.BurstSize = DefaultBurstSize
	}

	return &Service{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// EnrichJustification asks the model to rephrase the rule-based
// justification. Every failure mode maps to domain.ErrEnrichmentUnavailable
// so the caller falls back to the local wording.
func (s *Service) EnrichJustification(ctx context.Context, req driven.EnrichmentRequest) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %v", domain.ErrEnrichmentUnavailable, err)
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are an insurance assistant that explains coverage decisions clearly and briefly in human language.",
			},
			{Role: "user", Content: buildPrompt(req)},
		},
		Temperature: 0.1,
		Stream:      false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrEnrichmentUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", domain.ErrEnrichmentUnavailable, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEnrichmentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrEnrichmentUnavailable, resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrEnrichmentUnavailable, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrEnrichmentUnavailable)
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty content", domain.ErrEnrichmentUnavailable)
	}
	return content, nil
}

// ModelName returns the name of the model being used.
func (s *Service) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *Service) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// buildPrompt assembles the enrichment prompt: the decision is already
// made, the model is only asked for better wording.
func buildPrompt(req driven.EnrichmentRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert insurance claims analyst for Indian health insurance policies.\n")
	b.WriteString("A rule-based engine has already decided this claim. Rewrite the justification below\n")
	b.WriteString("so it is clear and professional. Do NOT change the decision or the amount.\n\n")

	fmt.Fprintf(&b, "CLAIM QUERY: %q\n", req.Query)
	fmt.Fprintf(&b, "PATIENT: age %d, gender %s\n", req.Intent.Age, req.Intent.Gender)
	if req.Intent.ClaimAmount != nil {
		fmt.Fprintf(&b, "CLAIMED AMOUNT: %.0f\n", *req.Intent.ClaimAmount)
	}
	fmt.Fprintf(&b, "\nDECISION: %s\nAPPROVED AMOUNT: %s\nJUSTIFICATION: %s\n",
		req.Decision.Verdict, req.Decision.ApprovedAmount, req.Decision.Justification)

	if len(req.Clauses) > 0 {
		b.WriteString("\nRELEVANT POLICY CLAUSES:\n")
		for _, clause := range req.Clauses {
			fmt.Fprintf(&b, "- %s (page %d): %s\n", clause.Section.Title, clause.Section.PageNumber, clause.Section.Text)
		}
	}

	b.WriteString("\nReturn ONLY the rewritten justification text, nothing else.")
	return b.String()
}
