// Package ollama provides an enrichment service adapter using a local
// Ollama instance.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.EnrichmentService = (*Service)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama enrichment service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Service provides justification enrichment using a local Ollama model.
type Service struct {
	client  *http.Client
	baseURL string
	model   string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// New creates a new Ollama enrichment service.
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

	return &Service{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// enrichPrompt asks the model only for better wording. The verdict and
// amount are already fixed by the rule engine.
const enrichPrompt = `You are an insurance claims assistant. A rule-based engine has already
decided this claim. Rewrite the justification below so it reads clearly
and professionally. Do NOT change the decision or the amount.

CLAIM QUERY: %q
DECISION: %s
APPROVED AMOUNT: %s
JUSTIFICATION: %s
%s
Return ONLY the rewritten justification text, nothing else.`

// EnrichJustification rephrases the rule-based justification using a
// local model. All failures map to domain.ErrEnrichmentUnavailable so
// the caller falls back to the local wording.
func (s *Service) EnrichJustification(ctx context.Context, req driven.EnrichmentRequest) (string, error) {
	var clauses strings.Builder
	if len(req.Clauses) > 0 {
		clauses.WriteString("\nRELEVANT POLICY CLAUSES:\n")
		for _, clause := range req.Clauses {
			fmt.Fprintf(&clauses, "- %s (page %d): %s\n", clause.Section.Title, clause.Section.PageNumber, clause.Section.Text)
		}
	}

	prompt := fmt.Sprintf(enrichPrompt,
		req.Query,
		req.Decision.Verdict,
		req.Decision.ApprovedAmount,
		req.Decision.Justification,
		clauses.String(),
	)

	reqBody := generateRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: false,
		Options: &options{
			NumPredict:  300,
			Temperature: 0.1,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrEnrichmentUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", domain.ErrEnrichmentUnavailable, err)
	}
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

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrEnrichmentUnavailable, err)
	}

	content := strings.TrimSpace(genResp.Response)
	if content == "" {
		return "", fmt.Errorf("%w: empty content", domain.ErrEnrichmentUnavailable)
	}
	return content, nil
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
func (s *Service) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: API returned status %d", resp.StatusCode)
	}
	return nil
}

// ModelName returns the name of the model being used.
func (s *Service) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *Service) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
