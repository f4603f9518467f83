package driven

import (
	"context"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
)

// EnrichmentService rewrites decision justifications using an external
// text-generation service. This is an optional collaborator: when nil or
// failing, the engine keeps its locally generated justification. The service
// must never change the verdict, only its wording.
//
// Implementations may include:
//   - Perplexity (hosted, the "sonar" model)
//   - Ollama (local models)
type EnrichmentService interface {
	// EnrichJustification produces improved justification wording for a
	// rule-based decision given the query and the consulted clauses.
	// Any transport error, timeout or unusable response is reported as
	// domain.ErrEnrichmentUnavailable (wrapped).
	EnrichJustification(ctx context.Context, req EnrichmentRequest) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// EnrichmentRequest carries everything the service needs to phrase a
// justification without re-deciding the claim.
type EnrichmentRequest struct {
	// Query is the original claim query text.
	Query string

	// Intent is the parsed claim intent.
	Intent domain.ClaimIntent

	// Decision is the rule-based decision whose wording may be improved.
	Decision domain.Decision

	// Clauses are the ranked clauses the decision consulted.
	Clauses []domain.RankedClause
}
