package driving

import (
	"context"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
)

// AnalysisService evaluates claim queries against a processed policy document.
type AnalysisService interface {
	// Analyze runs the full pipeline (interpret, rank, decide, enrich) for
	// one query. The document must be in StatusProcessed, otherwise
	// domain.ErrDocumentNotReady is returned.
	Analyze(ctx context.Context, documentID, query string) (*AnalysisResult, error)

	// AnalyzeBatch runs Analyze for each query concurrently and returns one
	// BatchResult per query in input order. Per-query failures are reported
	// in the entry, never as an error from the batch call itself.
	AnalyzeBatch(ctx context.Context, documentID string, queries []string) ([]domain.BatchResult, error)

	// Stats aggregates stored analysis outcomes.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Recent returns the newest limit analyses.
	Recent(ctx context.Context, limit int) ([]domain.Analysis, error)
}

// AnalysisResult is the outcome of a single-query analysis.
type AnalysisResult struct {
	// AnalysisID identifies the persisted analysis record.
	AnalysisID string

	// ClaimID identifies the persisted claim record.
	ClaimID string

	// Query is the original query text.
	Query string

	// Intent is the parsed claim intent.
	Intent domain.ClaimIntent

	// Decision is the verdict with amount and justification.
	Decision domain.Decision

	// Clauses are the ranked clauses consulted, best first.
	Clauses []domain.RankedClause
}
