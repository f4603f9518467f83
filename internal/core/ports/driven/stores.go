package driven

import (
	"context"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
)

// DocumentStore persists policy documents and their extracted sections.
// The engine only ever reads documents through this port; lifecycle writes
// happen in the document service before any analysis starts.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document.
	DeleteDocument(ctx context.Context, id string) error
}

// ClaimStore persists one claim record per analysed query.
type ClaimStore interface {
	// SaveClaim stores a claim.
	SaveClaim(ctx context.Context, claim *domain.Claim) error

	// GetClaim retrieves a claim by ID.
	GetClaim(ctx context.Context, id string) (*domain.Claim, error)

	// ListClaims returns claims for a document, newest first.
	ListClaims(ctx context.Context, documentID string) ([]domain.Claim, error)
}

// AnalysisStore persists analysis results for history and statistics.
type AnalysisStore interface {
	// SaveAnalysis stores an analysis.
	SaveAnalysis(ctx context.Context, analysis *domain.Analysis) error

	// GetAnalysis retrieves an analysis by ID.
	GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error)

	// ListAnalyses returns all analyses, newest first.
	ListAnalyses(ctx context.Context) ([]domain.Analysis, error)

	// RecentAnalyses returns the newest limit analyses.
	RecentAnalyses(ctx context.Context, limit int) ([]domain.Analysis, error)
}
