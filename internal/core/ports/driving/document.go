package driving

import (
	"context"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
)

// DocumentService manages policy document ingestion and lifecycle.
type DocumentService interface {
	// Ingest stores raw document bytes, extracts sections and publishes the
	// document as StatusProcessed. Extraction failure leaves the document
	// in StatusError and returns the wrapped extraction error; the stored
	// record is kept so the failure is visible to callers.
	Ingest(ctx context.Context, name string, content []byte) (*domain.Document, error)

	// IngestFile reads path and ingests its contents.
	IngestFile(ctx context.Context, path string) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns all documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document.
	Delete(ctx context.Context, documentID string) error
}
