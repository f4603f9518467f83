package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driving"
	"github.com/claimsight/claimsight-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages policy document ingestion. Section extraction is
// a one-time single-writer operation: the document is stored as
// StatusProcessing, and the sections are published together with the
// StatusProcessed transition, so no analysis ever observes partial output.
type DocumentService struct {
	docStore  driven.DocumentStore
	extractor driven.SectionExtractor
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore, extractor driven.SectionExtractor) *DocumentService {
	return &DocumentService{
		docStore:  docStore,
		extractor: extractor,
	}
}

// Ingest stores the raw document and runs section extraction. On
// extraction failure the document is kept in StatusError and the wrapped
// error returned; the document is not retried automatically.
func (s *DocumentService) Ingest(ctx context.Context, name string, content []byte) (*domain.Document, error) {
	logger.Section("Document Ingestion")
	logger.Debug("Ingesting %q (%d bytes)", name, len(content))

	doc := &domain.Document{
		ID:         uuid.New().String(),
		Name:       name,
		URI:        name,
		SizeBytes:  int64(len(content)),
		Status:     domain.StatusProcessing,
		UploadedAt: time.Now(),
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	sections, err := s.extractor.Extract(ctx, name, content)
	if err != nil {
		doc.Status = domain.StatusError
		if saveErr := s.docStore.SaveDocument(ctx, doc); saveErr != nil {
			logger.Warn("Could not record extraction failure for %s: %v", doc.ID, saveErr)
		}
		return doc, fmt.Errorf("extract sections: %w", err)
	}

	now := time.Now()
	doc.Sections = sections
	doc.Status = domain.StatusProcessed
	doc.ProcessedAt = &now

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("publish document: %w", err)
	}

	logger.Info("Document %s processed: %d sections", doc.ID, len(sections))
	return doc, nil
}

// IngestFile reads path and ingests its contents.
func (s *DocumentService) IngestFile(ctx context.Context, path string) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := s.Ingest(ctx, filepath.Base(path), content)
	if doc != nil {
		doc.URI = path
		if saveErr := s.docStore.SaveDocument(ctx, doc); saveErr != nil && err == nil {
			err = fmt.Errorf("save document: %w", saveErr)
		}
	}
	return doc, err
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// List returns all documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	return s.docStore.DeleteDocument(ctx, documentID)
}
