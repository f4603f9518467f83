package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
)

// Ensure AnalysisStore implements the interface.
var _ driven.AnalysisStore = (*AnalysisStore)(nil)

// AnalysisStore is an in-memory implementation of driven.AnalysisStore.
type AnalysisStore struct {
	mu       sync.RWMutex
	analyses map[string]domain.Analysis
}

// NewAnalysisStore creates a new in-memory analysis store.
func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{
		analyses: make(map[string]domain.Analysis),
	}
}

// SaveAnalysis stores an analysis.
func (s *AnalysisStore) SaveAnalysis(_ context.Context, analysis *domain.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[analysis.ID] = *analysis
	return nil
}

// GetAnalysis retrieves an analysis by ID.
func (s *AnalysisStore) GetAnalysis(_ context.Context, id string) (*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	analysis, ok := s.analyses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &analysis, nil
}

// ListAnalyses returns all analyses, newest first.
func (s *AnalysisStore) ListAnalyses(_ context.Context) ([]domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Analysis, 0, len(s.analyses))
	for id := range s.analyses {
		result = append(result, s.analyses[id])
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// RecentAnalyses returns the newest limit analyses.
func (s *AnalysisStore) RecentAnalyses(ctx context.Context, limit int) ([]domain.Analysis, error) {
	all, err := s.ListAnalyses(ctx)
	if err != nil {
		return nil, err
	}
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
