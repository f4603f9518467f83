package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
)

// Ensure ClaimStore implements the interface.
var _ driven.ClaimStore = (*ClaimStore)(nil)

// ClaimStore is an in-memory implementation of driven.ClaimStore.
type ClaimStore struct {
	mu     sync.RWMutex
	claims map[string]domain.Claim
}

// NewClaimStore creates a new in-memory claim store.
func NewClaimStore() *ClaimStore {
	return &ClaimStore{
		claims: make(map[string]domain.Claim),
	}
}

// SaveClaim stores a claim.
func (s *ClaimStore) SaveClaim(_ context.Context, claim *domain.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[claim.ID] = *claim
	return nil
}

// GetClaim retrieves a claim by ID.
func (s *ClaimStore) GetClaim(_ context.Context, id string) (*domain.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claim, ok := s.claims[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &claim, nil
}

// ListClaims returns claims for a document, newest first.
func (s *ClaimStore) ListClaims(_ context.Context, documentID string) ([]domain.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Claim
	for id := range s.claims {
		if s.claims[id].DocumentID == documentID {
			result = append(result, s.claims[id])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
