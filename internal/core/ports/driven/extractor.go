package driven

import (
	"context"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
)

// SectionExtractor turns raw policy document bytes into ordered sections.
// It is a pure function of the document content: it never inspects query
// text and has no side effects. Unparseable content fails with
// domain.ErrExtraction (wrapped); non-junk text is never dropped silently.
type SectionExtractor interface {
	// Extract parses raw bytes into sections with page provenance.
	// Name is the original file name, used to pick the source format.
	Extract(ctx context.Context, name string, content []byte) ([]domain.Section, error)
}
