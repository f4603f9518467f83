package cli

import (
	"context"

	"github.com/claimsight/claimsight-cli/internal/adapters/driven/config/file"
	"github.com/claimsight/claimsight-cli/internal/adapters/driven/storage/memory"
	"github.com/claimsight/claimsight-cli/internal/core/services"
	"github.com/claimsight/claimsight-cli/internal/extractor"
	"github.com/claimsight/claimsight-cli/internal/policy"
	"github.com/claimsight/claimsight-cli/internal/ranker"
)

const testPolicyText = `1. Surgical Benefits
Knee surgery and other operations are covered up to the sum insured.

2. Exclusions
Cosmetic procedures not related to accidents are excluded.

3. Ambulance Cover
Road ambulance charges up to rs 2,000 per hospitalisation are payable.
`

// setupTestServices wires the commands to in-memory services with one
// ingested policy document, and returns a cleanup plus the document ID.
func setupTestServices(configDir string) (cleanup func(), docID string) {
	docStore := memory.NewDocumentStore()
	claimStore := memory.NewClaimStore()
	analysisStore := memory.NewAnalysisStore()

	documentService = services.NewDocumentService(docStore, extractor.New())
	analysisService = services.NewAnalysisService(docStore, claimStore, analysisStore, ranker.New(), policy.New())

	if configDir != "" {
		if store, err := file.NewConfigStore(configDir); err == nil {
			configStore = store
		}
	}

	doc, err := documentService.Ingest(context.Background(), "policy.txt", []byte(testPolicyText))
	if err != nil {
		panic(err)
	}

	return func() {
		documentService = nil
		analysisService = nil
		configStore = nil
	}, doc.ID
}
