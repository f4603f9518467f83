package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driving"
	"github.com/claimsight/claimsight-cli/internal/interpreter"
	"github.com/claimsight/claimsight-cli/internal/logger"
	"github.com/claimsight/claimsight-cli/internal/policy"
	"github.com/claimsight/claimsight-cli/internal/ranker"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// DefaultBatchConcurrency caps parallel per-query pipelines in a batch.
// The cap keeps the enrichment service's connection budget in check; the
// pipeline itself is stateless and would parallelise freely.
const DefaultBatchConcurrency = 4

// AnalysisService runs the claim analysis pipeline: interpret the query,
// rank the document's sections against it, apply the policy rule set and
// optionally enrich the justification. Per-query work shares nothing but
// the read-only processed document.
type AnalysisService struct {
	docStore      driven.DocumentStore
	claimStore    driven.ClaimStore
	analysisStore driven.AnalysisStore
	ranker        *ranker.Ranker
	engine        *policy.Engine
	concurrency   int
}

// NewAnalysisService creates a new analysis service. The claimStore and
// analysisStore are optional (can be nil); without them results are
// returned but not persisted.
func NewAnalysisService(
	docStore driven.DocumentStore,
	claimStore driven.ClaimStore,
	analysisStore driven.AnalysisStore,
	rk *ranker.Ranker,
	engine *policy.Engine,
) *AnalysisService {
	return &AnalysisService{
		docStore:      docStore,
		claimStore:    claimStore,
		analysisStore: analysisStore,
		ranker:        rk,
		engine:        engine,
		concurrency:   DefaultBatchConcurrency,
	}
}

// SetBatchConcurrency overrides the batch fan-out cap.
func (s *AnalysisService) SetBatchConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

// Analyze runs the pipeline for one query against a processed document.
func (s *AnalysisService) Analyze(ctx context.Context, documentID, query string) (*driving.AnalysisResult, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if !doc.Ready() {
		return nil, fmt.Errorf("%w: document %s is %s", domain.ErrDocumentNotReady, doc.ID, doc.Status)
	}

	return s.analyze(ctx, doc, query)
}

// analyze runs the per-query pipeline against an already validated
// document. It only reads doc.Sections, so concurrent calls are safe.
func (s *AnalysisService) analyze(ctx context.Context, doc *domain.Document, query string) (*driving.AnalysisResult, error) {
	logger.Section("Claim Analysis")
	logger.Debug("Query: %q", query)

	intent := interpreter.Interpret(query)
	logger.Debug("Intent: age=%d gender=%s amount=%v", intent.Age, intent.Gender, intent.ClaimAmount)

	clauses := s.ranker.Rank(intent, doc.Sections)
	logger.Debug("Ranked clauses: %d", len(clauses))

	decision, err := s.engine.Decide(ctx, &intent, clauses)
	if err != nil {
		return nil, fmt.Errorf("policy evaluation: %w", err)
	}
	logger.Info("Decision: %s (%s)", decision.Verdict, decision.ApprovedAmount)

	result := &driving.AnalysisResult{
		Query:    query,
		Intent:   intent,
		Decision: *decision,
		Clauses:  clauses,
	}

	if err := s.persist(ctx, doc.ID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// persist records the claim and analysis when stores are configured.
func (s *AnalysisService) persist(ctx context.Context, documentID string, result *driving.AnalysisResult) error {
	if s.claimStore != nil {
		claim := &domain.Claim{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Intent:     result.Intent,
			CreatedAt:  time.Now(),
		}
		if err := s.claimStore.SaveClaim(ctx, claim); err != nil {
			return fmt.Errorf("save claim: %w", err)
		}
		result.ClaimID = claim.ID
	}

	if s.analysisStore != nil {
		analysis := &domain.Analysis{
			ID:        uuid.New().String(),
			ClaimID:   result.ClaimID,
			Decision:  result.Decision,
			Clauses:   result.Clauses,
			CreatedAt: time.Now(),
		}
		if err := s.analysisStore.SaveAnalysis(ctx, analysis); err != nil {
			return fmt.Errorf("save analysis: %w", err)
		}
		result.AnalysisID = analysis.ID
	}

	return nil
}

// AnalyzeBatch fans the pipeline out over the queries, bounded by the
// concurrency cap, and joins all of them before returning. Results come
// back in input order, each entry independently tagged success or failure.
// The only error the batch call itself returns is for a document that is
// missing or not processed.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, documentID string, queries []string) ([]domain.BatchResult, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if !doc.Ready() {
		return nil, fmt.Errorf("%w: document %s is %s", domain.ErrDocumentNotReady, doc.ID, doc.Status)
	}

	logger.Section("Batch Analysis")
	logger.Info("Analysing %d queries against document %s (concurrency %d)", len(queries), doc.ID, s.concurrency)

	results := make([]domain.BatchResult, len(queries))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = s.runBatchEntry(ctx, doc, i, query)
		}(i, query)
	}
	wg.Wait()

	return results, nil
}

// runBatchEntry executes one batch query and converts any failure,
// including a panic in the pipeline, into an error entry so sibling
// queries are unaffected.
func (s *AnalysisService) runBatchEntry(ctx context.Context, doc *domain.Document, index int, query string) (entry domain.BatchResult) {
	entry = domain.BatchResult{Index: index, Query: query}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Query %d panicked: %v", index, r)
			entry.Decision = nil
			entry.Clauses = nil
			entry.Err = fmt.Sprintf("internal error: %v", r)
		}
	}()

	result, err := s.analyze(ctx, doc, query)
	if err != nil {
		entry.Err = err.Error()
		return entry
	}

	entry.Decision = &result.Decision
	entry.Clauses = result.Clauses
	return entry
}

// Stats aggregates stored analysis outcomes, mirroring what the decisions
// table would show: approvals, partials, rejections and the approval rate.
func (s *AnalysisService) Stats(ctx context.Context) (*domain.Stats, error) {
	if s.analysisStore == nil {
		return nil, fmt.Errorf("stats: %w", domain.ErrInvalidInput)
	}

	analyses, err := s.analysisStore.ListAnalyses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	stats := &domain.Stats{
		TotalAnalyses: len(analyses),
		GeneratedAt:   time.Now(),
	}
	for _, a := range analyses {
		switch a.Decision.Verdict {
		case domain.VerdictYes:
			stats.Approved++
		case domain.VerdictPartial:
			stats.Partial++
		case domain.VerdictNo:
			stats.Rejected++
		}
	}
	if stats.TotalAnalyses > 0 {
		rate := float64(stats.Approved+stats.Partial) / float64(stats.TotalAnalyses) * 100
		// One decimal place, matching the dashboard display.
		stats.ApprovalRate = float64(int(rate*10+0.5)) / 10
	}
	return stats, nil
}

// Recent returns the newest limit analyses.
func (s *AnalysisService) Recent(ctx context.Context, limit int) ([]domain.Analysis, error) {
	if s.analysisStore == nil {
		return nil, fmt.Errorf("recent: %w", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}
	return s.analysisStore.RecentAnalyses(ctx, limit)
}
