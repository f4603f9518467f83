package domain

import "time"

// Verdict is the engine's coverage decision for a claim.
type Verdict string

const (
	// VerdictYes indicates the claim is covered.
	VerdictYes Verdict = "Yes"

	// VerdictNo indicates the claim is not covered.
	VerdictNo Verdict = "No"

	// VerdictPartial indicates the claim is covered below the claimed amount.
	VerdictPartial Verdict = "Partial"
)

// AmountNotSpecified is reported when no approved amount can be computed.
const AmountNotSpecified = "Not specified"

// RankedClause pairs a policy section with its relevance score for a query.
type RankedClause struct {
	// Section is the matched policy section.
	Section Section

	// Score is the relevance score, higher is more relevant.
	Score float64
}

// Decision is the verdict for one (document, intent) pair. Decisions are
// never mutated; re-analysis produces a new Decision.
type Decision struct {
	// Verdict is Yes, No or Partial.
	Verdict Verdict

	// ApprovedAmount is a display string such as "₹50,000" or "Not specified".
	ApprovedAmount string

	// Justification explains which rule fired and which clauses were consulted.
	Justification string

	// RuleID names the policy rule that produced the verdict.
	RuleID string

	// Enriched is true when the justification wording came from the
	// external enrichment service rather than the local rule engine.
	Enriched bool
}

// Analysis is a persisted analysis record linking a claim to its decision
// and the clauses consulted.
type Analysis struct {
	ID        string
	ClaimID   string
	Decision  Decision
	Clauses   []RankedClause
	CreatedAt time.Time
}

// BatchResult is one entry of a batch analysis: either a Decision or an
// error message, never both. Entries are independent; one query's failure
// never poisons another's.
type BatchResult struct {
	// Index is the position of the query in the batch input.
	Index int

	// Query is the original query text.
	Query string

	// Decision is the successful outcome, nil on failure.
	Decision *Decision

	// Clauses are the ranked clauses behind the decision.
	Clauses []RankedClause

	// Err is the failure message, empty on success.
	Err string
}

// Stats aggregates analysis outcomes for display.
type Stats struct {
	TotalAnalyses int
	Approved      int
	Partial       int
	Rejected      int
	ApprovalRate  float64
	GeneratedAt   time.Time
}
