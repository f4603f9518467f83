// Package policy applies coverage rules to a claim intent and its ranked
// clauses to produce a decision. The rule set is evaluated in priority
// order: exclusions, inclusions, then a default heuristic built on
// clause-derived amount caps and waiting periods. Ambiguous text never
// fails; it falls through to the default branch.
package policy

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
	"github.com/claimsight/claimsight-cli/internal/logger"
)

// DefaultEnrichmentTimeout bounds the optional enrichment call; on expiry
// the rule-based justification stands.
const DefaultEnrichmentTimeout = 20 * time.Second

// Engine produces decisions from intents and ranked clauses.
type Engine struct {
	enricher          driven.EnrichmentService
	enrichmentTimeout time.Duration
}

// Option configures the engine.
type Option func(*Engine)

// WithEnricher attaches an optional enrichment service. The service only
// refines justification wording; it never changes the verdict.
func WithEnricher(e driven.EnrichmentService) Option {
	return func(eng *Engine) {
		eng.enricher = e
	}
}

// WithEnrichmentTimeout overrides the enrichment call timeout.
func WithEnrichmentTimeout(d time.Duration) Option {
	return func(eng *Engine) {
		if d > 0 {
			eng.enrichmentTimeout = d
		}
	}
}

// New creates a policy engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{enrichmentTimeout: DefaultEnrichmentTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide evaluates the rule set for one claim. It fails only on a missing
// intent (domain.ErrPolicyEvaluation); everything else resolves to a
// decision. The returned decision is never mutated afterwards.
func (e *Engine) Decide(
	ctx context.Context, intent *domain.ClaimIntent, clauses []domain.RankedClause,
) (*domain.Decision, error) {
	if intent == nil {
		return nil, fmt.Errorf("%w: missing claim intent", domain.ErrPolicyEvaluation)
	}

	decision := e.evaluate(intent, clauses)
	logger.Debug("Rule %s fired: verdict=%s amount=%s", decision.RuleID, decision.Verdict, decision.ApprovedAmount)

	e.enrich(ctx, intent, &decision, clauses)

	return &decision, nil
}

// evaluate runs the prioritised rule set. First match wins.
func (e *Engine) evaluate(intent *domain.ClaimIntent, clauses []domain.RankedClause) domain.Decision {
	query := strings.ToLower(intent.Procedure)
	limit := clauseCap(clauses)

	// 1. Exclusions, unless overridden by an inclusion keyword.
	for _, rule := range exclusionRules {
		if matchesAny(query, rule.Keywords) && !matchesAny(query, rule.Overrides) {
			return domain.Decision{
				Verdict:        domain.VerdictNo,
				ApprovedAmount: "Not covered",
				Justification:  justify(rule.Reason, clauses),
				RuleID:         rule.ID,
			}
		}
	}

	// 2. Inclusion-priority keywords.
	for _, rule := range inclusionRules {
		if matchesAny(query, rule.Keywords) {
			return domain.Decision{
				Verdict:        domain.VerdictYes,
				ApprovedAmount: approvedAmount(intent, limit),
				Justification:  justify(rule.Reason, clauses),
				RuleID:         rule.ID,
			}
		}
	}

	// 3. Default heuristic: waiting period, then amount cap.
	if months, ok := clauseWaitingMonths(clauses); ok && intent.PolicyMonths != nil && *intent.PolicyMonths < months {
		reason := fmt.Sprintf(
			"the policy has been held for %d months but the matched clause requires a waiting period of %d months; only partial coverage applies",
			*intent.PolicyMonths, months)
		return domain.Decision{
			Verdict:        domain.VerdictPartial,
			ApprovedAmount: approvedAmount(intent, limit),
			Justification:  justify(reason, clauses),
			RuleID:         "default:waiting-period",
		}
	}

	if intent.ClaimAmount != nil && limit > 0 && *intent.ClaimAmount > limit {
		reason := fmt.Sprintf(
			"the claimed amount %s exceeds the clause-derived limit %s; coverage is capped at the limit",
			FormatINR(*intent.ClaimAmount), FormatINR(limit))
		return domain.Decision{
			Verdict:        domain.VerdictPartial,
			ApprovedAmount: FormatINR(limit),
			Justification:  justify(reason, clauses),
			RuleID:         "default:over-cap",
		}
	}

	return domain.Decision{
		Verdict:        domain.VerdictYes,
		ApprovedAmount: approvedAmount(intent, limit),
		Justification:  justify("the requested treatment falls under the covered benefits of the matched clauses", clauses),
		RuleID:         "default:covered",
	}
}

// enrich asks the optional external service for better justification
// wording. Failures of any kind leave the rule-based decision untouched;
// enrichment is never a hard dependency.
func (e *Engine) enrich(
	ctx context.Context, intent *domain.ClaimIntent, decision *domain.Decision, clauses []domain.RankedClause,
) {
	if e.enricher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, e.enrichmentTimeout)
	defer cancel()

	refined, err := e.enricher.EnrichJustification(ctx, driven.EnrichmentRequest{
		Query:    intent.Procedure,
		Intent:   *intent,
		Decision: *decision,
		Clauses:  clauses,
	})
	if err != nil {
		logger.Warn("Enrichment unavailable, keeping local justification: %v", err)
		return
	}
	if strings.TrimSpace(refined) == "" {
		return
	}

	decision.Justification = refined
	decision.Enriched = true
}

// approvedAmount computes the display amount for a covered claim: claimed
// amount scaled by the reimbursement percentage and bounded by the clause
// cap. Without a claimed amount the cap is reported, or "Not specified".
func approvedAmount(intent *domain.ClaimIntent, limit float64) string {
	if intent.ClaimAmount == nil {
		if limit > 0 {
			return FormatINR(limit)
		}
		return domain.AmountNotSpecified
	}

	amount := *intent.ClaimAmount * float64(intent.ReimbursementPct) / 100
	if limit > 0 && amount > limit {
		amount = limit
	}
	return FormatINR(amount)
}

// clauseCap derives an amount limit from the highest-ranked clause that
// mentions a currency figure.
func clauseCap(clauses []domain.RankedClause) float64 {
	for _, clause := range clauses {
		m := clauseAmount.FindStringSubmatch(strings.ToLower(clause.Section.Text))
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return value
	}
	return 0
}

// clauseWaitingMonths finds a waiting-period requirement in the ranked
// clauses, in months.
func clauseWaitingMonths(clauses []domain.RankedClause) (int, bool) {
	for _, clause := range clauses {
		m := waitingPeriod.FindStringSubmatch(strings.ToLower(clause.Section.Text))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if m[2] == "year" {
			n *= 12
		}
		return n, true
	}
	return 0, false
}

// matchesAny reports whether any keyword appears in the query text.
func matchesAny(query string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

// justify builds the local human-readable justification: the rule outcome
// plus the clauses consulted, with page references for audit display.
func justify(reason string, clauses []domain.RankedClause) string {
	var b strings.Builder
	b.WriteString("Based on the policy clauses found, ")
	b.WriteString(reason)
	b.WriteString(".")

	if len(clauses) > 0 {
		b.WriteString(" Consulted clauses: ")
		for i, clause := range clauses {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%q (p.%d)", clause.Section.Title, clause.Section.PageNumber)
		}
		b.WriteString(".")
	}
	return b.String()
}

// FormatINR renders an amount with Indian digit grouping, e.g. 100000 as
// "₹1,00,000": the last three digits group together, then pairs.
func FormatINR(amount float64) string {
	digits := strconv.FormatFloat(amount, 'f', 0, 64)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	if len(digits) > 3 {
		head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		digits = strings.Join(groups, ",") + "," + tail
	}

	if neg {
		return "-₹" + digits
	}
	return "₹" + digits
}
