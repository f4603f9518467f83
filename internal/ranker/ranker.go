// Package ranker scores policy sections against a claim intent and keeps
// the most relevant ones. Scoring is purely lexical: word overlap, a
// synonym-expanded overlap, and bonuses for title matches, shared medical
// terms and shared claim scenarios. It is deterministic for a given
// (intent, sections) pair and monotonic in shared-term overlap.
package ranker

import (
	"sort"
	"strings"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
)

// DefaultTopN is how many clauses are kept per query.
const DefaultTopN = 5

// minScore is the relevance floor below which a clause is dropped, unless
// nothing clears it, in which case the best few are kept anyway so the
// policy engine always has context to cite.
const minScore = 0.05

// fallbackN is how many clauses survive when nothing clears minScore.
const fallbackN = 3

// Scoring weights. The blend favours direct and synonym-expanded overlap,
// with smaller structural bonuses.
const (
	weightDirect    = 0.25
	weightExpanded  = 0.25
	weightTitle     = 0.15
	weightSubstring = 0.15
	weightEntity    = 0.15
	weightScenario  = 0.05
)

// Ranker selects the top-N sections for a claim intent.
type Ranker struct {
	topN int
}

// Option configures the ranker.
type Option func(*Ranker)

// WithTopN sets how many clauses are kept per query.
func WithTopN(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.topN = n
		}
	}
}

// New creates a ranker with the given options.
func New(opts ...Option) *Ranker {
	r := &Ranker{topN: DefaultTopN}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// scored pairs a section with its score and original position for the
// stable tie-break.
type scored struct {
	section  domain.Section
	score    float64
	position int
}

// Rank scores every section against the intent and returns the top-N as
// ranked clauses, best first. Ties preserve original section order. An
// empty section list yields an empty result, never an error.
func (r *Ranker) Rank(intent domain.ClaimIntent, sections []domain.Section) []domain.RankedClause {
	if len(sections) == 0 {
		return []domain.RankedClause{}
	}

	query := strings.ToLower(intent.Procedure)
	queryWords := wordSet(query)
	expandedWords := expandQuery(queryWords)

	entities := queryEntities(query)

	all := make([]scored, 0, len(sections))
	for i, section := range sections {
		all = append(all, scored{
			section:  section,
			score:    r.score(query, queryWords, expandedWords, entities, section),
			position: i,
		})
	}

	// Descending score, ties by original document order.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].position < all[j].position
	})

	kept := make([]domain.RankedClause, 0, r.topN)
	for _, s := range all {
		if len(kept) == r.topN {
			break
		}
		if s.score > minScore {
			kept = append(kept, domain.RankedClause{Section: s.section, Score: s.score})
		}
	}

	// Nothing relevant enough: keep the best few anyway.
	if len(kept) == 0 {
		n := fallbackN
		if n > len(all) {
			n = len(all)
		}
		for _, s := range all[:n] {
			kept = append(kept, domain.RankedClause{Section: s.section, Score: s.score})
		}
	}

	return kept
}

// queryEntityHits holds the medical terms found in the query text.
type queryEntityHits struct {
	procedures []string
	conditions []string
	urgency    string
}

func queryEntities(query string) queryEntityHits {
	var hits queryEntityHits
	for _, term := range procedureTerms {
		if strings.Contains(query, term) {
			hits.procedures = append(hits.procedures, term)
		}
	}
	for _, term := range conditionTerms {
		if strings.Contains(query, term) {
			hits.conditions = append(hits.conditions, term)
		}
	}
	for _, term := range urgencyTerms {
		if strings.Contains(query, term) {
			hits.urgency = term
			break
		}
	}
	return hits
}

func (r *Ranker) score(
	query string,
	queryWords, expandedWords map[string]struct{},
	entities queryEntityHits,
	section domain.Section,
) float64 {
	title := strings.ToLower(section.Title)
	combined := title + " " + strings.ToLower(section.Text)
	sectionWords := wordSet(combined)

	directScore := float64(overlap(queryWords, sectionWords)) / float64(max(len(queryWords), 1))
	expandedScore := float64(overlap(expandedWords, sectionWords)) / float64(max(len(expandedWords), 1))

	// Title words are usually the strongest relevance signal.
	titleBonus := float64(overlap(queryWords, wordSet(title))) * 0.5

	// Substring matches catch multi-word terms that word overlap misses.
	substringBonus := 0.0
	for term := range synonyms {
		if strings.Contains(query, term) && strings.Contains(combined, term) {
			substringBonus += 0.2
		}
	}

	entityBonus := 0.0
	for _, p := range entities.procedures {
		if strings.Contains(combined, p) {
			entityBonus += 0.3
		}
	}
	for _, c := range entities.conditions {
		if strings.Contains(combined, c) {
			entityBonus += 0.3
		}
	}
	if entities.urgency != "" && strings.Contains(combined, entities.urgency) {
		entityBonus += 0.2
	}

	scenarioBonus := 0.0
	for scenario, keywords := range scenarios {
		if containsAny(query, keywords) || strings.Contains(query, scenario) {
			if containsAny(combined, keywords) {
				scenarioBonus += 0.4
			}
		}
	}

	return directScore*weightDirect +
		expandedScore*weightExpanded +
		titleBonus*weightTitle +
		substringBonus*weightSubstring +
		entityBonus*weightEntity +
		scenarioBonus*weightScenario
}

// expandQuery widens the query word set with the synonym table so clauses
// phrased differently still score.
func expandQuery(queryWords map[string]struct{}) map[string]struct{} {
	expanded := make(map[string]struct{}, len(queryWords))
	for w := range queryWords {
		expanded[w] = struct{}{}
		for _, syn := range synonyms[w] {
			for _, part := range strings.Fields(syn) {
				expanded[part] = struct{}{}
			}
		}
	}
	return expanded
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.Trim(w, ".,;:!?()")] = struct{}{}
	}
	delete(set, "")
	return set
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
