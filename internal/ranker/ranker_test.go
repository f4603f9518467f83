package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
)

func testSections() []domain.Section {
	return []domain.Section{
		{
			ID:         "s1",
			Title:      "Surgical Benefits",
			Text:       "The policy covers knee surgery, hip replacement and other orthopedic operations performed as inpatient procedures.",
			PageNumber: 3,
		},
		{
			ID:         "s2",
			Title:      "Dental Exclusions",
			Text:       "Routine dental treatment, tooth extraction and oral care are excluded unless arising from an accident.",
			PageNumber: 7,
		},
		{
			ID:         "s3",
			Title:      "Grievance Redressal",
			Text:       "Complaints may be escalated to the grievance cell within thirty days of the disputed decision.",
			PageNumber: 12,
		},
		{
			ID:         "s4",
			Title:      "Ambulance Cover",
			Text:       "Road ambulance charges up to rs 2,000 per hospitalisation are payable. Air ambulance requires prior approval.",
			PageNumber: 5,
		},
	}
}

func intentFor(query string) domain.ClaimIntent {
	return domain.ClaimIntent{
		Age:              30,
		Gender:           domain.GenderUnspecified,
		Procedure:        query,
		ReimbursementPct: 100,
	}
}

func TestRank_MostRelevantFirst(t *testing.T) {
	r := New()

	clauses := r.Rank(intentFor("knee surgery for inpatient treatment"), testSections())

	require.NotEmpty(t, clauses)
	assert.Equal(t, "Surgical Benefits", clauses[0].Section.Title)
	for i := 1; i < len(clauses); i++ {
		assert.GreaterOrEqual(t, clauses[i-1].Score, clauses[i].Score)
	}
}

func TestRank_Deterministic(t *testing.T) {
	r := New()
	intent := intentFor("dental treatment after accident")
	sections := testSections()

	first := r.Rank(intent, sections)
	for range [10]int{} {
		again := r.Rank(intent, sections)
		require.Equal(t, len(first), len(again))
		for i := range first {
			assert.Equal(t, first[i].Section.ID, again[i].Section.ID)
			assert.Equal(t, first[i].Score, again[i].Score)
		}
	}
}

func TestRank_TiesKeepDocumentOrder(t *testing.T) {
	r := New()

	// Identical sections score identically; document order must survive.
	sections := []domain.Section{
		{ID: "a", Title: "Cover", Text: "surgery is covered", PageNumber: 1},
		{ID: "b", Title: "Cover", Text: "surgery is covered", PageNumber: 2},
		{ID: "c", Title: "Cover", Text: "surgery is covered", PageNumber: 3},
	}

	clauses := r.Rank(intentFor("surgery"), sections)

	require.Len(t, clauses, 3)
	assert.Equal(t, "a", clauses[0].Section.ID)
	assert.Equal(t, "b", clauses[1].Section.ID)
	assert.Equal(t, "c", clauses[2].Section.ID)
}

func TestRank_EmptySections(t *testing.T) {
	r := New()

	clauses := r.Rank(intentFor("knee surgery"), nil)

	assert.NotNil(t, clauses)
	assert.Empty(t, clauses)
}

func TestRank_TopNLimit(t *testing.T) {
	r := New(WithTopN(2))

	sections := make([]domain.Section, 0, 6)
	for i := 0; i < 6; i++ {
		sections = append(sections, domain.Section{
			ID:         string(rune('a' + i)),
			Title:      "Surgery Cover",
			Text:       "knee surgery and operations are covered for inpatients",
			PageNumber: i + 1,
		})
	}

	clauses := r.Rank(intentFor("knee surgery"), sections)

	assert.Len(t, clauses, 2)
}

func TestRank_FallbackWhenNothingRelevant(t *testing.T) {
	r := New()

	// A query sharing no vocabulary with the document still yields clauses
	// so the policy engine has context to cite.
	clauses := r.Rank(intentFor("zzzz qqqq xxxx"), testSections())

	assert.NotEmpty(t, clauses)
	assert.LessOrEqual(t, len(clauses), fallbackN)
}

func TestRank_SynonymExpansion(t *testing.T) {
	r := New()

	sections := []domain.Section{
		{ID: "op", Title: "Benefits", Text: "operation charges for inpatient care are payable", PageNumber: 1},
		{ID: "gr", Title: "Grievance", Text: "complaints within thirty days", PageNumber: 2},
	}

	// "surgery" should reach the "operation" clause through the synonym table.
	clauses := r.Rank(intentFor("surgery"), sections)

	require.NotEmpty(t, clauses)
	assert.Equal(t, "op", clauses[0].Section.ID)
}

func TestRank_ScoresArePositive(t *testing.T) {
	r := New()

	clauses := r.Rank(intentFor("emergency ambulance transport"), testSections())

	require.NotEmpty(t, clauses)
	for _, clause := range clauses {
		assert.Greater(t, clause.Score, 0.0)
	}
}
