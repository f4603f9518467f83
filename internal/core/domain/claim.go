package domain

import "time"

// Gender is the parsed patient gender from a claim query.
type Gender string

const (
	// GenderMale indicates an explicit male mention or shorthand like "45M".
	GenderMale Gender = "male"

	// GenderFemale indicates an explicit female mention or shorthand like "45F".
	GenderFemale Gender = "female"

	// GenderUnspecified is the default when no gender can be parsed.
	GenderUnspecified Gender = "unspecified"
)

// DefaultAge is substituted when no age can be parsed from a query.
const DefaultAge = 30

// DefaultReimbursementPct is the reimbursement percentage applied when the
// query carries no explicit reimbursement terms.
const DefaultReimbursementPct = 100

// ClaimIntent is the structured interpretation of a free-text claim query.
// It is derived once per query and never mutated; every field is populated
// (with a default where nothing was parsed) before policy evaluation.
type ClaimIntent struct {
	// Age is the patient age, DefaultAge when unparsed.
	Age int

	// Gender is the parsed gender, GenderUnspecified when unparsed.
	Gender Gender

	// Procedure is the verbatim query text. Downstream ranking and
	// justification need the whole sentence, not just matched tokens.
	Procedure string

	// Location is the treatment location, nil when absent.
	Location *string

	// DistanceKM is the travel/transport distance, nil when absent.
	DistanceKM *float64

	// PolicyMonths is how long the policy has been held, nil when absent.
	PolicyMonths *int

	// ClaimAmount is the claimed amount in rupees, nil when the query
	// asserts no amount.
	ClaimAmount *float64

	// ReimbursementPct is the reimbursement percentage, default 100.
	ReimbursementPct int
}

// Claim is a persisted claim record: one per analysed query, carrying the
// parsed intent fields alongside the source document reference.
type Claim struct {
	ID         string
	DocumentID string
	Intent     ClaimIntent
	CreatedAt  time.Time
}
