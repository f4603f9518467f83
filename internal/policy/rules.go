package policy

import "regexp"

// The rule table is heuristic configuration data with no provenance in any
// particular policy document. Rules are evaluated in slice order, first
// match wins; exclusions are checked before inclusions so that an explicit
// override keyword (accident, emergency) is the only way past them.

// exclusionRule rejects a claim when a keyword matches, unless an override
// keyword also appears in the query.
type exclusionRule struct {
	// ID names the rule in justifications and audit output.
	ID string

	// Keywords, any of which triggers the rule.
	Keywords []string

	// Overrides suppress the rule when present.
	Overrides []string

	// Reason is the justification fragment when the rule fires.
	Reason string
}

// inclusionRule approves a claim outright when a keyword matches.
type inclusionRule struct {
	ID       string
	Keywords []string
	Reason   string
}

var exclusionRules = []exclusionRule{
	{
		ID:        "exclusion:cosmetic",
		Keywords:  []string{"cosmetic"},
		Overrides: []string{"accident", "emergency"},
		Reason:    "cosmetic procedures not related to accidents are excluded",
	},
	{
		ID:        "exclusion:routine-dental",
		Keywords:  []string{"dental"},
		Overrides: []string{"accident", "emergency"},
		Reason:    "routine dental procedures are excluded unless due to accidents",
	},
	{
		ID:        "exclusion:observation",
		Keywords:  []string{"observation"},
		Overrides: []string{"treatment", "accident", "emergency"},
		Reason:    "hospitalisation for observation without active treatment is not covered",
	},
}

var inclusionRules = []inclusionRule{
	{
		ID:       "inclusion:emergency",
		Keywords: []string{"emergency", "accident"},
		Reason:   "emergency treatments and accident-related expenses are covered",
	},
	{
		ID:       "inclusion:ayush",
		Keywords: []string{"ayush", "ayurveda"},
		Reason:   "AYUSH treatments are covered under the policy for inpatient care",
	},
}

// clauseAmount finds currency figures in clause text for cap derivation.
var clauseAmount = regexp.MustCompile(`(?:rs\.?|₹|inr)\s*([0-9][0-9,]*)`)

// waitingPeriod finds waiting-period terms in clause text.
var waitingPeriod = regexp.MustCompile(`waiting period of (\d+) (year|month)s?`)
