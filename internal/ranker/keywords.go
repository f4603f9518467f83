package ranker

// The keyword tables below are heuristic configuration data, not policy
// derived from any document. They cover the common vocabulary of Indian
// health insurance claims and can be extended without touching the scoring.

// synonyms maps query terms to related policy wording so that, for
// example, a query about an "ambulance" also matches clauses that say
// "emergency transport".
var synonyms = map[string][]string{
	"surgery":   {"operation", "surgical", "procedure", "operative", "invasive"},
	"ambulance": {"emergency transport", "medical transport", "air ambulance", "evacuation"},
	"emergency": {"urgent", "critical", "immediate", "acute", "life-threatening"},
	"treatment": {"therapy", "care", "medical care", "intervention", "management"},
	"hospital":  {"medical facility", "healthcare", "clinic", "medical center", "facility"},
	"coverage":  {"cover", "benefit", "reimbursement", "claim", "eligible", "payable"},
	"exclude":   {"exclusion", "not covered", "limitation", "restricted", "excluded"},
	"heart":     {"cardiac", "coronary", "cardiovascular"},
	"cancer":    {"oncology", "tumor", "malignant", "chemotherapy", "radiotherapy"},
	"diabetes":  {"diabetic", "blood sugar", "insulin"},
	"accident":  {"accidental", "injury", "trauma", "mishap"},
	"maternity": {"pregnancy", "delivery", "birth", "prenatal", "postnatal"},
	"dental":    {"teeth", "oral", "mouth"},
	"eye":       {"vision", "optical", "sight", "ophthalmology"},
}

// procedureTerms are treatment mentions worth an entity bonus when they
// appear in both the query and a clause.
var procedureTerms = []string{
	"surgery", "operation", "treatment", "therapy", "procedure", "examination",
	"heart surgery", "brain surgery", "bypass", "transplant", "dialysis",
	"chemotherapy", "radiotherapy", "physiotherapy", "consultation",
}

// conditionTerms are diagnosis mentions worth an entity bonus.
var conditionTerms = []string{
	"cancer", "diabetes", "heart attack", "stroke", "kidney failure",
	"liver disease", "pneumonia", "covid", "accident", "injury", "fracture",
}

// urgencyTerms flag time-critical claims; the first one found in the query
// is the claim's urgency marker.
var urgencyTerms = []string{"emergency", "urgent", "critical", "immediate", "ambulance"}

// scenarios group the policy phrasings of common claim situations. A query
// and clause that land in the same scenario earn a bonus even without
// direct word overlap.
var scenarios = map[string][]string{
	"ambulance": {"air ambulance", "emergency transport", "medical evacuation"},
	"surgery":   {"surgical procedure", "operation", "invasive treatment"},
	"maternity": {"pregnancy", "delivery", "childbirth", "maternal"},
	"dental":    {"dental treatment", "oral care", "teeth"},
	"accident":  {"accidental injury", "trauma", "emergency care"},
}
