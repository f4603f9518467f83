// Package interpreter parses free-text claim queries into structured claim
// intents. It is a best-effort heuristic parser: every extraction rule is
// independent, and a rule that fails to match substitutes a default (or
// leaves the field nil) rather than failing the query.
package interpreter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
)

// Age patterns, tried in order. The first match wins.
var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)[-\s]?(?:year|yr|y)[-\s]?old`),
	regexp.MustCompile(`\b(\d+)[mf]\b`),
	regexp.MustCompile(`age[:\s]+(\d+)`),
	regexp.MustCompile(`\b(\d+)[,\s]+(?:male|female)`),
}

var (
	genderShortMale   = regexp.MustCompile(`\b\d+m\b`)
	genderShortFemale = regexp.MustCompile(`\b\d+f\b`)

	// Currency-marked numbers: prefix (₹1,00,000 / rs 50000 / inr 2 lakh)
	// or suffix (50000 rs). Grouping separators are stripped before parsing.
	amountPrefix = regexp.MustCompile(`(?:rs\.?|₹|inr)\s*([0-9][0-9,]*)\s*(lakhs?|lacs?|l\b|k\b|crores?|cr\b)?`)
	amountSuffix = regexp.MustCompile(`([0-9][0-9,]*)\s*(lakhs?|lacs?|k|crores?|cr)?\s*(?:rs\.?|₹|inr)`)

	locationPattern = regexp.MustCompile(`\bin\s+([a-z]+)\b`)
	distancePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*km\b`)
	durationPattern = regexp.MustCompile(`(\d+)[-\s]?(month|year)s?[-\s]?(?:old\s+)?policy`)
)

// Interpret parses a claim query into a fully populated ClaimIntent.
// It is total: any input, including empty or gibberish, yields an intent
// with defaults substituted for whatever could not be parsed.
func Interpret(query string) domain.ClaimIntent {
	lower := strings.ToLower(query)

	intent := domain.ClaimIntent{
		Age:              extractAge(lower),
		Gender:           extractGender(lower),
		Procedure:        query,
		Location:         extractLocation(lower),
		DistanceKM:       extractDistance(lower),
		PolicyMonths:     extractPolicyMonths(lower),
		ClaimAmount:      extractAmount(lower),
		ReimbursementPct: domain.DefaultReimbursementPct,
	}
	return intent
}

func extractAge(lower string) int {
	for _, pat := range agePatterns {
		if m := pat.FindStringSubmatch(lower); m != nil {
			if age, err := strconv.Atoi(m[1]); err == nil && age > 0 {
				return age
			}
		}
	}
	return domain.DefaultAge
}

// extractGender resolves "female" before "male" since the former contains
// the latter as a substring; shorthand like "45f" is the fallback.
func extractGender(lower string) domain.Gender {
	switch {
	case strings.Contains(lower, "female"):
		return domain.GenderFemale
	case strings.Contains(lower, "male"):
		return domain.GenderMale
	case genderShortMale.MatchString(lower):
		return domain.GenderMale
	case genderShortFemale.MatchString(lower):
		return domain.GenderFemale
	default:
		return domain.GenderUnspecified
	}
}

func extractAmount(lower string) *float64 {
	digits, unit := "", ""
	if m := amountPrefix.FindStringSubmatch(lower); m != nil {
		digits, unit = m[1], m[2]
	} else if m := amountSuffix.FindStringSubmatch(lower); m != nil {
		digits, unit = m[1], m[2]
	} else {
		return nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
	if err != nil {
		return nil
	}
	value *= unitMultiplier(unit)
	return &value
}

// unitMultiplier maps Indian currency shorthand to its multiplier:
// "₹1L" is one lakh (100,000), "50k" is 50,000, "1cr" is one crore.
func unitMultiplier(unit string) float64 {
	switch strings.TrimSpace(unit) {
	case "l", "lakh", "lakhs", "lac", "lacs":
		return 100000
	case "k":
		return 1000
	case "cr", "crore", "crores":
		return 10000000
	default:
		return 1
	}
}

func extractLocation(lower string) *string {
	m := locationPattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	// "in" also precedes non-place phrases; reject common verbs/nouns that
	// follow it in claim queries.
	loc := strings.TrimSpace(m[1])
	for _, stop := range []string{"hospital", "the", "a", "an", "case", "order", "general"} {
		if loc == stop || strings.HasPrefix(loc, stop+" ") {
			return nil
		}
	}
	return &loc
}

func extractDistance(lower string) *float64 {
	m := distancePattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	km, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &km
}

func extractPolicyMonths(lower string) *int {
	m := durationPattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	if m[2] == "year" {
		n *= 12
	}
	return &n
}
