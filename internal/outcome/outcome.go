// Package outcome classifies resume bullets by whether they carry a quantified outcome.
package outcome

import (
	"regexp"
	"strings"
)

var kpiAcronyms = `roas|ltv|cpi|ctr|cvr|cpa|cpc|cpm`

var outcomePatterns = []*regexp.Regexp{
	// currency: $2.5M, $300K, $1,200
	regexp.MustCompile(`(?i)\$\s?\d[\d,]*(\.\d+)?\s?(k|m|b|mm|bn)?\b`),
	// percentage
	regexp.MustCompile(`(?i)\d+(\.\d+)?\s?%`),
	// multiplier with KPI: 3.5x ROAS
	regexp.MustCompile(`(?i)\d+(\.\d+)?\s?x\s+(` + kpiAcronyms + `|roi|revenue)\b`),
	// counted entities: 12 channels
	regexp.MustCompile(`(?i)\b\d+\+?\s+(channels?|partners?|campaigns?|markets?)\b`),
	// action verb eventually followed by a number
	regexp.MustCompile(`(?i)\b(increas\w*|reduc\w*|grew|grow\w*|improv\w*|boost\w*|drove|driv\w*|scal\w*|cut|lower\w*|rais\w*|generat\w*|decreas\w*|sav\w*|doubl\w*|tripl\w*|lift\w*|accelerat\w*)\b[^.;]*?\d`),
	// KPI acronym followed by a number: CPI of 1.20
	regexp.MustCompile(`(?i)\b(` + kpiAcronyms + `)\b[^.;\d]{0,30}\d`),
	// written magnitude: 2 million
	regexp.MustCompile(`(?i)\d+(\.\d+)?\s*(million|billion|thousand)\b`),
}

// HasOutcome reports whether text contains a quantified outcome such as a
// percentage, currency amount or KPI with a number.
func HasOutcome(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, p := range outcomePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Count returns how many texts carry a quantified outcome
func Count(texts []string) int {
	n := 0
	for _, t := range texts {
		if HasOutcome(t) {
			n++
		}
	}
	return n
}

// Quota is the bullet count range and exact outcome count for a role position
type Quota struct {
	MinBullets int
	MaxBullets int
	Outcomes   int
}

// QuotaFor returns the bullet and outcome quota for the role at index
func QuotaFor(roleIndex int) Quota {
	switch roleIndex {
	case 0:
		return Quota{MinBullets: 6, MaxBullets: 7, Outcomes: 4}
	case 1:
		return Quota{MinBullets: 5, MaxBullets: 6, Outcomes: 3}
	default:
		return Quota{MinBullets: 4, MaxBullets: 5, Outcomes: 3}
	}
}

// Qualitative returns how many bullets the quota leaves without outcomes at most
func (q Quota) Qualitative() int {
	return q.MaxBullets - q.Outcomes
}
