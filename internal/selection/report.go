package selection

import (
	"math"
	"strings"

	"github.com/jonathan/resume-agent/internal/types"
)

// Match ratings by normalized score
const (
	RatingExcellent = "Excellent Match"
	RatingGood      = "Good Match"
	RatingFair      = "Fair Match"
	RatingWeak      = "Weak Match"
	RatingPoor      = "Poor Match"
)

const minMaxPossible = 30.0

// CandidateMatch is one candidate's line in a match report
type CandidateMatch struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Path       string  `json:"path"`
	RawScore   float64 `json:"raw_score"`
	Normalized float64 `json:"score"`
	Rating     string  `json:"rating"`
}

// MatchReport ranks every candidate on a 0-10 scale
type MatchReport struct {
	Best            CandidateMatch   `json:"best_match"`
	MatchedKeywords []string         `json:"matched_keywords"`
	Results         []CandidateMatch `json:"all_results"`
	IsLowMatch      bool             `json:"is_low_match"`
}

// BuildMatchReport scores every candidate and normalizes against a dynamic
// ceiling of max(30, 1.2 * best raw score).
func BuildMatchReport(jobText string, candidates []types.ResumeCandidate, opts Options) (*MatchReport, error) {
	sel, err := Select(jobText, candidates, opts)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]types.ResumeCandidate, len(candidates))
	for _, c := range candidates {
		if _, ok := byID[c.ID]; !ok {
			byID[c.ID] = c
		}
	}

	maxPossible := math.Max(minMaxPossible, sel.PrimaryScore*1.2)
	report := &MatchReport{
		Results:    make([]CandidateMatch, len(sel.Scores)),
		IsLowMatch: sel.IsLowMatch,
	}
	for i, s := range sel.Scores {
		norm := Normalize(s.Score, maxPossible)
		report.Results[i] = CandidateMatch{
			ID:         s.ID,
			Label:      s.Label,
			Path:       byID[s.ID].Path,
			RawScore:   s.Score,
			Normalized: norm,
			Rating:     Rating(norm),
		}
	}
	report.Best = report.Results[0]
	report.Best.Path = sel.Primary.Path
	report.MatchedKeywords = MatchedKeywords(jobText, sel.Primary.Keywords)
	return report, nil
}

// Normalize maps a raw keyword score onto 0-10, rounded to one decimal
func Normalize(raw, maxPossible float64) float64 {
	if raw <= 0 || maxPossible <= 0 {
		return 0
	}
	if raw >= maxPossible {
		return 10
	}
	n := raw / maxPossible * 10
	n = math.Min(10, math.Max(0, n))
	return math.Round(n*10) / 10
}

// Rating labels a normalized score
func Rating(score float64) string {
	switch {
	case score >= 8:
		return RatingExcellent
	case score >= 6:
		return RatingGood
	case score >= 4:
		return RatingFair
	case score >= 2:
		return RatingWeak
	default:
		return RatingPoor
	}
}

// MatchedKeywords returns the keywords found verbatim (case-insensitive) in the text
func MatchedKeywords(jobText string, keywords []string) []string {
	jd := strings.ToLower(jobText)
	var out []string
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k != "" && strings.Contains(jd, k) {
			out = append(out, kw)
		}
	}
	return out
}
