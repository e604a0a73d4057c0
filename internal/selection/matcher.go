package selection

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-agent/internal/types"
)

// Defaults for Options
const (
	DefaultLowMatchThreshold = 6.0
	DefaultSecondaryRatio    = 0.8
)

// Options tunes candidate selection
type Options struct {
	// LowMatchThreshold marks a run low-match when the best score is below it
	LowMatchThreshold float64
	// SecondaryRatio is the fraction of the primary score the runner-up needs
	SecondaryRatio float64
}

// DefaultOptions returns the standard selection thresholds
func DefaultOptions() Options {
	return Options{
		LowMatchThreshold: DefaultLowMatchThreshold,
		SecondaryRatio:    DefaultSecondaryRatio,
	}
}

// Selection is the outcome of scoring all candidates against one job description
type Selection struct {
	Primary        types.ResumeCandidate
	PrimaryScore   float64
	Secondary      *types.ResumeCandidate
	SecondaryScore float64
	// Scores is every candidate's score, best first
	Scores     []types.CandidateScore
	IsLowMatch bool
}

// KeywordScore scores keywords against job text: +2 for a case-insensitive
// substring match, otherwise +1 when any whitespace token of the keyword is
// also a token of the text.
func KeywordScore(jobText string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	jd := strings.ToLower(jobText)
	jdTokens := tokenSet(jd)

	score := 0.0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(jd, kw) {
			score += 2
			continue
		}
		for _, tok := range strings.Fields(kw) {
			if jdTokens[tok] {
				score++
				break
			}
		}
	}
	return score
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// Select scores every candidate sequentially and picks the primary and an
// optional secondary. Ties keep index order.
func Select(jobText string, candidates []types.ResumeCandidate, opts Options) (*Selection, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, ErrEmptyJobText
	}
	if len(candidates) == 0 {
		return nil, &ConfigurationError{Message: "no resume candidates available"}
	}

	type scored struct {
		candidate types.ResumeCandidate
		score     float64
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{candidate: c, score: KeywordScore(jobText, c.Keywords)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	sel := &Selection{
		Primary:      ranked[0].candidate,
		PrimaryScore: ranked[0].score,
		IsLowMatch:   ranked[0].score < opts.LowMatchThreshold,
		Scores:       make([]types.CandidateScore, len(ranked)),
	}
	for i, r := range ranked {
		sel.Scores[i] = types.CandidateScore{ID: r.candidate.ID, Label: r.candidate.Label, Score: r.score}
	}

	if len(ranked) > 1 && sel.PrimaryScore > 0 && ranked[1].score >= opts.SecondaryRatio*sel.PrimaryScore {
		second := ranked[1].candidate
		sel.Secondary = &second
		sel.SecondaryScore = ranked[1].score
	}

	return sel, nil
}

// Summary converts the selection into its persisted form
func (s *Selection) Summary() types.SelectionSummary {
	out := types.SelectionSummary{
		PrimaryID:    s.Primary.ID,
		PrimaryLabel: s.Primary.Label,
		IsLowMatch:   s.IsLowMatch,
		Scores:       s.Scores,
	}
	if s.Secondary != nil {
		out.SecondaryID = s.Secondary.ID
		out.SecondaryLabel = s.Secondary.Label
	}
	return out
}
