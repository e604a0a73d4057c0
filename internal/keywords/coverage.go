package keywords

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-agent/internal/types"
)

// Group names used in the coverage report
const (
	GroupKeywords = "keywords"
	GroupTools    = "tools"
	GroupKPIs     = "kpis"
)

// Coverage reports which JD keywords, tools and KPIs appear in text.
// A term counts as matched when it or any of its expansions occurs as a
// whole word or phrase.
func Coverage(jd *types.JobDescription, text string) *types.KeywordCoverage {
	cov := &types.KeywordCoverage{}
	if jd == nil {
		return cov
	}

	haystack := normalize(text)
	total, matched := 0, 0
	for _, g := range []struct {
		name  string
		terms []string
	}{
		{GroupKeywords, jd.Keywords},
		{GroupTools, jd.ToolsPlatforms},
		{GroupKPIs, jd.MetricsKPIs},
	} {
		group := coverGroup(g.name, dedupe(g.terms), haystack)
		cov.Groups = append(cov.Groups, group)
		total += len(group.Matched) + len(group.Missing)
		matched += len(group.Matched)
	}

	if total > 0 {
		cov.OverallRate = round2(float64(matched) / float64(total))
	}
	return cov
}

func coverGroup(name string, terms []string, haystack string) types.KeywordGroup {
	g := types.KeywordGroup{Name: name, Matched: []string{}, Missing: []string{}}
	for _, term := range terms {
		if Contains(haystack, term) {
			g.Matched = append(g.Matched, term)
		} else {
			g.Missing = append(g.Missing, term)
		}
	}
	if len(terms) > 0 {
		g.Rate = round2(float64(len(g.Matched)) / float64(len(terms)))
	}
	return g
}

// Contains reports whether text mentions term or one of its expansions.
func Contains(text, term string) bool {
	text = normalize(text)
	for _, v := range Expand(term) {
		if containsPhrase(text, v) {
			return true
		}
	}
	return false
}

// containsPhrase matches phrase in text only at word boundaries, so "ua"
// does not match inside "usual".
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; start <= len(text)-len(phrase); {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		if boundaryBefore(text, i) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		key := normalize(t)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
