// Package keywords measures how much of a job description's vocabulary a
// tailored resume carries, allowing for common synonyms and abbreviations.
package keywords

import (
	"sort"
	"strings"
)

// synonyms maps a canonical term to equivalent phrasings. Keys and values
// are lowercase.
var synonyms = map[string][]string{
	"machine learning":    {"ml", "machine-learning", "artificial intelligence"},
	"ai":                  {"artificial intelligence", "machine learning", "ml"},
	"deep learning":       {"neural networks", "cnn", "rnn"},
	"data science":        {"data analytics", "data analysis", "analytics"},
	"data analysis":       {"data science", "analytics", "data analytics"},
	"javascript":          {"js", "ecmascript"},
	"sql":                 {"structured query language"},
	"user acquisition":    {"ua", "user growth", "paid acquisition"},
	"roas":                {"return on ad spend", "return on advertising spend"},
	"ltv":                 {"lifetime value", "customer lifetime value", "clv"},
	"cpi":                 {"cost per install", "cost-per-install"},
	"cpc":                 {"cost per click", "cost-per-click"},
	"cpm":                 {"cost per mille", "cost per thousand"},
	"cpa":                 {"cost per acquisition", "cost-per-acquisition"},
	"ctr":                 {"click-through rate", "click through rate"},
	"cvr":                 {"conversion rate"},
	"google ads":          {"google adwords", "adwords"},
	"facebook ads":        {"meta ads", "facebook advertising", "meta advertising"},
	"tiktok ads":          {"tiktok advertising", "tiktok for business"},
	"excel":               {"microsoft excel", "ms excel"},
	"powerpoint":          {"microsoft powerpoint", "ms powerpoint"},
	"a/b testing":         {"ab testing", "split testing", "experimentation"},
	"crm":                 {"customer relationship management"},
	"seo":                 {"search engine optimization"},
	"sem":                 {"search engine marketing", "paid search"},
	"mmm":                 {"marketing mix modeling", "media mix modeling"},
	"incrementality":      {"lift testing", "incrementality testing"},
	"lifecycle marketing": {"crm marketing", "retention marketing"},
}

// reverse maps every synonym back to its canonical terms.
var reverse = buildReverse()

func buildReverse() map[string][]string {
	r := make(map[string][]string)
	for canon, alts := range synonyms {
		for _, a := range alts {
			r[a] = append(r[a], canon)
		}
	}
	for k := range r {
		sort.Strings(r[k])
	}
	return r
}

// Expand returns the lowercase term with its synonyms and, when the term is
// itself a synonym, the canonical terms and their other synonyms. The result
// is sorted and contains no duplicates.
func Expand(term string) []string {
	norm := normalize(term)
	if norm == "" {
		return nil
	}

	set := map[string]struct{}{norm: {}}
	add := func(vals ...string) {
		for _, v := range vals {
			set[v] = struct{}{}
		}
	}

	add(synonyms[norm]...)
	for _, canon := range reverse[norm] {
		add(canon)
		add(synonyms[canon]...)
	}

	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
