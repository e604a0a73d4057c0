// Package types provides type definitions for structured data used throughout the resume-agent pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// HeaderOutput is the tailored headline and summary
type HeaderOutput struct {
	Headline string   `json:"headline" validate:"required"`
	Summary  []string `json:"summary" validate:"min=1"`
}

// SkillsOutput is the JD-driven categorized skills section
type SkillsOutput struct {
	Skills          []SkillCategory `json:"skills" validate:"min=1,dive"`
	ATSKeywordsUsed []string        `json:"ats_keywords_used"`
	CoverageNotes   string          `json:"coverage_notes"`
}

// RoleOutput is one tailored role plus the responsibilities it claims to cover
type RoleOutput struct {
	Company                 string           `json:"company"`
	Title                   string           `json:"title"`
	Dates                   string           `json:"dates"`
	Bullets                 []TailoredBullet `json:"bullets" validate:"min=1,dive"`
	ResponsibilitiesCovered []string         `json:"responsibilities_covered"`
}

// ReviewOutput is the final review of the preliminary tailored resume
type ReviewOutput struct {
	GapsToConfirm    []string `json:"gaps_to_confirm"`
	QuestionsForUser []string `json:"questions_for_user"`
	ChangeLog        []string `json:"change_log"`
}

// SecondaryExtras holds content harvested from a secondary resume
type SecondaryExtras struct {
	Label   string         `json:"label"`
	Skills  []string       `json:"skills"`
	Metrics []MetricBullet `json:"metrics"`
}

// MetricBullet is a quantified bullet harvested from a secondary resume
type MetricBullet struct {
	Company string `json:"company"`
	Text    string `json:"text"`
}

// IsEmpty reports whether nothing was harvested
func (s *SecondaryExtras) IsEmpty() bool {
	return s == nil || (len(s.Skills) == 0 && len(s.Metrics) == 0)
}
