// Package types provides type definitions for structured data used throughout the resume-agent pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// GapMarker is appended to bullets authored by the gap-coverage stage
const GapMarker = "(added to cover gaps)"

// TailoredResume is the work-in-progress and final tailored output
type TailoredResume struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Location       string          `json:"location"`
	Headline       string          `json:"headline"`
	Summary        []string        `json:"summary"`
	Skills         []SkillCategory `json:"skills"`
	Roles          []TailoredRole  `json:"roles"`
	Education      []string        `json:"education"`
	Certifications []string        `json:"certifications"`
	Awards         []string        `json:"awards"`

	ChangeLog        []string `json:"change_log"`
	QuestionsForUser []string `json:"questions_for_user"`
	GapsToConfirm    []string `json:"gaps_to_confirm"`

	TargetCompany string `json:"target_company"`
	TargetRole    string `json:"target_role"`
}

// SkillCategory groups skills under a heading
type SkillCategory struct {
	Category string   `json:"category" validate:"required"`
	Skills   []string `json:"skills"`
}

// TailoredRole is a role rewritten for the target job. Company must match
// a company in the original resume exactly.
type TailoredRole struct {
	Company string           `json:"company" validate:"required"`
	Title   string           `json:"title"`
	Dates   string           `json:"dates"`
	Bullets []TailoredBullet `json:"bullets" validate:"dive"`
}

// TailoredBullet is a rewritten or newly authored bullet
type TailoredBullet struct {
	Text            string   `json:"text" validate:"required"`
	SourceBulletIDs []string `json:"source_bullet_ids"`
	NeedsRevision   bool     `json:"needs_revision"`
	RevisionNote    string   `json:"revision_note,omitempty"`
}

// IsGapAddition reports whether the bullet was authored to cover a scoring gap
func (b TailoredBullet) IsGapAddition() bool {
	return strings.Contains(b.Text, GapMarker)
}

// SkillsFlat flattens categorized skills into one list, dropping
// case-insensitive duplicates and keeping first occurrence order.
func (t *TailoredResume) SkillsFlat() []string {
	seen := make(map[string]bool)
	var out []string
	for _, cat := range t.Skills {
		for _, s := range cat.Skills {
			key := strings.ToLower(strings.TrimSpace(s))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// BulletTexts returns the text of each bullet in order
func (r TailoredRole) BulletTexts() []string {
	out := make([]string, len(r.Bullets))
	for i, b := range r.Bullets {
		out[i] = b.Text
	}
	return out
}

// FullText concatenates all tailored content for keyword analysis
func (t *TailoredResume) FullText() string {
	var sb strings.Builder
	sb.WriteString(t.Headline)
	sb.WriteString("\n")
	for _, s := range t.Summary {
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Join(t.SkillsFlat(), ", "))
	sb.WriteString("\n")
	for _, r := range t.Roles {
		sb.WriteString(r.Title)
		sb.WriteString("\n")
		for _, b := range r.Bullets {
			sb.WriteString(b.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
