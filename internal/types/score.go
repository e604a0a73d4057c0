// Package types provides type definitions for structured data used throughout the resume-agent pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ScoreResult is a recruiter-style evaluation of a tailored resume.
// Initial and final scores are independent snapshots.
type ScoreResult struct {
	Score           int      `json:"score" validate:"min=0,max=100"`
	ScoreRationale  string   `json:"score_rationale"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

// HasGaps reports whether the evaluation found any gaps
func (s *ScoreResult) HasGaps() bool {
	return s != nil && len(s.Gaps) > 0
}

// GapCoverageResult holds bullets proposed to cover scoring gaps
type GapCoverageResult struct {
	RolesWithAdditions []GapRole `json:"roles_with_additions" validate:"dive"`
	GapsAddressed      []string  `json:"gaps_addressed"`
	GapsNotAddressable []string  `json:"gaps_not_addressable"`
}

// GapRole carries proposed bullets for the role at RoleIndex
type GapRole struct {
	RoleIndex int         `json:"role_index" validate:"min=0"`
	Company   string      `json:"company"`
	Title     string      `json:"title"`
	Dates     string      `json:"dates"`
	Bullets   []GapBullet `json:"bullets" validate:"dive"`
}

// GapBullet is a bullet proposed by gap coverage. Only IsNew bullets are appended.
type GapBullet struct {
	Text          string `json:"text" validate:"required"`
	IsNew         bool   `json:"is_new"`
	NeedsRevision bool   `json:"needs_revision"`
	RevisionNote  string `json:"revision_note,omitempty"`
}

// NewBulletCount returns how many proposed bullets are marked new
func (g *GapCoverageResult) NewBulletCount() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, r := range g.RolesWithAdditions {
		for _, b := range r.Bullets {
			if b.IsNew {
				n++
			}
		}
	}
	return n
}
