// Package types provides type definitions for structured data used throughout the resume-agent pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Requirement types as emitted by job description extraction
const (
	RequirementMust = "must"
	RequirementNice = "nice"
)

// JobDescription is the structured form of a job posting.
// Responsibilities are ordered most-important first.
type JobDescription struct {
	Company          string        `json:"company"`
	RoleTitle        string        `json:"role_title"`
	Level            string        `json:"level"`
	Location         string        `json:"location"`
	Responsibilities []string      `json:"responsibilities"`
	Requirements     []Requirement `json:"requirements" validate:"dive"`
	ToolsPlatforms   []string      `json:"tools_platforms"`
	MetricsKPIs      []string      `json:"metrics_kpis"`
	Keywords         []string      `json:"keywords"`
}

// Requirement is a single job requirement tagged must or nice
type Requirement struct {
	Requirement string `json:"requirement" validate:"required"`
	Type        string `json:"type" validate:"oneof=must nice"`
}

// MustHaves returns requirement texts marked as must, in order
func (jd *JobDescription) MustHaves() []string {
	return jd.requirementsOfType(RequirementMust)
}

// NiceToHaves returns requirement texts marked as nice, in order
func (jd *JobDescription) NiceToHaves() []string {
	return jd.requirementsOfType(RequirementNice)
}

func (jd *JobDescription) requirementsOfType(kind string) []string {
	var out []string
	for _, r := range jd.Requirements {
		if r.Type == kind {
			out = append(out, r.Requirement)
		}
	}
	return out
}
