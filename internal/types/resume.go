// Package types provides type definitions for structured data used throughout the resume-agent pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Resume is the structured form of a base resume. It is the ground truth
// the tailored output is validated against.
type Resume struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Location       string   `json:"location"`
	Headline       string   `json:"headline"`
	Summary        []string `json:"summary"`
	Skills         []string `json:"skills"`
	Roles          []Role   `json:"roles" validate:"dive"`
	Education      []string `json:"education"`
	Certifications []string `json:"certifications"`
	Awards         []string `json:"awards"`
}

// Role is one position in the employment history
type Role struct {
	Company string   `json:"company" validate:"required"`
	Title   string   `json:"title"`
	Dates   string   `json:"dates"`
	Bullets []Bullet `json:"bullets" validate:"dive"`
}

// Bullet is an original resume bullet. IDs are unique within a resume.
type Bullet struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text"`
	HasMetric bool   `json:"has_metric"`
}

// CompanySet returns the set of companies in the employment history
func (r *Resume) CompanySet() map[string]bool {
	set := make(map[string]bool, len(r.Roles))
	for _, role := range r.Roles {
		set[role.Company] = true
	}
	return set
}

// Companies returns the companies in role order, without duplicates
func (r *Resume) Companies() []string {
	seen := make(map[string]bool, len(r.Roles))
	out := make([]string, 0, len(r.Roles))
	for _, role := range r.Roles {
		if seen[role.Company] {
			continue
		}
		seen[role.Company] = true
		out = append(out, role.Company)
	}
	return out
}

// BulletIDs returns the set of bullet ids across all roles
func (r *Resume) BulletIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, role := range r.Roles {
		for _, b := range role.Bullets {
			ids[b.ID] = true
		}
	}
	return ids
}

// BulletTexts returns the text of each bullet in order
func (r Role) BulletTexts() []string {
	out := make([]string, len(r.Bullets))
	for i, b := range r.Bullets {
		out[i] = b.Text
	}
	return out
}
