package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-agent/internal/types"
)

// Report holds the advisory findings of a validation pass, in the order
// they were found: provenance, skill drift, then outcome distribution.
type Report struct {
	Warnings []types.Warning `json:"warnings"`
}

// Count returns the number of warnings of the given kind
func (r *Report) Count(kind string) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Validate checks tailored against original. A role at a company that is
// not in the original resume is a *ValidationError; everything else is
// reported as a warning. Validate has no side effects.
func Validate(original *types.Resume, tailored *types.TailoredResume) (*Report, error) {
	if original == nil || tailored == nil {
		return nil, fmt.Errorf("validation requires both the original and the tailored resume")
	}

	companies := original.CompanySet()
	for i, role := range tailored.Roles {
		if !companies[role.Company] {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("roles[%d].company", i),
				Value:   role.Company,
				Allowed: original.Companies(),
			}
		}
	}

	report := &Report{Warnings: []types.Warning{}}
	report.Warnings = append(report.Warnings, checkProvenance(original, tailored)...)
	if w, ok := checkSkillDrift(original, tailored); ok {
		report.Warnings = append(report.Warnings, w)
	}
	report.Warnings = append(report.Warnings, AuditOutcomes(tailored.Roles)...)
	return report, nil
}

func checkProvenance(original *types.Resume, tailored *types.TailoredResume) []types.Warning {
	valid := original.BulletIDs()

	var warnings []types.Warning
	for i, role := range tailored.Roles {
		for j, b := range role.Bullets {
			for _, id := range b.SourceBulletIDs {
				if valid[id] {
					continue
				}
				warnings = append(warnings, types.Warning{
					Kind:      types.WarningProvenance,
					RoleIndex: i,
					Message:   fmt.Sprintf("bullet %d at %s cites unknown source bullet %q", j+1, role.Company, id),
				})
			}
		}
	}
	return warnings
}

// checkSkillDrift lists tailored skills the original resume never named.
// The skills section is written from the job description, so drift is
// expected and only reported.
func checkSkillDrift(original *types.Resume, tailored *types.TailoredResume) (types.Warning, bool) {
	known := make(map[string]bool, len(original.Skills))
	for _, s := range original.Skills {
		known[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var added []string
	for _, s := range tailored.SkillsFlat() {
		if !known[strings.ToLower(s)] {
			added = append(added, s)
		}
	}
	if len(added) == 0 {
		return types.Warning{}, false
	}
	return types.Warning{
		Kind:      types.WarningSkillDrift,
		RoleIndex: -1,
		Message:   fmt.Sprintf("%d skills not in the original resume: %s", len(added), strings.Join(added, ", ")),
	}, true
}
