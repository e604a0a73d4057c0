package validation

import (
	"fmt"

	"github.com/jonathan/resume-agent/internal/outcome"
	"github.com/jonathan/resume-agent/internal/types"
)

const (
	minOutcomes = 2
	maxOutcomes = 4
	// the first role may carry one extra outcome bullet when it has seven
	leadRoleBulletsForExtra = 7
)

// AuditOutcomes checks the mix of outcome-bearing and qualitative bullets
// in each role. Bullets added to cover scoring gaps are not counted.
func AuditOutcomes(roles []types.TailoredRole) []types.Warning {
	var warnings []types.Warning
	for i, role := range roles {
		var texts []string
		for _, b := range role.Bullets {
			if !b.IsGapAddition() {
				texts = append(texts, b.Text)
			}
		}
		warnings = append(warnings, auditRole(i, role.Company, texts)...)
	}
	return warnings
}

func auditRole(i int, company string, texts []string) []types.Warning {
	var warnings []types.Warning
	warn := func(format string, args ...any) {
		warnings = append(warnings, types.Warning{
			Kind:      types.WarningOutcomeDistribution,
			RoleIndex: i,
			Message:   fmt.Sprintf("%s: ", company) + fmt.Sprintf(format, args...),
		})
	}

	if i < 2 && !(len(texts) >= 2 && outcome.HasOutcome(texts[0]) && outcome.HasOutcome(texts[1])) {
		warn("first two bullets should both carry a numeric outcome")
	}

	count := outcome.Count(texts)
	upper := maxOutcomes
	if i == 0 && len(texts) == leadRoleBulletsForExtra {
		upper++
	}
	switch {
	case count < minOutcomes:
		warn("%d outcome bullets, want %d-%d", count, minOutcomes, upper)
	case count > upper:
		warn("%d outcome bullets, want %d-%d", count, minOutcomes, upper)
	}

	if len(texts)-count < 1 {
		warn("no qualitative bullet among %d", len(texts))
	}
	return warnings
}
