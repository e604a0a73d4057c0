package pipeline

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/resume-agent/internal/types"
)

const gapRevisionNote = "Added to cover a scoring gap - confirm details"

// harvestSecondary collects skills the primary resume lacks and every
// secondary bullet carrying a %, $ or digit that the primary does not
// already state.
func harvestSecondary(primary, secondary *types.Resume, label string) *types.SecondaryExtras {
	extras := &types.SecondaryExtras{Label: label}

	have := make(map[string]bool, len(primary.Skills))
	for _, s := range primary.Skills {
		have[s] = true
	}
	for _, s := range secondary.Skills {
		if !have[s] {
			have[s] = true
			extras.Skills = append(extras.Skills, s)
		}
	}

	stated := make(map[string]bool)
	for _, role := range primary.Roles {
		for _, b := range role.Bullets {
			stated[normalizeBullet(b.Text)] = true
		}
	}
	for _, role := range secondary.Roles {
		for _, b := range role.Bullets {
			key := normalizeBullet(b.Text)
			if isMetricText(b.Text) && !stated[key] {
				stated[key] = true
				extras.Metrics = append(extras.Metrics, types.MetricBullet{Company: role.Company, Text: b.Text})
			}
		}
	}
	return extras
}

func normalizeBullet(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

func isMetricText(text string) bool {
	return strings.ContainsAny(text, "%$") || strings.IndexFunc(text, unicode.IsDigit) >= 0
}

// toTailoredRole converts a role stage record, forcing the original company
// back in place. The returned warning is nil when nothing was corrected.
func toTailoredRole(out *types.RoleOutput, original types.Role, roleIndex int, lowMatch bool) (types.TailoredRole, *types.Warning) {
	var warning *types.Warning
	if out.Company != original.Company {
		warning = &types.Warning{
			Kind:      types.WarningCompanyCorrected,
			RoleIndex: roleIndex,
			Message:   fmt.Sprintf("company changed from %q to %q, reverted", original.Company, out.Company),
		}
	}

	role := types.TailoredRole{
		Company: original.Company,
		Title:   out.Title,
		Dates:   out.Dates,
		Bullets: out.Bullets,
	}
	if lowMatch {
		for i := range role.Bullets {
			role.Bullets[i].NeedsRevision = true
			if strings.TrimSpace(role.Bullets[i].RevisionNote) == "" {
				role.Bullets[i].RevisionNote = lowMatchRevisionNote
			}
		}
	}
	return role, warning
}

func assemble(resume *types.Resume, jd *types.JobDescription, header *types.HeaderOutput, skills *types.SkillsOutput, roles []types.TailoredRole, review *types.ReviewOutput) *types.TailoredResume {
	return &types.TailoredResume{
		Name:             resume.Name,
		Email:            resume.Email,
		Location:         resume.Location,
		Headline:         header.Headline,
		Summary:          header.Summary,
		Skills:           skills.Skills,
		Roles:            roles,
		Education:        resume.Education,
		Certifications:   resume.Certifications,
		Awards:           resume.Awards,
		ChangeLog:        review.ChangeLog,
		QuestionsForUser: review.QuestionsForUser,
		GapsToConfirm:    review.GapsToConfirm,
		TargetCompany:    jd.Company,
		TargetRole:       jd.RoleTitle,
	}
}

// mergeGapCoverage appends the new bullets of gc to tr's roles. Existing
// bullets are never touched. Roles whose index is out of range are skipped
// and reported as warnings.
func mergeGapCoverage(tr *types.TailoredResume, gc *types.GapCoverageResult) (int, []types.Warning) {
	added := 0
	var warnings []types.Warning
	for _, update := range gc.RolesWithAdditions {
		if update.RoleIndex < 0 || update.RoleIndex >= len(tr.Roles) {
			warnings = append(warnings, types.Warning{
				Kind:      types.WarningGapIgnored,
				RoleIndex: -1,
				Message:   fmt.Sprintf("gap coverage names role %d but the resume has %d roles", update.RoleIndex, len(tr.Roles)),
			})
			continue
		}

		role := &tr.Roles[update.RoleIndex]
		for _, b := range update.Bullets {
			if !b.IsNew {
				continue
			}
			text := strings.TrimSpace(b.Text)
			if !strings.Contains(text, types.GapMarker) {
				text += " **" + types.GapMarker + "**"
			}
			note := b.RevisionNote
			if strings.TrimSpace(note) == "" {
				note = gapRevisionNote
			}
			role.Bullets = append(role.Bullets, types.TailoredBullet{
				Text:            text,
				SourceBulletIDs: []string{},
				NeedsRevision:   true,
				RevisionNote:    note,
			})
			added++
		}
	}
	return added, warnings
}

// RevisionItem is a bullet flagged for the candidate to confirm
type RevisionItem struct {
	RoleIndex   int    `json:"role_index"`
	Company     string `json:"company"`
	BulletIndex int    `json:"bullet_index"`
	Text        string `json:"text"`
	Note        string `json:"note,omitempty"`
}

// RevisionSummary lists every bullet needing revision in resume order
func RevisionSummary(tr *types.TailoredResume) []RevisionItem {
	if tr == nil {
		return nil
	}
	var out []RevisionItem
	for i, r := range tr.Roles {
		for j, b := range r.Bullets {
			if !b.NeedsRevision {
				continue
			}
			out = append(out, RevisionItem{
				RoleIndex:   i,
				Company:     r.Company,
				BulletIndex: j,
				Text:        b.Text,
				Note:        b.RevisionNote,
			})
		}
	}
	return out
}
