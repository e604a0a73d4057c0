package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-agent/internal/outcome"
	"github.com/jonathan/resume-agent/internal/pipeline/steps"
	"github.com/jonathan/resume-agent/internal/prompts"
	"github.com/jonathan/resume-agent/internal/types"
)

const (
	promptKeywordLimit   = 10
	promptMetricLimit    = 10
	topResponsibilities  = 5
	lowMatchRevisionNote = "Content created from the job description - verify"
)

type roleGuidance struct {
	priority string
	focus    string
}

func guidanceFor(roleIndex int) roleGuidance {
	switch roleIndex {
	case 0:
		return roleGuidance{
			priority: "TOP PRIORITY",
			focus:    "Cover the most important responsibilities. The first bullet must address the #1 responsibility.",
		}
	case 1:
		return roleGuidance{
			priority: "HIGH PRIORITY",
			focus:    "Cover the next most important responsibilities not yet addressed.",
		}
	default:
		return roleGuidance{
			priority: "SUPPORTING",
			focus:    "Cover remaining responsibilities and show depth of experience.",
		}
	}
}

func headerPromptData(jd *types.JobDescription, resume *types.Resume) map[string]string {
	history := make([]string, 0, len(resume.Roles))
	for _, r := range resume.Roles {
		history = append(history, fmt.Sprintf("%s at %s (%s)", r.Title, r.Company, r.Dates))
	}
	return map[string]string{
		"Company":          jd.Company,
		"RoleTitle":        jd.RoleTitle,
		"Responsibilities": toJSON(jd.Responsibilities),
		"Tools":            toJSON(jd.ToolsPlatforms),
		"ToolsList":        strings.Join(jd.ToolsPlatforms, ", "),
		"Keywords":         toJSON(jd.Keywords),
		"CurrentHeadline":  resume.Headline,
		"RoleHistory":      strings.Join(history, "; "),
	}
}

func skillsPromptData(jd *types.JobDescription) map[string]string {
	reqs := make([]string, 0, len(jd.Requirements))
	for _, r := range jd.Requirements {
		reqs = append(reqs, fmt.Sprintf("[%s] %s", r.Type, r.Requirement))
	}
	return map[string]string{
		"Company":          jd.Company,
		"RoleTitle":        jd.RoleTitle,
		"Tools":            bulletLines(jd.ToolsPlatforms),
		"Keywords":         bulletLines(jd.Keywords),
		"Requirements":     bulletLines(reqs),
		"Responsibilities": bulletLines(jd.Responsibilities),
	}
}

// rolePromptData fills both the regular and the low-match role prompts
func rolePromptData(jd *types.JobDescription, role types.Role, roleIndex int, assigned, used []string, extras *types.SecondaryExtras) (map[string]string, error) {
	quota := outcome.QuotaFor(roleIndex)
	guide := guidanceFor(roleIndex)

	original := make([]string, 0, len(role.Bullets))
	for _, b := range role.Bullets {
		original = append(original, fmt.Sprintf("[%s] %s", b.ID, b.Text))
	}

	secondary := ""
	if !extras.IsEmpty() && len(extras.Metrics) > 0 {
		var err error
		secondary, err = prompts.Render(steps.PromptFile, "secondary-metrics", map[string]string{
			"Metrics": toJSON(head(extras.Metrics, promptMetricLimit)),
		})
		if err != nil {
			return nil, err
		}
	}

	return map[string]string{
		"Company":              role.Company,
		"Title":                role.Title,
		"Dates":                role.Dates,
		"TargetRole":           jd.RoleTitle,
		"TargetCompany":        jd.Company,
		"Responsibilities":     toJSON(assigned),
		"UsedResponsibilities": toJSON(used),
		"Keywords":             toJSON(head(jd.Keywords, promptKeywordLimit)),
		"Tools":                toJSON(jd.ToolsPlatforms),
		"KPIs":                 toJSON(jd.MetricsKPIs),
		"OriginalBullets":      bulletLines(original),
		"Priority":             guide.priority,
		"Focus":                guide.focus,
		"BulletCount":          fmt.Sprintf("%d-%d", quota.MinBullets, quota.MaxBullets),
		"Outcomes":             strconv.Itoa(quota.Outcomes),
		"Qualitative":          strconv.Itoa(quota.Qualitative()),
		"SecondaryMetrics":     secondary,
	}, nil
}

func reviewPromptData(jd *types.JobDescription, tr *types.TailoredResume) map[string]string {
	preliminary := struct {
		Headline string                `json:"headline"`
		Summary  []string              `json:"summary"`
		Skills   []types.SkillCategory `json:"skills"`
		Roles    []types.TailoredRole  `json:"roles"`
	}{tr.Headline, tr.Summary, tr.Skills, tr.Roles}

	return map[string]string{
		"Responsibilities": bulletLines(jd.Responsibilities),
		"TailoredResume":   toJSON(preliminary),
	}
}

func scorePromptData(jd *types.JobDescription, tr *types.TailoredResume) map[string]string {
	return map[string]string{
		"Company":          jd.Company,
		"RoleTitle":        jd.RoleTitle,
		"Level":            jd.Level,
		"Responsibilities": bulletLines(jd.Responsibilities),
		"Tools":            strings.Join(jd.ToolsPlatforms, ", "),
		"KPIs":             strings.Join(jd.MetricsKPIs, ", "),
		"ResumeText":       resumeText(tr, false),
	}
}

func rescorePromptData(jd *types.JobDescription, tr *types.TailoredResume, initial *types.ScoreResult, gaps *types.GapCoverageResult) map[string]string {
	data := scorePromptData(jd, tr)
	data["ResumeText"] = resumeText(tr, true)
	data["InitialGaps"] = bulletLines(initial.Gaps)
	var addressed []string
	if gaps != nil {
		addressed = gaps.GapsAddressed
	}
	data["GapsAddressed"] = bulletLines(addressed)
	return data
}

func coverGapsPromptData(jd *types.JobDescription, tr *types.TailoredResume, score *types.ScoreResult) map[string]string {
	var roles strings.Builder
	for i, r := range tr.Roles {
		fmt.Fprintf(&roles, "[%d] %s | %s | %s\n", i, r.Company, r.Title, r.Dates)
		for _, b := range r.Bullets {
			fmt.Fprintf(&roles, "  - %s\n", b.Text)
		}
	}
	return map[string]string{
		"Score":               strconv.Itoa(score.Score),
		"Gaps":                bulletLines(score.Gaps),
		"Recommendations":     bulletLines(score.Recommendations),
		"Company":             jd.Company,
		"RoleTitle":           jd.RoleTitle,
		"TopResponsibilities": toJSON(head(jd.Responsibilities, topResponsibilities)),
		"Tools":               strings.Join(jd.ToolsPlatforms, ", "),
		"Roles":               strings.TrimRight(roles.String(), "\n"),
	}
}

// resumeText renders a tailored resume as plain text for the scoring
// prompts. markNew prefixes gap-coverage bullets with [NEW].
func resumeText(tr *types.TailoredResume, markNew bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n", tr.Name, tr.Headline)

	sb.WriteString("\nSUMMARY\n")
	sb.WriteString(bulletLines(tr.Summary))

	sb.WriteString("\n\nSKILLS\n")
	for _, cat := range tr.Skills {
		fmt.Fprintf(&sb, "%s: %s\n", cat.Category, strings.Join(cat.Skills, ", "))
	}

	sb.WriteString("\nEXPERIENCE\n")
	for _, r := range tr.Roles {
		fmt.Fprintf(&sb, "%s | %s | %s\n", r.Title, r.Company, r.Dates)
		for _, b := range r.Bullets {
			prefix := "- "
			if markNew && b.IsGapAddition() {
				prefix = "- [NEW] "
			}
			sb.WriteString(prefix + b.Text + "\n")
		}
		sb.WriteString("\n")
	}

	if len(tr.Education) > 0 {
		sb.WriteString("EDUCATION\n")
		sb.WriteString(bulletLines(tr.Education))
		sb.WriteString("\n")
	}
	return sb.String()
}

func toJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil || string(data) == "null" {
		return "[]"
	}
	return string(data)
}

func bulletLines(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
