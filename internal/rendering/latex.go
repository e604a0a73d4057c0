package rendering

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-agent/internal/types"
)

//go:embed templates/resume.tex.tmpl
var templateFS embed.FS

const defaultTemplate = "templates/resume.tex.tmpl"

// defaultRevisionNote is shown when a flagged bullet carries no note.
const defaultRevisionNote = "confirm details"

// TemplateData is the escaped view of a tailored resume passed to the template.
type TemplateData struct {
	Name           string
	Contact        string
	Headline       string
	Summary        []string
	Skills         []SkillLine
	Roles          []RoleSection
	Education      []string
	Certifications []string
	Awards         []string
	Notes          *Notes
}

// SkillLine is one skills category rendered on a single line
type SkillLine struct {
	Category string
	Skills   string
}

// RoleSection is one role with its bullets
type RoleSection struct {
	Company string
	Title   string
	Dates   string
	Bullets []BulletLine
}

// BulletLine is a rendered bullet and its revision flag
type BulletLine struct {
	Text          string
	NeedsRevision bool
	Note          string
}

// Notes is the internal page listing review items
type Notes struct {
	ChangeLog     []string
	Questions     []string
	Gaps          []string
	RevisionCount int
}

// RenderLaTeX renders tr through the template at templatePath, or the
// built-in template when templatePath is empty. includeNotes appends a
// page with the change log, questions and gaps.
func RenderLaTeX(tr *types.TailoredResume, templatePath string, includeNotes bool) (string, error) {
	if tr == nil {
		return "", &RenderError{Message: "no resume to render"}
	}

	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, buildTemplateData(tr, includeNotes)); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}

func parseTemplate(templatePath string) (*template.Template, error) {
	var content []byte
	var err error
	if templatePath == "" {
		content, err = templateFS.ReadFile(defaultTemplate)
	} else {
		content, err = os.ReadFile(templatePath)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{Message: fmt.Sprintf("template file not found: %s", templatePath), Cause: err}
		}
		return nil, &TemplateError{Message: fmt.Sprintf("failed to read template file: %s", templatePath), Cause: err}
	}

	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
		"format": FormatText,
	}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}

func buildTemplateData(tr *types.TailoredResume, includeNotes bool) *TemplateData {
	data := &TemplateData{
		Name:           EscapeLaTeX(tr.Name),
		Contact:        joinContact(tr.Email, tr.Location),
		Headline:       FormatText(tr.Headline),
		Summary:        formatAll(tr.Summary),
		Education:      escapeLines(tr.Education),
		Certifications: formatAll(tr.Certifications),
		Awards:         formatAll(tr.Awards),
	}

	for _, cat := range tr.Skills {
		if strings.TrimSpace(cat.Category) == "" || len(cat.Skills) == 0 {
			continue
		}
		data.Skills = append(data.Skills, SkillLine{
			Category: EscapeLaTeX(cat.Category),
			Skills:   EscapeLaTeX(strings.Join(cat.Skills, ", ")),
		})
	}

	revisions := 0
	for _, r := range tr.Roles {
		section := RoleSection{
			Company: EscapeLaTeX(r.Company),
			Title:   EscapeLaTeX(r.Title),
			Dates:   EscapeLaTeX(r.Dates),
		}
		for _, b := range r.Bullets {
			line := BulletLine{Text: FormatText(b.Text), NeedsRevision: b.NeedsRevision}
			if b.NeedsRevision {
				revisions++
				note := b.RevisionNote
				if strings.TrimSpace(note) == "" {
					note = defaultRevisionNote
				}
				line.Note = EscapeLaTeX(note)
			}
			section.Bullets = append(section.Bullets, line)
		}
		data.Roles = append(data.Roles, section)
	}

	if includeNotes && (len(tr.ChangeLog)+len(tr.QuestionsForUser)+len(tr.GapsToConfirm) > 0 || revisions > 0) {
		data.Notes = &Notes{
			ChangeLog:     formatAll(tr.ChangeLog),
			Questions:     formatAll(tr.QuestionsForUser),
			Gaps:          formatAll(tr.GapsToConfirm),
			RevisionCount: revisions,
		}
	}
	return data
}

func joinContact(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, EscapeLaTeX(p))
		}
	}
	return strings.Join(kept, ` $|$ `)
}

func formatAll(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, FormatText(l))
	}
	return out
}

// escapeLines escapes each entry and turns embedded newlines into LaTeX
// line breaks; education entries are often "degree\ninstitution".
func escapeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.ReplaceAll(EscapeLaTeX(strings.TrimSpace(l)), "\n", `\\ `))
	}
	return out
}
