package rendering

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/resume-agent/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() *types.TailoredResume {
	return &types.TailoredResume{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Location: "Austin, TX",
		Headline: "Growth Marketing Lead",
		Summary:  []string{"8 years in mobile gaming & fintech growth"},
		Skills: []types.SkillCategory{
			{Category: "Paid Media", Skills: []string{"Meta Ads", "Google Ads"}},
			{Category: "Empty", Skills: nil},
		},
		Roles: []types.TailoredRole{
			{
				Company: "Acme & Co",
				Title:   "Head of UA",
				Dates:   "2021 -- Present",
				Bullets: []types.TailoredBullet{
					{Text: "Increased ROAS by 35%"},
					{Text: "Built LTV model **(added to cover gaps)**", NeedsRevision: true},
				},
			},
		},
		Education:     []string{"BBA Marketing\nUT Austin"},
		ChangeLog:     []string{"Reframed summary"},
		GapsToConfirm: []string{"SQL depth"},
	}
}

func TestParseTemplate(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.tex")
	require.NoError(t, os.WriteFile(valid, []byte(`Name: {{.Name}}`), 0o644))
	invalid := filepath.Join(dir, "invalid.tex")
	require.NoError(t, os.WriteFile(invalid, []byte(`{{.Broken{{}}`), 0o644))

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{name: "built-in", path: ""},
		{name: "custom", path: valid},
		{name: "missing", path: filepath.Join(dir, "nope.tex"), wantMsg: "template file not found"},
		{name: "invalid syntax", path: invalid, wantMsg: "failed to parse template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := parseTemplate(tt.path)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.NotNil(t, tmpl)
				return
			}
			var templateErr *TemplateError
			require.ErrorAs(t, err, &templateErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestBuildTemplateData(t *testing.T) {
	data := buildTemplateData(sampleResume(), true)

	assert.Equal(t, "Jane Doe", data.Name)
	assert.Equal(t, `jane@example.com $|$ Austin, TX`, data.Contact)
	assert.Equal(t, []string{`8 years in mobile gaming \& fintech growth`}, data.Summary)
	require.Len(t, data.Skills, 1)
	assert.Equal(t, SkillLine{Category: "Paid Media", Skills: "Meta Ads, Google Ads"}, data.Skills[0])

	require.Len(t, data.Roles, 1)
	role := data.Roles[0]
	assert.Equal(t, `Acme \& Co`, role.Company)
	assert.Equal(t, `Increased ROAS by 35\%`, role.Bullets[0].Text)
	assert.False(t, role.Bullets[0].NeedsRevision)
	assert.Equal(t, `Built LTV model \textbf{(added to cover gaps)}`, role.Bullets[1].Text)
	assert.Equal(t, defaultRevisionNote, role.Bullets[1].Note)

	assert.Equal(t, []string{`BBA Marketing\\ UT Austin`}, data.Education)

	require.NotNil(t, data.Notes)
	assert.Equal(t, 1, data.Notes.RevisionCount)
	assert.Equal(t, []string{"SQL depth"}, data.Notes.Gaps)
}

func TestBuildTemplateData_NoNotes(t *testing.T) {
	assert.Nil(t, buildTemplateData(sampleResume(), false).Notes)

	bare := &types.TailoredResume{Roles: []types.TailoredRole{{Company: "Acme", Bullets: []types.TailoredBullet{{Text: "x"}}}}}
	assert.Nil(t, buildTemplateData(bare, true).Notes)
}

func TestRenderLaTeX_BuiltInTemplate(t *testing.T) {
	tex, err := RenderLaTeX(sampleResume(), "", true)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tex, `\documentclass`))
	assert.Contains(t, tex, `{\LARGE\bfseries Jane Doe}`)
	assert.Contains(t, tex, `\textbf{Paid Media:} Meta Ads, Google Ads`)
	assert.Contains(t, tex, `\textbf{Head of UA} \hfill 2021 -- Present`)
	assert.Contains(t, tex, `\item Increased ROAS by 35\%`)
	assert.Contains(t, tex, `\textcolor{red}{\textit{[Revision needed: confirm details]}}`)
	assert.Contains(t, tex, `\section*{Notes (internal)}`)
	assert.Contains(t, tex, `1 bullet(s) flagged for revision.`)
	assert.NotContains(t, tex, `\section*{Awards}`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(tex), `\end{document}`))
}

func TestRenderLaTeX_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.tex")
	require.NoError(t, os.WriteFile(path, []byte(`{{.Name}}|{{range .Roles}}{{.Company}};{{end}}`), 0o644))

	tex, err := RenderLaTeX(sampleResume(), path, false)
	require.NoError(t, err)
	assert.Equal(t, `Jane Doe|Acme \& Co;`, tex)
}

func TestRenderLaTeX_Errors(t *testing.T) {
	_, err := RenderLaTeX(nil, "", false)
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)

	path := filepath.Join(t.TempDir(), "bad.tex")
	require.NoError(t, os.WriteFile(path, []byte(`{{.Missing.Field}}`), 0o644))
	_, err = RenderLaTeX(sampleResume(), path, false)
	var templateErr *TemplateError
	assert.ErrorAs(t, err, &templateErr)
}
