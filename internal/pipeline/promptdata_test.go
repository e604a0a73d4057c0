package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-agent/internal/pipeline/steps"
	"github.com/jonathan/resume-agent/internal/prompts"
	"github.com/jonathan/resume-agent/internal/types"
)

func testJob() *types.JobDescription {
	return &types.JobDescription{
		Company:          "Rovio",
		RoleTitle:        "Head of UA",
		Level:            "Senior",
		Responsibilities: []string{"Own ROAS", "Scale channels"},
		Requirements:     []types.Requirement{{Requirement: "SQL", Type: types.RequirementMust}},
		ToolsPlatforms:   []string{"Meta Ads", "Looker"},
		MetricsKPIs:      []string{"ROAS"},
		Keywords:         []string{"UA"},
	}
}

func TestPromptData_FillsEveryPlaceholder(t *testing.T) {
	jd := testJob()
	resume := &types.Resume{Headline: "UA Manager", Roles: []types.Role{{Company: "Acme", Title: "Manager", Dates: "2020"}}}
	tr := &types.TailoredResume{Name: "Jane", Roles: []types.TailoredRole{{Company: "Acme"}}}
	score := &types.ScoreResult{Score: 60, Gaps: []string{"SQL"}}

	role, err := rolePromptData(jd, resume.Roles[0], 0, []string{"Own ROAS"}, nil, nil)
	require.NoError(t, err)

	tests := []struct {
		key  string
		data map[string]string
	}{
		{key: "tailor-header", data: headerPromptData(jd, resume)},
		{key: "tailor-skills", data: skillsPromptData(jd)},
		{key: "tailor-role", data: role},
		{key: steps.LowMatchRolePrompt, data: role},
		{key: "final-review", data: reviewPromptData(jd, tr)},
		{key: "score-resume", data: scorePromptData(jd, tr)},
		{key: "cover-gaps", data: coverGapsPromptData(jd, tr, score)},
		{key: "rescore-resume", data: rescorePromptData(jd, tr, score, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			prompt, err := prompts.Render(steps.PromptFile, tt.key, tt.data)
			require.NoError(t, err)
			assert.NotContains(t, prompt, "{{.")
		})
	}
}

func TestRolePromptData_Quotas(t *testing.T) {
	jd := testJob()
	tests := []struct {
		index       int
		bullets     string
		outcomes    string
		qualitative string
		priority    string
	}{
		{index: 0, bullets: "6-7", outcomes: "4", qualitative: "3", priority: "TOP PRIORITY"},
		{index: 1, bullets: "5-6", outcomes: "3", qualitative: "3", priority: "HIGH PRIORITY"},
		{index: 4, bullets: "4-5", outcomes: "3", qualitative: "2", priority: "SUPPORTING"},
	}

	for _, tt := range tests {
		t.Run(tt.priority, func(t *testing.T) {
			data, err := rolePromptData(jd, types.Role{Company: "Acme"}, tt.index, nil, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.bullets, data["BulletCount"])
			assert.Equal(t, tt.outcomes, data["Outcomes"])
			assert.Equal(t, tt.qualitative, data["Qualitative"])
			assert.Equal(t, tt.priority, data["Priority"])
			assert.Equal(t, "[]", data["Responsibilities"])
			assert.Empty(t, data["SecondaryMetrics"])
		})
	}
}

func TestRolePromptData_SecondaryMetricsCapped(t *testing.T) {
	extras := &types.SecondaryExtras{}
	for i := 0; i < 15; i++ {
		extras.Metrics = append(extras.Metrics, types.MetricBullet{Company: "Initech", Text: fmt.Sprintf("metric %d", i)})
	}

	data, err := rolePromptData(testJob(), types.Role{Company: "Acme"}, 0, nil, nil, extras)
	require.NoError(t, err)
	assert.Contains(t, data["SecondaryMetrics"], "metric 9")
	assert.NotContains(t, data["SecondaryMetrics"], "metric 10")
}

func TestResumeText(t *testing.T) {
	tr := &types.TailoredResume{
		Name:     "Jane",
		Headline: "Head of UA",
		Summary:  []string{"Growth lead"},
		Skills:   []types.SkillCategory{{Category: "Paid", Skills: []string{"Meta", "TikTok"}}},
		Roles: []types.TailoredRole{{Company: "Acme", Title: "Lead", Dates: "2020", Bullets: []types.TailoredBullet{
			{Text: "Grew installs 40%"},
			{Text: "Ran MMM study **(added to cover gaps)**"},
		}}},
		Education: []string{"BBA"},
	}

	plain := resumeText(tr, false)
	assert.Contains(t, plain, "Paid: Meta, TikTok")
	assert.Contains(t, plain, "Lead | Acme | 2020")
	assert.Contains(t, plain, "- Ran MMM study")
	assert.NotContains(t, plain, "[NEW]")
	assert.Contains(t, plain, "EDUCATION\n- BBA")

	marked := resumeText(tr, true)
	assert.Contains(t, marked, "- Grew installs 40%")
	assert.Contains(t, marked, "- [NEW] Ran MMM study")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "(none)", bulletLines(nil))
	assert.Equal(t, "- a\n- b", bulletLines([]string{"a", "b"}))
	assert.Equal(t, "[]", toJSON(nil))
	assert.Equal(t, []int{1, 2}, head([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1}, head([]int{1}, 2))
}
