package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-agent/internal/types"
)

func TestHarvestSecondary(t *testing.T) {
	primary := &types.Resume{Skills: []string{"SQL", "Meta Ads"}}
	secondary := &types.Resume{
		Skills: []string{"SQL", "Braze", "sql", "Braze"},
		Roles: []types.Role{
			{Company: "Initech", Bullets: []types.Bullet{
				{ID: "a", Text: "Grew retention 12%"},
				{ID: "b", Text: "Owned lifecycle messaging"},
				{ID: "c", Text: "Managed $50K budget"},
				{ID: "d", Text: "Ran 3 markets"},
			}},
		},
	}

	extras := harvestSecondary(primary, secondary, "CRM")
	assert.Equal(t, "CRM", extras.Label)
	assert.Equal(t, []string{"Braze", "sql"}, extras.Skills)
	assert.Equal(t, []types.MetricBullet{
		{Company: "Initech", Text: "Grew retention 12%"},
		{Company: "Initech", Text: "Managed $50K budget"},
		{Company: "Initech", Text: "Ran 3 markets"},
	}, extras.Metrics)
	assert.False(t, extras.IsEmpty())
}

func TestHarvestSecondary_SkipsMetricsThePrimaryStates(t *testing.T) {
	primary := &types.Resume{
		Roles: []types.Role{
			{Company: "Initech", Bullets: []types.Bullet{
				{ID: "p1", Text: "Grew retention 12%"},
				{ID: "p2", Text: "Managed  $50K budget "},
			}},
		},
	}
	secondary := &types.Resume{
		Roles: []types.Role{
			{Company: "Initech", Bullets: []types.Bullet{
				{ID: "s1", Text: "Grew retention 12%"},
				{ID: "s2", Text: "managed $50k budget"},
				{ID: "s3", Text: "Cut churn 8% with Braze journeys"},
			}},
			{Company: "Globex", Bullets: []types.Bullet{
				{ID: "s4", Text: "Cut churn 8% with Braze journeys"},
			}},
		},
	}

	extras := harvestSecondary(primary, secondary, "CRM")
	assert.Equal(t, []types.MetricBullet{
		{Company: "Initech", Text: "Cut churn 8% with Braze journeys"},
	}, extras.Metrics)
}

func TestToTailoredRole(t *testing.T) {
	original := types.Role{Company: "Acme", Title: "Manager", Dates: "2020 - 2022"}

	tests := []struct {
		name        string
		company     string
		lowMatch    bool
		wantWarning bool
	}{
		{name: "kept", company: "Acme"},
		{name: "corrected", company: "ACME Corp", wantWarning: true},
		{name: "low match", company: "Acme", lowMatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &types.RoleOutput{
				Company: tt.company,
				Title:   "Senior Manager",
				Dates:   "2020 - 2023",
				Bullets: []types.TailoredBullet{
					{Text: "Increased ROAS by 35%"},
					{Text: "Invented thing", NeedsRevision: true, RevisionNote: "verify scope"},
				},
			}

			role, warning := toTailoredRole(out, original, 2, tt.lowMatch)
			assert.Equal(t, "Acme", role.Company)
			assert.Equal(t, "Senior Manager", role.Title)
			assert.Equal(t, "2020 - 2023", role.Dates)

			if tt.wantWarning {
				require.NotNil(t, warning)
				assert.Equal(t, types.WarningCompanyCorrected, warning.Kind)
				assert.Equal(t, 2, warning.RoleIndex)
				assert.Contains(t, warning.Message, `"ACME Corp"`)
			} else {
				assert.Nil(t, warning)
			}

			assert.Equal(t, tt.lowMatch, role.Bullets[0].NeedsRevision)
			assert.True(t, role.Bullets[1].NeedsRevision)
			assert.Equal(t, "verify scope", role.Bullets[1].RevisionNote)
			if tt.lowMatch {
				assert.Equal(t, lowMatchRevisionNote, role.Bullets[0].RevisionNote)
			}
		})
	}
}

func TestMergeGapCoverage(t *testing.T) {
	tr := &types.TailoredResume{Roles: []types.TailoredRole{
		{Company: "Acme", Bullets: []types.TailoredBullet{{Text: "Existing A", SourceBulletIDs: []string{"b1"}}}},
		{Company: "Globex", Bullets: []types.TailoredBullet{{Text: "Existing B"}}},
	}}
	gc := &types.GapCoverageResult{RolesWithAdditions: []types.GapRole{
		{RoleIndex: 0, Bullets: []types.GapBullet{
			{Text: "Built attribution model **(added to cover gaps)**", IsNew: true, RevisionNote: "confirm tool"},
			{Text: "Existing A rewritten", IsNew: false},
		}},
		{RoleIndex: 1, Bullets: []types.GapBullet{{Text: "Led SQL training", IsNew: true, NeedsRevision: false}}},
		{RoleIndex: 2, Bullets: []types.GapBullet{{Text: "Lost", IsNew: true}}},
		{RoleIndex: -1, Bullets: []types.GapBullet{{Text: "Also lost", IsNew: true}}},
	}}

	added, warnings := mergeGapCoverage(tr, gc)
	assert.Equal(t, 2, added)
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, types.WarningGapIgnored, w.Kind)
	}

	require.Len(t, tr.Roles[0].Bullets, 2)
	assert.Equal(t, types.TailoredBullet{Text: "Existing A", SourceBulletIDs: []string{"b1"}}, tr.Roles[0].Bullets[0])
	assert.Equal(t, types.TailoredBullet{
		Text:            "Built attribution model **(added to cover gaps)**",
		SourceBulletIDs: []string{},
		NeedsRevision:   true,
		RevisionNote:    "confirm tool",
	}, tr.Roles[0].Bullets[1])

	require.Len(t, tr.Roles[1].Bullets, 2)
	assert.Equal(t, "Led SQL training **(added to cover gaps)**", tr.Roles[1].Bullets[1].Text)
	assert.True(t, tr.Roles[1].Bullets[1].NeedsRevision)
	assert.Equal(t, gapRevisionNote, tr.Roles[1].Bullets[1].RevisionNote)
	assert.True(t, tr.Roles[1].Bullets[1].IsGapAddition())
}

func TestRevisionSummary(t *testing.T) {
	assert.Nil(t, RevisionSummary(nil))

	tr := &types.TailoredResume{Roles: []types.TailoredRole{
		{Company: "Acme", Bullets: []types.TailoredBullet{
			{Text: "ok"},
			{Text: "check me", NeedsRevision: true, RevisionNote: "confirm %"},
		}},
		{Company: "Globex", Bullets: []types.TailoredBullet{{Text: "also", NeedsRevision: true}}},
	}}

	assert.Equal(t, []RevisionItem{
		{RoleIndex: 0, Company: "Acme", BulletIndex: 1, Text: "check me", Note: "confirm %"},
		{RoleIndex: 1, Company: "Globex", BulletIndex: 0, Text: "also"},
	}, RevisionSummary(tr))
}
