package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-agent/internal/oracle"
	"github.com/jonathan/resume-agent/internal/types"
)

const testJobText = `We are hiring a Head of User Acquisition for mobile games.
You will own ROAS targets, build SQL dashboards and scale paid channels.`

const jobJSON = `{
  "company": "Rovio",
  "role_title": "Head of User Acquisition",
  "level": "Senior",
  "location": "Remote",
  "responsibilities": [
    "Own ROAS targets", "Scale paid channels", "Build SQL dashboards",
    "Manage creative testing", "Lead a team of 3", "Forecast budgets", "Report to the CMO"
  ],
  "requirements": [
    {"requirement": "5+ years UA", "type": "must"},
    {"requirement": "Gaming background", "type": "nice"}
  ],
  "tools_platforms": ["Meta Ads", "Looker"],
  "metrics_kpis": ["ROAS", "LTV"],
  "keywords": ["user acquisition", "ROAS"]
}`

const primaryResumeJSON = `{
  "name": "Jane Doe",
  "email": "jane@example.com",
  "location": "Austin, TX",
  "headline": "UA Manager",
  "summary": ["Growth marketer"],
  "skills": ["SQL", "Meta Ads"],
  "roles": [
    {"company": "Acme", "title": "UA Manager", "dates": "2021 - Present", "bullets": [
      {"id": "r0b0", "text": "Scaled Meta spend to $2M/month", "has_metric": true},
      {"id": "r0b1", "text": "Led creative testing", "has_metric": false}
    ]},
    {"company": "Globex", "title": "Growth Analyst", "dates": "2018 - 2021", "bullets": [
      {"id": "r1b0", "text": "Built LTV model in SQL", "has_metric": false}
    ]}
  ],
  "education": ["BBA Marketing\nUT Austin"],
  "certifications": [],
  "awards": []
}`

const secondaryResumeJSON = `{
  "name": "Jane Doe",
  "skills": ["SQL", "Braze"],
  "roles": [
    {"company": "Initech", "title": "CRM Lead", "dates": "2015 - 2018", "bullets": [
      {"id": "s0", "text": "Grew retention 12%"},
      {"id": "s1", "text": "Owned lifecycle messaging"}
    ]}
  ]
}`

const headerJSON = `{"headline": "Head of User Acquisition", "summary": ["8 years in mobile growth", "Owned ROAS targets"]}`

const skillsJSON = `{
  "skills": [{"category": "Paid Media", "skills": ["Meta Ads", "Looker"]}],
  "ats_keywords_used": ["ROAS"],
  "coverage_notes": "2 required skills covered"
}`

const reviewJSON = `{"gaps_to_confirm": ["Team size"], "questions_for_user": ["Budget owned?"], "change_log": ["Rewrote summary"]}`

const scoreJSON = `{"score": 62, "score_rationale": "solid", "gaps": ["No SQL depth"], "recommendations": ["Add SQL work"]}`

const noGapScoreJSON = `{"score": 81, "score_rationale": "strong", "gaps": [], "recommendations": []}`

const rescoreJSON = `{"score": 74, "score_rationale": "better", "gaps": [], "recommendations": []}`

const coverGapsJSON = `{
  "roles_with_additions": [
    {"role_index": 1, "company": "Globex", "title": "Growth Analyst", "dates": "2018 - 2021", "bullets": [
      {"text": "Automated cohort reporting in SQL", "is_new": true, "needs_revision": false},
      {"text": "Built LTV model in SQL", "is_new": false}
    ]}
  ],
  "gaps_addressed": ["No SQL depth"],
  "gaps_not_addressable": ["Team size"]
}`

func roleJSON(company, title, dates string, covered ...string) string {
	coveredJSON := "[]"
	if len(covered) > 0 {
		coveredJSON = toJSON(covered)
	}
	return fmt.Sprintf(`{
  "company": %q, "title": %q, "dates": %q,
  "bullets": [
    {"text": "Increased ROAS by 35%%", "source_bullet_ids": ["r0b0"], "needs_revision": false, "revision_note": null},
    {"text": "Partnered with product teams to align strategy", "source_bullet_ids": [], "needs_revision": false}
  ],
  "responsibilities_covered": %s
}`, company, title, dates, coveredJSON)
}

func testCandidates() []types.ResumeCandidate {
	return []types.ResumeCandidate{
		{ID: "ua", Path: "resumes/ua.pdf", Label: "User Acquisition", Keywords: []string{"user acquisition", "ROAS", "SQL", "mobile games"}},
		{ID: "brand", Path: "resumes/brand.pdf", Label: "Brand", Keywords: []string{"user acquisition", "ROAS", "SQL", "mobile marketing"}},
	}
}

// scriptedOracle returns a fake scripted for a full run with gaps
func scriptedOracle() *oracle.Fake {
	return oracle.NewFake().
		Respond("extract_job", jobJSON).
		Respond("extract_resume", primaryResumeJSON, secondaryResumeJSON).
		Respond("tailor_header", headerJSON).
		Respond("tailor_skills", skillsJSON).
		Respond("tailor_roles",
			roleJSON("Acme Inc", "Head of UA", "2021 - Present", "Own ROAS targets"),
			roleJSON("Globex", "Growth Analyst", "2018 - 2021")).
		Respond("final_review", reviewJSON).
		Respond("score", scoreJSON).
		Respond("cover_gaps", coverGapsJSON).
		Respond("rescore", rescoreJSON)
}

type fakeDocs struct {
	texts map[string]string
	calls []string
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{texts: map[string]string{
		"resumes/ua.pdf":    "Jane Doe\nUA Manager at Acme, 2019-2024\nScaled Meta and TikTok spend to $2M/month at 1.4x ROAS",
		"resumes/brand.pdf": "Jane Doe\nCRM Lead at Initech, 2016-2019\nBuilt lifecycle journeys in Braze that cut churn 8%",
	}}
}

func (d *fakeDocs) Extract(_ context.Context, path string) (string, error) {
	d.calls = append(d.calls, path)
	text, ok := d.texts[path]
	if !ok {
		return "", fmt.Errorf("document %s not found", path)
	}
	return text, nil
}

// stepClock advances 10ms on every call
func stepClock() func() time.Time {
	t := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		t = t.Add(10 * time.Millisecond)
		return t
	}
}

func newTestPipeline(o oracle.Oracle, docs DocumentExtractor, opts ...Option) *Pipeline {
	base := []Option{
		WithClock(stepClock()),
		WithIDGenerator(func() string { return "run-1" }),
	}
	return New(o, docs, append(base, opts...)...)
}
