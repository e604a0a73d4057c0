package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/docs/v1"

	"github.com/jonathan/resume-agent/internal/config"
	"github.com/jonathan/resume-agent/internal/oracle"
	"github.com/jonathan/resume-agent/internal/rendering"
)

const testJobText = `We are hiring a Head of User Acquisition for mobile games.
You will own ROAS targets, build SQL dashboards and scale paid channels across
Meta and TikTok while partnering closely with the creative and analytics teams.`

const testJobJSON = `{
  "company": "Rovio",
  "role_title": "Head of User Acquisition",
  "level": "Senior",
  "location": "Remote",
  "responsibilities": ["Own ROAS targets", "Scale paid channels", "Build SQL dashboards"],
  "requirements": [
    {"requirement": "5+ years UA", "type": "must"},
    {"requirement": "Gaming background", "type": "nice"}
  ],
  "tools_platforms": ["Meta Ads", "Looker"],
  "metrics_kpis": ["ROAS"],
  "keywords": ["user acquisition", "ROAS"]
}`

const testResumeJSON = `{
  "name": "Jane Doe",
  "email": "jane@example.com",
  "location": "Austin, TX",
  "headline": "UA Manager",
  "summary": ["Growth marketer"],
  "skills": ["SQL", "Meta Ads"],
  "roles": [
    {"company": "Acme", "title": "UA Manager", "dates": "2021 - Present", "bullets": [
      {"id": "r0b0", "text": "Scaled Meta spend to $2M/month", "has_metric": true}
    ]},
    {"company": "Globex", "title": "Growth Analyst", "dates": "2018 - 2021", "bullets": [
      {"id": "r1b0", "text": "Built LTV model in SQL", "has_metric": false}
    ]}
  ],
  "education": ["BBA Marketing"],
  "certifications": [],
  "awards": []
}`

func testRoleJSON(company, title, dates string) string {
	return fmt.Sprintf(`{
  "company": %q, "title": %q, "dates": %q,
  "bullets": [
    {"text": "Increased ROAS by 35%%", "source_bullet_ids": ["r0b0"], "needs_revision": false},
    {"text": "Partnered with product teams to align strategy", "source_bullet_ids": [], "needs_revision": false}
  ],
  "responsibilities_covered": []
}`, company, title, dates)
}

// scriptedRunOracle returns a fake scripted for a full run with one gap
func scriptedRunOracle() *oracle.Fake {
	return oracle.NewFake().
		Respond("extract_job", testJobJSON).
		Respond("extract_resume", testResumeJSON).
		Respond("tailor_header", `{"headline": "Head of User Acquisition", "summary": ["8 years in mobile growth"]}`).
		Respond("tailor_skills", `{"skills": [{"category": "Paid Media", "skills": ["Meta Ads", "SQL"]}], "ats_keywords_used": ["ROAS"], "coverage_notes": ""}`).
		Respond("tailor_roles",
			testRoleJSON("Acme", "Head of UA", "2021 - Present"),
			testRoleJSON("Globex", "Growth Analyst", "2018 - 2021")).
		Respond("final_review", `{"gaps_to_confirm": [], "questions_for_user": [], "change_log": ["Rewrote summary"]}`).
		Respond("score", `{"score": 62, "score_rationale": "solid", "gaps": ["No Looker"], "recommendations": []}`).
		Respond("cover_gaps", `{
  "roles_with_additions": [{"role_index": 1, "company": "Globex", "title": "Growth Analyst", "dates": "2018 - 2021",
    "bullets": [{"text": "Built Looker dashboards for cohort ROAS", "is_new": true, "needs_revision": false}]}],
  "gaps_addressed": ["No Looker"],
  "gaps_not_addressable": []
}`).
		Respond("rescore", `{"score": 74, "score_rationale": "better", "gaps": [], "recommendations": []}`)
}

// withOracle swaps the oracle constructor for the duration of a test
func withOracle(t *testing.T, o oracle.Oracle) {
	t.Helper()
	orig := newOracle
	newOracle = func(context.Context, config.Config, *zap.Logger) (oracle.Oracle, func(), error) {
		return o, func() {}, nil
	}
	t.Cleanup(func() { newOracle = orig })
}

// docsRecorder stands in for the Google Docs API
type docsRecorder struct {
	titles   []string
	requests int
}

func (d *docsRecorder) Create(_ context.Context, title string) (string, error) {
	d.titles = append(d.titles, title)
	return fmt.Sprintf("doc-%d", len(d.titles)), nil
}

func (d *docsRecorder) BatchUpdate(_ context.Context, _ string, requests []*docs.Request) error {
	d.requests += len(requests)
	return nil
}

// withDocs swaps the Google Docs constructor for the duration of a test
// and records the config it was built from.
func withDocs(t *testing.T, api rendering.DocsAPI) *config.Config {
	t.Helper()
	orig := newDocsAPI
	var seen config.Config
	newDocsAPI = func(_ context.Context, cfg config.Config) (rendering.DocsAPI, error) {
		seen = cfg
		return api, nil
	}
	t.Cleanup(func() { newDocsAPI = orig })
	return &seen
}

type workspace struct {
	dir   string
	index string
	job   string
}

// newWorkspace writes a resume index with two text resumes and a job file
func newWorkspace(t *testing.T) workspace {
	t.Helper()
	t.Setenv("RESUME_INDEX", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("S3_ENDPOINT", "")

	dir := t.TempDir()
	files := map[string]string{
		"resumes/ua.txt":    "Jane Doe\nUA Manager at Acme\nScaled Meta spend to $2M/month",
		"resumes/brand.txt": "Jane Doe\nBrand Lead at Initech\nRan seasonal campaigns for luxury retail partners",
		"job.txt":           testJobText,
		"resumes/index.json": `[
			{"id": "ua", "path": "ua.txt", "label": "User Acquisition", "keywords": ["user acquisition", "ROAS", "SQL", "mobile games"]},
			{"id": "brand", "path": "brand.txt", "label": "Brand", "keywords": ["luxury retail", "fashion"]}
		]`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return workspace{
		dir:   dir,
		index: filepath.Join(dir, "resumes", "index.json"),
		job:   filepath.Join(dir, "job.txt"),
	}
}

// executeCommand runs a fresh command tree in-process and returns stdout
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
