package db

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-agent/internal/pipeline/steps"
	"github.com/jonathan/resume-agent/internal/types"
)

type runRecord struct {
	Company     string
	RoleTitle   string
	JobSource   string
	PrimaryID   string
	SecondaryID *string
	IsLowMatch  bool
	Score       *int
	FinalScore  *int
	Status      string
}

type artifactRow struct {
	Step     string
	Category string
	Content  []byte
}

func runRow(out *types.RunOutput) runRecord {
	rec := runRecord{
		Company:    out.TargetCompany,
		RoleTitle:  out.TargetRole,
		PrimaryID:  out.Selection.PrimaryID,
		IsLowMatch: out.Selection.IsLowMatch,
		Status:     RunStatusCompleted,
	}
	if out.Job != nil {
		if rec.Company == "" {
			rec.Company = out.Job.Company
		}
		if rec.RoleTitle == "" {
			rec.RoleTitle = out.Job.RoleTitle
		}
	}
	if out.Source != nil {
		rec.JobSource = out.Source.Location
	}
	if id := out.Selection.SecondaryID; id != "" {
		rec.SecondaryID = &id
	}
	if out.Score != nil {
		s := out.Score.Score
		rec.Score = &s
	}
	if out.FinalScore != nil {
		s := out.FinalScore.Score
		rec.FinalScore = &s
	}
	return rec
}

// runArtifacts splits a run into per-step JSON documents. Absent optional
// sections produce no row.
func runArtifacts(out *types.RunOutput) ([]artifactRow, error) {
	candidates := []struct {
		step     string
		category string
		present  bool
		content  any
	}{
		{StepSource, steps.CategoryExtraction, out.Source != nil, out.Source},
		{StepJob, steps.CategoryExtraction, out.Job != nil, out.Job},
		{StepSelection, steps.CategorySelection, true, out.Selection},
		{StepTailoredResume, steps.CategoryTailoring, true, out.TailoredResume},
		{StepWarnings, steps.CategoryValidation, true, warningsOrEmpty(out.Warnings)},
		{StepKeywordCoverage, steps.CategoryValidation, out.KeywordCoverage != nil, out.KeywordCoverage},
		{StepScore, steps.CategoryScoring, out.Score != nil, out.Score},
		{StepGapCoverage, steps.CategoryScoring, out.GapCoverage != nil, out.GapCoverage},
		{StepFinalScore, steps.CategoryScoring, out.FinalScore != nil, out.FinalScore},
	}

	var rows []artifactRow
	for _, c := range candidates {
		if !c.present {
			continue
		}
		b, err := json.Marshal(c.content)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal artifact %s: %w", c.step, err)
		}
		rows = append(rows, artifactRow{Step: c.step, Category: c.category, Content: b})
	}
	return rows, nil
}

func warningsOrEmpty(w []types.Warning) []types.Warning {
	if w == nil {
		return []types.Warning{}
	}
	return w
}

// runSteps turns stage timings into step rows. Optional stages the run
// never entered are recorded as skipped at the generation time.
func runSteps(out *types.RunOutput) []RunStep {
	seen := make(map[string]bool, len(out.Timings))
	var rows []RunStep
	for _, t := range out.Timings {
		category := ""
		if def, ok := steps.Lookup(t.Stage); ok {
			category = def.Category
		}
		seen[t.Stage] = true
		rows = append(rows, RunStep{
			Step:       t.Stage,
			Category:   category,
			Status:     StepStatusCompleted,
			StartedAt:  t.StartedAt,
			DurationMS: t.DurationMS,
		})
	}
	if len(rows) == 0 {
		return rows
	}
	for _, def := range steps.Registry {
		if def.Optional && !seen[def.Name] {
			rows = append(rows, RunStep{
				Step:      def.Name,
				Category:  def.Category,
				Status:    StepStatusSkipped,
				StartedAt: out.GeneratedAt,
			})
		}
	}
	return rows
}
