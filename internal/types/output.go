// Package types provides type definitions for structured data used throughout the resume-agent pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// ResumeCandidate is an entry of the static resume index
type ResumeCandidate struct {
	ID       string   `json:"id" validate:"required"`
	Path     string   `json:"path" validate:"required"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// CandidateScore is a candidate's keyword score against one job description
type CandidateScore struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SelectionSummary records which base resumes a run used
type SelectionSummary struct {
	PrimaryID      string           `json:"primary_id"`
	PrimaryLabel   string           `json:"primary_label"`
	SecondaryID    string           `json:"secondary_id,omitempty"`
	SecondaryLabel string           `json:"secondary_label,omitempty"`
	IsLowMatch     bool             `json:"is_low_match"`
	Scores         []CandidateScore `json:"scores"`
}

// Warning kinds produced by the validator and pipeline
const (
	WarningProvenance          = "provenance"
	WarningSkillDrift          = "skill_drift"
	WarningOutcomeDistribution = "outcome_distribution"
	WarningCompanyCorrected    = "company_corrected"
	WarningGapIgnored          = "gap_ignored"
)

// Warning is an advisory finding that never aborts a run.
// RoleIndex is -1 when the warning is not tied to a role.
type Warning struct {
	Kind      string `json:"kind"`
	RoleIndex int    `json:"role_index"`
	Message   string `json:"message"`
}

// KeywordGroup is coverage for one group of JD terms
type KeywordGroup struct {
	Name    string   `json:"name"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
	Rate    float64  `json:"rate"`
}

// KeywordCoverage reports how many JD terms the tailored text covers
type KeywordCoverage struct {
	Groups      []KeywordGroup `json:"groups"`
	OverallRate float64        `json:"overall_rate"`
}

// Job source kinds
const (
	SourceURL  = "url"
	SourceS3   = "s3"
	SourceFile = "file"
)

// JobSource describes where the job description text was loaded from
type JobSource struct {
	Location string    `json:"location"`
	Kind     string    `json:"kind"`
	Platform string    `json:"platform,omitempty"`
	Hash     string    `json:"hash"`
	Chars    int       `json:"chars"`
	LoadedAt time.Time `json:"loaded_at"`
}

// StageTiming records how long a pipeline stage took
type StageTiming struct {
	Stage      string    `json:"stage"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

// RunOutput is the single record persisted at the end of a successful run.
// The tailored resume fields are flattened to the top level.
type RunOutput struct {
	TailoredResume

	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Source          *JobSource         `json:"source,omitempty"`
	Selection       SelectionSummary   `json:"selection"`
	Job             *JobDescription    `json:"job,omitempty"`
	Score           *ScoreResult       `json:"score"`
	GapCoverage     *GapCoverageResult `json:"gap_coverage,omitempty"`
	FinalScore      *ScoreResult       `json:"final_score,omitempty"`
	KeywordCoverage *KeywordCoverage   `json:"keyword_coverage,omitempty"`
	Warnings        []Warning          `json:"warnings"`
	Timings         []StageTiming      `json:"timings,omitempty"`
}

// LatestScore returns the final score when present, otherwise the initial one
func (o *RunOutput) LatestScore() *ScoreResult {
	if o.FinalScore != nil {
		return o.FinalScore
	}
	return o.Score
}
