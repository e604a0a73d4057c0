package db

import (
	"time"

	"github.com/google/uuid"
)

// Run is a persisted pipeline run
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Company     string     `json:"company"`
	RoleTitle   string     `json:"role_title"`
	JobSource   string     `json:"job_source"`
	PrimaryID   string     `json:"primary_id"`
	SecondaryID *string    `json:"secondary_id,omitempty"`
	IsLowMatch  bool       `json:"is_low_match"`
	Score       *int       `json:"score,omitempty"`
	FinalScore  *int       `json:"final_score,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run statuses
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Artifact steps written for every run
const (
	StepJob             = "job"
	StepSource          = "source"
	StepSelection       = "selection"
	StepTailoredResume  = "tailored_resume"
	StepScore           = "score"
	StepGapCoverage     = "gap_coverage"
	StepFinalScore      = "final_score"
	StepKeywordCoverage = "keyword_coverage"
	StepWarnings        = "warnings"
)

// Step statuses
const (
	StepStatusCompleted = "completed"
	StepStatusSkipped   = "skipped"
)

// Artifact is one JSON document stored for a run
type Artifact struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Step      string    `json:"step"`
	Category  string    `json:"category"`
	Content   []byte    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RunStep is the timing record of one pipeline stage
type RunStep struct {
	RunID      uuid.UUID `json:"run_id"`
	Step       string    `json:"step"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

// RunFilters holds optional filters for listing runs
type RunFilters struct {
	Company string
	Status  string
	Limit   int
}
