package pipeline

import (
	"fmt"

	"github.com/jonathan/resume-agent/internal/pipeline/steps"
)

// StageError names the stage a run failed in. The cause is kept intact so
// callers can branch on llm, selection or validation errors with errors.As.
type StageError struct {
	Stage steps.Stage
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
