// Package steps defines the ordered stages of a tailoring run and the
// metadata attached to each one.
package steps

import (
	"fmt"

	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/prompts"
	"github.com/jonathan/resume-agent/internal/schemas"
)

// Stage is one step of a run. Stages execute strictly in declaration order.
type Stage int

// Stages, in execution order
const (
	SelectCandidates Stage = iota
	ExtractJob
	ExtractResume
	TailorHeader
	TailorSkills
	TailorRoles
	FinalReview
	Assemble
	Validate
	Score
	CoverGaps
	Rescore
)

// Stage categories
const (
	CategorySelection  = "selection"
	CategoryExtraction = "extraction"
	CategoryTailoring  = "tailoring"
	CategoryValidation = "validation"
	CategoryScoring    = "scoring"
)

// Definition describes a stage. Stages without a Prompt run locally and
// never reach the oracle.
type Definition struct {
	Stage    Stage
	Name     string
	Category string
	Tier     llm.ModelTier
	Schema   string
	Prompt   string
	// Optional stages may be skipped without breaking the order
	Optional bool
}

// UsesOracle reports whether the stage issues oracle requests
func (d Definition) UsesOracle() bool {
	return d.Prompt != ""
}

// Registry lists every stage in execution order. Registry[s].Stage == s.
var Registry = []Definition{
	{Stage: SelectCandidates, Name: "select_candidates", Category: CategorySelection},
	{Stage: ExtractJob, Name: "extract_job", Category: CategoryExtraction, Tier: llm.TierLite, Schema: schemas.JobDescription, Prompt: "extract-job"},
	{Stage: ExtractResume, Name: "extract_resume", Category: CategoryExtraction, Tier: llm.TierLite, Schema: schemas.Resume, Prompt: "extract-resume"},
	{Stage: TailorHeader, Name: "tailor_header", Category: CategoryTailoring, Tier: llm.TierStandard, Schema: schemas.Header, Prompt: "tailor-header"},
	{Stage: TailorSkills, Name: "tailor_skills", Category: CategoryTailoring, Tier: llm.TierStandard, Schema: schemas.Skills, Prompt: "tailor-skills"},
	{Stage: TailorRoles, Name: "tailor_roles", Category: CategoryTailoring, Tier: llm.TierAdvanced, Schema: schemas.Role, Prompt: "tailor-role"},
	{Stage: FinalReview, Name: "final_review", Category: CategoryTailoring, Tier: llm.TierStandard, Schema: schemas.Review, Prompt: "final-review"},
	{Stage: Assemble, Name: "assemble", Category: CategoryTailoring},
	{Stage: Validate, Name: "validate", Category: CategoryValidation},
	{Stage: Score, Name: "score", Category: CategoryScoring, Tier: llm.TierAdvanced, Schema: schemas.Score, Prompt: "score-resume"},
	{Stage: CoverGaps, Name: "cover_gaps", Category: CategoryScoring, Tier: llm.TierAdvanced, Schema: schemas.GapCoverage, Prompt: "cover-gaps", Optional: true},
	{Stage: Rescore, Name: "rescore", Category: CategoryScoring, Tier: llm.TierAdvanced, Schema: schemas.Score, Prompt: "rescore-resume"},
}

// LowMatchRolePrompt replaces the role prompt when no candidate matched well
const LowMatchRolePrompt = "tailor-role-low-match"

// PromptFile is the prompt file every stage prompt lives in
const PromptFile = prompts.Tailoring

// Def returns the definition of s
func (s Stage) Def() Definition {
	if s < 0 || int(s) >= len(Registry) {
		return Definition{Stage: s, Name: fmt.Sprintf("stage(%d)", int(s))}
	}
	return Registry[s]
}

func (s Stage) String() string {
	return s.Def().Name
}

// Lookup finds a stage by name
func Lookup(name string) (Definition, bool) {
	for _, d := range Registry {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Names returns every stage name in execution order
func Names() []string {
	out := make([]string, len(Registry))
	for i, d := range Registry {
		out[i] = d.Name
	}
	return out
}

// OrderError is returned when a stage is started out of order
type OrderError struct {
	Stage    Stage
	Expected []Stage
}

func (e *OrderError) Error() string {
	names := make([]string, len(e.Expected))
	for i, s := range e.Expected {
		names[i] = s.String()
	}
	return fmt.Sprintf("stage %s started out of order: expected one of %v", e.Stage, names)
}

// Sequence enforces strict stage order. Optional stages may be skipped.
type Sequence struct {
	next Stage
	done []Stage
}

// NewSequence starts a sequence at the first stage
func NewSequence() *Sequence {
	return &Sequence{}
}

// Allowed returns the stages that may start next
func (q *Sequence) Allowed() []Stage {
	var out []Stage
	for s := q.next; int(s) < len(Registry); s++ {
		out = append(out, s)
		if !Registry[s].Optional {
			break
		}
	}
	return out
}

// Begin marks s as started, failing if any required stage before it was skipped
func (q *Sequence) Begin(s Stage) error {
	for _, allowed := range q.Allowed() {
		if allowed == s {
			q.done = append(q.done, s)
			q.next = s + 1
			return nil
		}
	}
	return &OrderError{Stage: s, Expected: q.Allowed()}
}

// Completed returns the stages started so far, in order
func (q *Sequence) Completed() []Stage {
	return append([]Stage(nil), q.done...)
}

// Finished reports whether every required stage has started
func (q *Sequence) Finished() bool {
	return len(q.Allowed()) == 0
}
