// Package pipeline drives a tailoring run: candidate selection, structured
// extraction, per-section tailoring, validation, scoring and gap coverage,
// strictly in that order.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-agent/internal/ingestion"
	"github.com/jonathan/resume-agent/internal/keywords"
	"github.com/jonathan/resume-agent/internal/logger"
	"github.com/jonathan/resume-agent/internal/oracle"
	"github.com/jonathan/resume-agent/internal/outcome"
	"github.com/jonathan/resume-agent/internal/pipeline/steps"
	"github.com/jonathan/resume-agent/internal/prompts"
	"github.com/jonathan/resume-agent/internal/selection"
	"github.com/jonathan/resume-agent/internal/types"
	"github.com/jonathan/resume-agent/internal/validation"
)

// DocumentExtractor turns a candidate's backing document into text
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Pipeline runs tailoring stages against an oracle
type Pipeline struct {
	oracle     oracle.Oracle
	docs       DocumentExtractor
	log        *zap.Logger
	onProgress ProgressCallback
	selection  selection.Options
	minResume  int
	now        func() time.Time
	newID      func() string
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.log = logger.OrNop(l) }
}

// WithProgress registers a callback invoked after every completed stage
func WithProgress(cb ProgressCallback) Option {
	return func(p *Pipeline) { p.onProgress = cb }
}

// WithSelectionOptions overrides the low-match and secondary thresholds
func WithSelectionOptions(opts selection.Options) Option {
	return func(p *Pipeline) { p.selection = opts }
}

// WithMinResumeLength sets the shortest resume text worth extracting
func WithMinResumeLength(n int) Option {
	return func(p *Pipeline) { p.minResume = n }
}

// WithClock replaces time.Now, for deterministic timings in tests
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithIDGenerator replaces the run id generator
func WithIDGenerator(fn func() string) Option {
	return func(p *Pipeline) { p.newID = fn }
}

// New creates a Pipeline. The oracle and extractor are required.
func New(o oracle.Oracle, docs DocumentExtractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		oracle:    o,
		docs:      docs,
		log:       zap.NewNop(),
		selection: selection.DefaultOptions(),
		minResume: ingestion.DefaultMinResumeLength,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run is the state of one Run call. It is mutated only by the goroutine
// calling Run, one stage at a time.
type run struct {
	p   *Pipeline
	ctx context.Context
	id  string
	log *zap.Logger
	seq *steps.Sequence

	jobText    string
	candidates []types.ResumeCandidate

	selection *selection.Selection
	jd        *types.JobDescription
	resume    *types.Resume
	extras    *types.SecondaryExtras
	header    *types.HeaderOutput
	skills    *types.SkillsOutput
	roles     []types.TailoredRole
	review    *types.ReviewOutput
	tailored  *types.TailoredResume
	score     *types.ScoreResult
	gaps      *types.GapCoverageResult
	final     *types.ScoreResult

	warnings []types.Warning
	timings  []types.StageTiming
}

// Run executes every stage in order against jobText and the candidate index.
// Any stage failure aborts the run and is returned as a *StageError; no
// partial output is returned.
func (p *Pipeline) Run(ctx context.Context, jobText string, candidates []types.ResumeCandidate) (*types.RunOutput, error) {
	r := &run{
		p:          p,
		ctx:        ctx,
		id:         p.newID(),
		seq:        steps.NewSequence(),
		jobText:    jobText,
		candidates: candidates,
	}
	r.log = p.log.With(zap.String("run_id", r.id))

	stages := []struct {
		stage steps.Stage
		fn    func() (string, error)
	}{
		{steps.SelectCandidates, r.selectCandidates},
		{steps.ExtractJob, r.extractJob},
		{steps.ExtractResume, r.extractResume},
		{steps.TailorHeader, r.tailorHeader},
		{steps.TailorSkills, r.tailorSkills},
		{steps.TailorRoles, r.tailorRoles},
		{steps.FinalReview, r.finalReview},
		{steps.Assemble, r.assemble},
		{steps.Validate, r.validate},
		{steps.Score, r.scoreResume},
		{steps.CoverGaps, r.coverGaps},
		{steps.Rescore, r.rescore},
	}

	for _, s := range stages {
		if s.stage == steps.CoverGaps && !r.score.HasGaps() {
			r.log.Info("no gaps to cover, skipping stage", zap.String("stage", s.stage.String()))
			continue
		}
		if err := r.step(s.stage, s.fn); err != nil {
			return nil, err
		}
	}

	return r.output(), nil
}

func (r *run) step(s steps.Stage, fn func() (string, error)) error {
	if err := r.seq.Begin(s); err != nil {
		return &StageError{Stage: s, Cause: err}
	}
	if err := r.ctx.Err(); err != nil {
		return &StageError{Stage: s, Cause: err}
	}

	def := s.Def()
	log := r.log.With(zap.String("stage", def.Name))
	log.Info("stage started", zap.String("category", def.Category))

	start := r.p.now()
	message, err := fn()
	elapsed := r.p.now().Sub(start)
	if err != nil {
		log.Error("stage failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return &StageError{Stage: s, Cause: err}
	}

	r.timings = append(r.timings, types.StageTiming{
		Stage:      def.Name,
		StartedAt:  start,
		DurationMS: elapsed.Milliseconds(),
	})
	log.Info("stage completed", zap.String("result", message), zap.Duration("elapsed", elapsed))

	if r.p.onProgress != nil {
		r.p.onProgress(ProgressEvent{
			Stage:    def.Name,
			Category: def.Category,
			Message:  message,
			RunID:    r.id,
		})
	}
	return nil
}

// complete renders the prompt for a stage and asks the oracle for its record
func (r *run) complete(s steps.Stage, promptKey string, data map[string]string, out any) error {
	def := s.Def()
	prompt, err := prompts.Render(steps.PromptFile, promptKey, data)
	if err != nil {
		return err
	}
	return r.p.oracle.Complete(r.ctx, oracle.Request{
		Stage:  def.Name,
		Prompt: prompt,
		Schema: def.Schema,
		Tier:   def.Tier,
	}, out)
}

func (r *run) warn(w types.Warning) {
	r.warnings = append(r.warnings, w)
	r.log.Warn(w.Message, zap.String("kind", w.Kind), zap.Int("role_index", w.RoleIndex))
}

func (r *run) selectCandidates() (string, error) {
	sel, err := selection.Select(r.jobText, r.candidates, r.p.selection)
	if err != nil {
		return "", err
	}
	r.selection = sel

	msg := fmt.Sprintf("primary %s (score %.1f)", sel.Primary.Label, sel.PrimaryScore)
	if sel.Secondary != nil {
		msg += fmt.Sprintf(", secondary %s (score %.1f)", sel.Secondary.Label, sel.SecondaryScore)
	}
	if sel.IsLowMatch {
		r.log.Warn("low match: bullets will be written from the job description",
			zap.Float64("best_score", sel.PrimaryScore),
			zap.Float64("threshold", r.p.selection.LowMatchThreshold))
		msg += ", low match"
	}
	return msg, nil
}

func (r *run) extractJob() (string, error) {
	var jd types.JobDescription
	if err := r.complete(steps.ExtractJob, "extract-job", map[string]string{"JobText": r.jobText}, &jd); err != nil {
		return "", err
	}
	r.jd = &jd
	return fmt.Sprintf("%s at %s, %d responsibilities", jd.RoleTitle, jd.Company, len(jd.Responsibilities)), nil
}

func (r *run) extractResumeAt(path string) (*types.Resume, error) {
	text, err := r.p.docs.Extract(r.ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume %s: %w", path, err)
	}
	if err := ingestion.ValidateResumeText(text, path, r.p.minResume); err != nil {
		return nil, err
	}
	var resume types.Resume
	if err := r.complete(steps.ExtractResume, "extract-resume", map[string]string{"ResumeText": text}, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

func (r *run) extractResume() (string, error) {
	resume, err := r.extractResumeAt(r.selection.Primary.Path)
	if err != nil {
		return "", err
	}
	r.resume = resume
	msg := fmt.Sprintf("%d roles", len(resume.Roles))

	if sec := r.selection.Secondary; sec != nil {
		secondary, err := r.extractResumeAt(sec.Path)
		if err != nil {
			return "", err
		}
		r.extras = harvestSecondary(resume, secondary, sec.Label)
		r.log.Info("harvested secondary resume",
			zap.String("label", sec.Label),
			zap.Int("skills", len(r.extras.Skills)),
			zap.Int("metrics", len(r.extras.Metrics)))
		msg += fmt.Sprintf(", %d extra skills and %d metrics from %s", len(r.extras.Skills), len(r.extras.Metrics), sec.Label)
	}
	return msg, nil
}

func (r *run) tailorHeader() (string, error) {
	var header types.HeaderOutput
	if err := r.complete(steps.TailorHeader, "tailor-header", headerPromptData(r.jd, r.resume), &header); err != nil {
		return "", err
	}
	r.header = &header
	return fmt.Sprintf("headline %q, %d summary bullets", logger.TruncateForLog(header.Headline, 50), len(header.Summary)), nil
}

func (r *run) tailorSkills() (string, error) {
	var skills types.SkillsOutput
	if err := r.complete(steps.TailorSkills, "tailor-skills", skillsPromptData(r.jd), &skills); err != nil {
		return "", err
	}
	r.skills = &skills
	return fmt.Sprintf("%d skill categories, %d ATS keywords", len(skills.Skills), len(skills.ATSKeywordsUsed)), nil
}

func (r *run) tailorRoles() (string, error) {
	planner := NewResponsibilityPlanner(r.jd.Responsibilities)
	promptKey := steps.TailorRoles.Def().Prompt
	if r.selection.IsLowMatch {
		promptKey = steps.LowMatchRolePrompt
	}

	revisions := 0
	for i, original := range r.resume.Roles {
		used := planner.Used()
		assigned := planner.Assign(i)
		data, err := rolePromptData(r.jd, original, i, assigned, used, r.extras)
		if err != nil {
			return "", err
		}

		var out types.RoleOutput
		if err := r.complete(steps.TailorRoles, promptKey, data, &out); err != nil {
			return "", fmt.Errorf("role %d (%s): %w", i, original.Company, err)
		}

		role, correction := toTailoredRole(&out, original, i, r.selection.IsLowMatch)
		if correction != nil {
			r.warn(*correction)
		}
		planner.MarkCovered(out.ResponsibilitiesCovered)

		quota := outcome.QuotaFor(i)
		got := outcome.Count(role.BulletTexts())
		roleRevisions := 0
		for _, b := range role.Bullets {
			if b.NeedsRevision {
				roleRevisions++
			}
		}
		revisions += roleRevisions
		r.log.Info("role tailored",
			zap.Int("role_index", i),
			zap.String("company", role.Company),
			zap.Int("bullets", len(role.Bullets)),
			zap.Int("outcomes", got),
			zap.Int("outcomes_wanted", quota.Outcomes),
			zap.Int("needs_revision", roleRevisions),
			zap.Strings("assigned", assigned))

		r.roles = append(r.roles, role)
	}
	return fmt.Sprintf("%d roles tailored, %d bullets need revision", len(r.roles), revisions), nil
}

func (r *run) finalReview() (string, error) {
	preliminary := &types.TailoredResume{
		Headline: r.header.Headline,
		Summary:  r.header.Summary,
		Skills:   r.skills.Skills,
		Roles:    r.roles,
	}
	var review types.ReviewOutput
	if err := r.complete(steps.FinalReview, "final-review", reviewPromptData(r.jd, preliminary), &review); err != nil {
		return "", err
	}
	r.review = &review
	if len(review.GapsToConfirm) > 0 {
		r.log.Warn("review found gaps to confirm", zap.Strings("gaps", review.GapsToConfirm))
	}
	return fmt.Sprintf("%d gaps to confirm, %d questions", len(review.GapsToConfirm), len(review.QuestionsForUser)), nil
}

func (r *run) assemble() (string, error) {
	r.tailored = assemble(r.resume, r.jd, r.header, r.skills, r.roles, r.review)
	return fmt.Sprintf("%d roles for %s at %s", len(r.tailored.Roles), r.tailored.TargetRole, r.tailored.TargetCompany), nil
}

func (r *run) validate() (string, error) {
	report, err := validation.Validate(r.resume, r.tailored)
	if err != nil {
		return "", err
	}
	for _, w := range report.Warnings {
		r.warn(w)
	}
	return fmt.Sprintf("%d warnings", len(report.Warnings)), nil
}

func (r *run) scoreResume() (string, error) {
	var score types.ScoreResult
	if err := r.complete(steps.Score, "score-resume", scorePromptData(r.jd, r.tailored), &score); err != nil {
		return "", err
	}
	r.score = &score
	return fmt.Sprintf("score %d/100, %d gaps", score.Score, len(score.Gaps)), nil
}

func (r *run) coverGaps() (string, error) {
	var gaps types.GapCoverageResult
	if err := r.complete(steps.CoverGaps, "cover-gaps", coverGapsPromptData(r.jd, r.tailored, r.score), &gaps); err != nil {
		return "", err
	}
	r.gaps = &gaps

	added, warnings := mergeGapCoverage(r.tailored, &gaps)
	for _, w := range warnings {
		r.warn(w)
	}
	if len(gaps.GapsNotAddressable) > 0 {
		r.log.Warn("gaps not addressable", zap.Strings("gaps", gaps.GapsNotAddressable))
	}
	return fmt.Sprintf("added %d bullets, %d gaps addressed", added, len(gaps.GapsAddressed)), nil
}

func (r *run) rescore() (string, error) {
	var final types.ScoreResult
	if err := r.complete(steps.Rescore, "rescore-resume", rescorePromptData(r.jd, r.tailored, r.score, r.gaps), &final); err != nil {
		return "", err
	}
	r.final = &final
	return fmt.Sprintf("final score %d/100 (%+d)", final.Score, final.Score-r.score.Score), nil
}

func (r *run) output() *types.RunOutput {
	coverage := keywords.Coverage(r.jd, r.tailored.FullText())
	r.log.Info("run completed",
		zap.Int("score", r.score.Score),
		zap.Int("final_score", r.final.Score),
		zap.Int("needs_revision", len(RevisionSummary(r.tailored))),
		zap.Float64("keyword_coverage", coverage.OverallRate),
		zap.Int("warnings", len(r.warnings)))

	warnings := r.warnings
	if warnings == nil {
		warnings = []types.Warning{}
	}
	return &types.RunOutput{
		TailoredResume:  *r.tailored,
		RunID:           r.id,
		GeneratedAt:     r.p.now().UTC(),
		Selection:       r.selection.Summary(),
		Job:             r.jd,
		Score:           r.score,
		GapCoverage:     r.gaps,
		FinalScore:      r.final,
		KeywordCoverage: coverage,
		Warnings:        warnings,
		Timings:         r.timings,
	}
}
