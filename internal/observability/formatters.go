// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-agent/internal/pipeline"
	"github.com/jonathan/resume-agent/internal/selection"
	"github.com/jonathan/resume-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBanner(line string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintMatchReport outputs every candidate's normalized score and rating.
func (p *Printer) PrintMatchReport(report *selection.MatchReport) {
	if report == nil || len(report.Results) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Best: %s (%.1f/10, %s)\n", report.Best.Label, report.Best.Normalized, report.Best.Rating)
	if report.IsLowMatch {
		sb.WriteString("⚠ Low match: content will be drawn from the job description\n")
	}
	sb.WriteString("\n")

	for i, r := range report.Results {
		fmt.Fprintf(&sb, "#%d  %-20s %4.1f  %s\n", i+1, truncate(r.ID, 20), r.Normalized, r.Rating)
	}

	if len(report.MatchedKeywords) > 0 {
		sb.WriteString("\nMatched keywords:\n")
		sb.WriteString("  " + truncate(strings.Join(report.MatchedKeywords, ", "), boxWidth-6))
	}

	p.printBox("RESUME MATCH REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSelection outputs which base resumes the run used.
func (p *Printer) PrintSelection(sel types.SelectionSummary) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Primary:   %s\n", labelOrID(sel.PrimaryLabel, sel.PrimaryID))
	if sel.SecondaryID != "" {
		fmt.Fprintf(&sb, "Secondary: %s\n", labelOrID(sel.SecondaryLabel, sel.SecondaryID))
	}
	if sel.IsLowMatch {
		sb.WriteString("Low match: yes\n")
	}
	if len(sel.Scores) > 0 {
		sb.WriteString("\n")
		count := min(len(sel.Scores), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := sel.Scores[i]
			fmt.Fprintf(&sb, "  %-24s %6.1f\n", truncate(s.ID, 24), s.Score)
		}
	}
	p.printBox("RESUME SELECTION", strings.TrimSuffix(sb.String(), "\n"))
}

func labelOrID(label, id string) string {
	if label == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", label, id)
}

// PrintJob outputs a human-readable summary of the extracted job description.
func (p *Printer) PrintJob(jd *types.JobDescription) {
	if jd == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Company:  %s\n", jd.Company)
	fmt.Fprintf(&sb, "Role:     %s\n", jd.RoleTitle)
	if jd.Level != "" {
		fmt.Fprintf(&sb, "Level:    %s\n", jd.Level)
	}
	sb.WriteString("\n")

	if must := jd.MustHaves(); len(must) > 0 {
		sb.WriteString("Must-haves:\n")
		writeList(&sb, must, maxItemsToShow)
		sb.WriteString("\n")
	}
	if nice := jd.NiceToHaves(); len(nice) > 0 {
		sb.WriteString("Nice-to-haves:\n")
		writeList(&sb, nice, 3)
	}

	p.printBox("EXTRACTED JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScores outputs the initial evaluation and, when present, the re-score.
func (p *Printer) PrintScores(initial, final *types.ScoreResult) {
	if initial == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Initial score: %d/100\n", initial.Score)
	if final != nil {
		delta := final.Score - initial.Score
		fmt.Fprintf(&sb, "Final score:   %d/100 (%+d)\n", final.Score, delta)
	}
	latest := initial
	if final != nil {
		latest = final
	}
	if latest.ScoreRationale != "" {
		sb.WriteString("\n")
		sb.WriteString(truncate(latest.ScoreRationale, boxWidth-4))
		sb.WriteString("\n")
	}
	if len(latest.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		writeList(&sb, latest.Recommendations, 3)
	}

	p.printBox("RECRUITER SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGaps outputs the gaps the evaluation found and how coverage handled them.
func (p *Printer) PrintGaps(score *types.ScoreResult, coverage *types.GapCoverageResult) {
	if !score.HasGaps() {
		p.printBanner("✅ NO GAPS FOUND")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d gaps:\n", len(score.Gaps))
	writeList(&sb, score.Gaps, maxItemsToShow)

	if coverage != nil {
		fmt.Fprintf(&sb, "\nNew bullets added: %d\n", coverage.NewBulletCount())
		if len(coverage.GapsNotAddressable) > 0 {
			sb.WriteString("Not addressable:\n")
			writeList(&sb, coverage.GapsNotAddressable, 3)
		}
	}

	p.printBox("SCORING GAPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRevisions outputs every bullet flagged for the candidate to confirm.
func (p *Printer) PrintRevisions(items []pipeline.RevisionItem) {
	if len(items) == 0 {
		p.printBanner("✅ NO BULLETS NEED REVISION")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d bullets need revision:\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&sb, "• [%s #%d] %s\n", item.Company, item.BulletIndex+1, truncate(item.Text, 40))
		if item.Note != "" {
			fmt.Fprintf(&sb, "  %s\n", item.Note)
		}
		if i < len(items)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("NEEDS REVISION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs advisory findings from validation and assembly.
func (p *Printer) PrintWarnings(warnings []types.Warning) {
	if len(warnings) == 0 {
		p.printBanner("✅ NO WARNINGS")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d warnings:\n\n", len(warnings))
	for i, w := range warnings {
		fmt.Fprintf(&sb, "⚠ %s\n", w.Kind)
		fmt.Fprintf(&sb, "  %s\n", w.Message)
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintKeywordCoverage outputs per-group JD term coverage.
func (p *Printer) PrintKeywordCoverage(kc *types.KeywordCoverage) {
	if kc == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall: %.0f%%\n\n", kc.OverallRate*100)
	for _, g := range kc.Groups {
		fmt.Fprintf(&sb, "%-20s %3.0f%%  (%d/%d)\n", g.Name, g.Rate*100, len(g.Matched), len(g.Matched)+len(g.Missing))
		if len(g.Missing) > 0 {
			fmt.Fprintf(&sb, "  missing: %s\n", strings.Join(g.Missing, ", "))
		}
	}

	p.printBox("KEYWORD COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the end-of-run report
func (p *Printer) PrintRunSummary(out *types.RunOutput) {
	if out == nil {
		return
	}
	p.PrintSelection(out.Selection)
	p.PrintScores(out.Score, out.FinalScore)
	p.PrintGaps(out.Score, out.GapCoverage)
	p.PrintRevisions(pipeline.RevisionSummary(&out.TailoredResume))
	p.PrintKeywordCoverage(out.KeywordCoverage)
	p.PrintWarnings(out.Warnings)
}

// Progress prints one line per completed stage. It has the shape of a
// pipeline.ProgressCallback.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Progress(ev pipeline.ProgressEvent) {
	fmt.Fprintf(p.out, "[%s] %s: %s\n", ev.Category, ev.Stage, ev.Message)
}
