package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-agent/internal/keywords"
	"github.com/jonathan/resume-agent/internal/observability"
	"github.com/jonathan/resume-agent/internal/output"
	"github.com/jonathan/resume-agent/internal/pipeline"
	"github.com/jonathan/resume-agent/internal/types"
	"github.com/jonathan/resume-agent/internal/validation"
)

// auditReport is the re-check of a saved run after manual edits
type auditReport struct {
	RunID           string                  `json:"run_id"`
	Warnings        []types.Warning         `json:"warnings"`
	Revisions       []pipeline.RevisionItem `json:"revisions"`
	KeywordCoverage *types.KeywordCoverage  `json:"keyword_coverage,omitempty"`
}

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <run-output.json>",
		Short: "Re-check outcome distribution, revisions and keyword coverage of a saved run",
		Long:  "Audits a saved (and possibly hand-edited) run record. Findings are advisory and never fail the command.",
		Args:  cobra.ExactArgs(1),
		RunE:  runAuditCmd,
	}
	cmd.Flags().Bool("json", false, "Print the audit as JSON")
	return cmd
}

func buildAudit(out *types.RunOutput) auditReport {
	report := auditReport{
		RunID:     out.RunID,
		Warnings:  validation.AuditOutcomes(out.Roles),
		Revisions: pipeline.RevisionSummary(&out.TailoredResume),
	}
	if report.Warnings == nil {
		report.Warnings = []types.Warning{}
	}
	if out.Job != nil {
		report.KeywordCoverage = keywords.Coverage(out.Job, out.FullText())
	}
	return report
}

func runAuditCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	store, err := newStore(ctx, cfg, args[0])
	if err != nil {
		return err
	}

	out, err := output.Load(ctx, store, args[0])
	if err != nil {
		return err
	}
	report := buildAudit(out)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal audit: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintWarnings(report.Warnings)
	printer.PrintRevisions(report.Revisions)
	printer.PrintKeywordCoverage(report.KeywordCoverage)
	return nil
}
