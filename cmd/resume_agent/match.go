package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-agent/internal/observability"
	"github.com/jonathan/resume-agent/internal/selection"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <job-description>",
		Short: "Rank the base resumes against a job description without tailoring",
		Args:  cobra.ExactArgs(1),
		RunE:  runMatchCmd,
	}

	cmd.Flags().String("config", "", "Path to config.json file")
	cmd.Flags().StringP("resume-index", "r", "", "Path to the resume index JSON (defaults to RESUME_INDEX)")
	cmd.Flags().Bool("no-browser", false, "Disable the headless browser fallback for JS-heavy job pages")
	cmd.Flags().Bool("json", false, "Print the match report as JSON")

	return cmd
}

func runMatchCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	stringFlag(cmd, "resume-index", &cfg.ResumeIndex)
	if cmd.Flags().Changed("no-browser") {
		cfg.NoBrowser, _ = cmd.Flags().GetBool("no-browser")
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := newStore(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	candidates, err := loadCandidates(ctx, store, cfg.ResumeIndex, log)
	if err != nil {
		return err
	}
	jobText, _, err := loadJob(ctx, cfg, store, args[0], log)
	if err != nil {
		return err
	}

	report, err := selection.BuildMatchReport(jobText, candidates, cfg.SelectionOptions())
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal match report: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintMatchReport(report)
	return nil
}
