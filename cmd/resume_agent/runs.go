package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-agent/internal/db"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect runs stored in PostgreSQL",
	}
	cmd.PersistentFlags().String("db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE:  runRunsListCmd,
	}
	list.Flags().String("company", "", "Filter by target company (substring match)")
	list.Flags().Int("limit", 20, "Maximum number of runs to list")

	show := &cobra.Command{
		Use:   "show <run-id> [artifact-step]",
		Short: "Show a run's stage timings, or one stored artifact",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runRunsShowCmd,
	}

	cmd.AddCommand(list, show)
	return cmd
}

func connectRunStore(cmd *cobra.Command) (*db.DB, error) {
	cfg, err := loadConfig("")
	if err != nil {
		return nil, err
	}
	stringFlag(cmd, "db-url", &cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	return db.Connect(cmd.Context(), cfg.DatabaseURL)
}

func runRunsListCmd(cmd *cobra.Command, _ []string) error {
	database, err := connectRunStore(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	company, _ := cmd.Flags().GetString("company")
	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := database.ListRuns(cmd.Context(), db.RunFilters{Company: company, Limit: limit})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCREATED\tCOMPANY\tROLE\tPRIMARY\tSCORE")
	for _, r := range runs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Company, r.RoleTitle, r.PrimaryID, formatScores(r))
	}
	return w.Flush()
}

func formatScores(r db.Run) string {
	switch {
	case r.Score == nil:
		return "-"
	case r.FinalScore == nil:
		return fmt.Sprintf("%d", *r.Score)
	default:
		return fmt.Sprintf("%d -> %d", *r.Score, *r.FinalScore)
	}
}

func runRunsShowCmd(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	database, err := connectRunStore(cmd)
	if err != nil {
		return err
	}
	defer database.Close()
	ctx := cmd.Context()

	if len(args) == 2 {
		art, err := database.GetArtifact(ctx, id, args[1])
		if err != nil {
			return err
		}
		if art == nil {
			return fmt.Errorf("run %s has no %q artifact", id, args[1])
		}
		var pretty json.RawMessage = art.Content
		data, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format artifact: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	run, err := database.GetRun(ctx, id)
	if err != nil {
		return err
	}
	steps, err := database.ListRunSteps(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Run %s: %s at %s (%s)\n", run.ID, run.RoleTitle, run.Company, run.Status)
	_, _ = fmt.Fprintf(out, "Primary resume: %s  Score: %s\n\n", run.PrimaryID, formatScores(*run))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STEP\tCATEGORY\tSTATUS\tDURATION")
	for _, s := range steps {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%dms\n", s.Step, s.Category, s.Status, s.DurationMS)
	}
	return w.Flush()
}
