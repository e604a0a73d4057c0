package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-agent/internal/config"
	"github.com/jonathan/resume-agent/internal/db"
	"github.com/jonathan/resume-agent/internal/ingestion"
	"github.com/jonathan/resume-agent/internal/observability"
	"github.com/jonathan/resume-agent/internal/output"
	"github.com/jonathan/resume-agent/internal/pipeline"
	"github.com/jonathan/resume-agent/internal/rendering"
	"github.com/jonathan/resume-agent/internal/storage"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <job-description>",
		Short: "Run the full tailoring pipeline for one job description",
		Long: `Selects the best base resume for the job description, tailors it section by section, scores the result and covers scoring gaps.

The job description may be an http(s) URL, an s3://bucket/key object or a local file (.txt, .md, .pdf, .docx).
Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
		Args: cobra.ExactArgs(1),
		RunE: runPipelineCmd,
	}

	cmd.Flags().String("config", "", "Path to config.json file (values can be overridden by other flags)")
	cmd.Flags().StringP("resume-index", "r", "", "Path to the resume index JSON (defaults to RESUME_INDEX)")
	cmd.Flags().StringP("output", "o", "", "Output record location: file, directory ending in / or s3:// URI")
	cmd.Flags().String("tex", "", "Also render the tailored resume as LaTeX to this path")
	cmd.Flags().String("pdf", "", "Also render the tailored resume as PDF to this path (requires pdflatex)")
	cmd.Flags().String("gdoc", "", "Also create a Google Doc with this title holding the tailored resume")
	cmd.Flags().String("google-credentials", "", "Service account key file for --gdoc (defaults to application default credentials)")
	cmd.Flags().StringP("template", "t", "", "Path to LaTeX template (defaults to the built-in template)")
	cmd.Flags().Bool("notes", false, "Include the revision notes page in rendered output")
	cmd.Flags().String("api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	cmd.Flags().String("db-url", "", "PostgreSQL connection URL to also store the run (defaults to DATABASE_URL env var)")
	cmd.Flags().Bool("no-browser", false, "Disable the headless browser fallback for JS-heavy job pages")
	cmd.Flags().Int("max-retries", 0, "Maximum retries of transient LLM failures")
	cmd.Flags().BoolP("verbose", "v", false, "Print stage progress and the full run report")

	return cmd
}

// applyRunFlags overrides config values with flags that were explicitly set
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	stringFlag(cmd, "resume-index", &cfg.ResumeIndex)
	stringFlag(cmd, "output", &cfg.Output)
	stringFlag(cmd, "tex", &cfg.Tex)
	stringFlag(cmd, "pdf", &cfg.PDF)
	stringFlag(cmd, "gdoc", &cfg.GDoc)
	stringFlag(cmd, "google-credentials", &cfg.GoogleCredentials)
	stringFlag(cmd, "template", &cfg.Template)
	stringFlag(cmd, "api-key", &cfg.APIKey)
	stringFlag(cmd, "db-url", &cfg.DatabaseURL)

	if cmd.Flags().Changed("no-browser") {
		cfg.NoBrowser, _ = cmd.Flags().GetBool("no-browser")
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.Retry.MaxRetries, _ = cmd.Flags().GetInt("max-retries")
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
}

func runPipelineCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	source := args[0]

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := newStore(ctx, cfg, source)
	if err != nil {
		return err
	}

	candidates, err := loadCandidates(ctx, store, cfg.ResumeIndex, log)
	if err != nil {
		return err
	}

	jobText, meta, err := loadJob(ctx, cfg, store, source, log)
	if err != nil {
		return err
	}

	o, closeOracle, err := newOracle(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeOracle()

	printer := observability.NewPrinter(cmd.OutOrStdout())
	opts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithSelectionOptions(cfg.SelectionOptions()),
	}
	if cfg.Verbose {
		opts = append(opts, pipeline.WithProgress(printer.Progress))
	}

	out, err := pipeline.New(o, ingestion.NewExtractor(store), opts...).Run(ctx, jobText, candidates)
	if err != nil {
		return err
	}
	out.Source = meta

	sink, closeSink, err := buildSink(cmd, cfg, store, log)
	if err != nil {
		return err
	}
	defer closeSink()

	location, err := sink.Write(ctx, out)
	if err != nil {
		return fmt.Errorf("failed to save run output: %w", err)
	}
	log.Info("run saved", zap.String("run_id", out.RunID), zap.String("location", location))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved run %s to %s\n", out.RunID, location)

	notes, _ := cmd.Flags().GetBool("notes")
	renderer := rendering.NewRenderer(store, cfg.Template, notes, log)
	for _, dest := range []string{cfg.Tex, cfg.PDF} {
		if dest == "" {
			continue
		}
		written, err := renderer.Render(ctx, &out.TailoredResume, dest)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", written)
	}
	if cfg.GDoc != "" {
		if err := renderDoc(cmd, cfg, renderer, &out.TailoredResume); err != nil {
			return err
		}
	}

	if cfg.Verbose {
		printer.PrintRunSummary(out)
		return nil
	}
	printer.PrintScores(out.Score, out.FinalScore)
	printer.PrintRevisions(pipeline.RevisionSummary(&out.TailoredResume))
	printer.PrintGaps(out.Score, out.GapCoverage)
	return nil
}

// buildSink returns the record destinations: the output location and,
// when a database URL is configured, the run store.
func buildSink(cmd *cobra.Command, cfg config.Config, store *storage.Store, log *zap.Logger) (output.Sink, func(), error) {
	primary, err := output.ForLocation(store, cfg.Output)
	if err != nil {
		return nil, nil, err
	}
	sinks := output.Multi{primary}
	if cfg.DatabaseURL == "" {
		return sinks, func() {}, nil
	}

	database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(cmd.Context()); err != nil {
		database.Close()
		return nil, nil, err
	}
	log.Debug("run store connected")
	return append(sinks, database), database.Close, nil
}
