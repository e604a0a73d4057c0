package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-agent/internal/config"
	"github.com/jonathan/resume-agent/internal/output"
	"github.com/jonathan/resume-agent/internal/rendering"
	"github.com/jonathan/resume-agent/internal/types"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <run-output.json> [dest.tex|dest.pdf]...",
		Short: "Render a saved run as LaTeX, PDF or a Google Doc",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRenderCmd,
	}

	cmd.Flags().String("config", "", "Path to config.json file")
	cmd.Flags().StringP("template", "t", "", "Path to LaTeX template (defaults to the built-in template)")
	cmd.Flags().Bool("notes", false, "Include the revision notes page")
	cmd.Flags().String("gdoc", "", "Create a Google Doc with this title")
	cmd.Flags().String("google-credentials", "", "Service account key file for --gdoc (defaults to application default credentials)")

	return cmd
}

func runRenderCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	stringFlag(cmd, "template", &cfg.Template)
	stringFlag(cmd, "gdoc", &cfg.GDoc)
	stringFlag(cmd, "google-credentials", &cfg.GoogleCredentials)
	if len(args) < 2 && cfg.GDoc == "" {
		return fmt.Errorf("nothing to render: give a .tex or .pdf destination or --gdoc")
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := newStore(ctx, cfg, args...)
	if err != nil {
		return err
	}

	out, err := output.Load(ctx, store, args[0])
	if err != nil {
		return err
	}

	notes, _ := cmd.Flags().GetBool("notes")
	renderer := rendering.NewRenderer(store, cfg.Template, notes, log)
	for _, dest := range args[1:] {
		written, err := renderer.Render(ctx, &out.TailoredResume, dest)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", written)
	}
	if cfg.GDoc != "" {
		return renderDoc(cmd, cfg, renderer, &out.TailoredResume)
	}
	return nil
}

// newDocsAPI is replaced in tests.
var newDocsAPI = func(ctx context.Context, cfg config.Config) (rendering.DocsAPI, error) {
	var opts []option.ClientOption
	if cfg.GoogleCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentials))
	}
	return rendering.NewDocsAPI(ctx, opts...)
}

func renderDoc(cmd *cobra.Command, cfg config.Config, renderer *rendering.Renderer, tr *types.TailoredResume) error {
	api, err := newDocsAPI(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to google docs: %w", err)
	}
	url, err := renderer.WithDocs(api).RenderDoc(cmd.Context(), tr, cfg.GDoc)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", url)
	return nil
}
