package main

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/resume-agent/internal/config"
	"github.com/jonathan/resume-agent/internal/fetch"
	"github.com/jonathan/resume-agent/internal/ingestion"
	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/logger"
	"github.com/jonathan/resume-agent/internal/oracle"
	"github.com/jonathan/resume-agent/internal/selection"
	"github.com/jonathan/resume-agent/internal/storage"
	"github.com/jonathan/resume-agent/internal/types"
)

func newLogger() (*zap.Logger, error) {
	log, err := logger.New(viper.GetBool("log-json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	return log, nil
}

// loadConfig reads the optional config file, applies env values and
// merges defaults. Flags are applied by the caller afterwards.
func loadConfig(configPath string) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	env := config.Config{
		APIKey:      viper.GetString("api-key"),
		DatabaseURL: viper.GetString("database-url"),
		ResumeIndex: viper.GetString("resume-index"),
		S3: config.S3Section{
			Region:   viper.GetString("aws-region"),
			Endpoint: viper.GetString("s3-endpoint"),
		},
	}
	cfg = cfg.MergeWithDefaults(env)
	return cfg.MergeWithDefaults(config.Defaults()), nil
}

func stringFlag(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

// newStore returns a Store that can reach S3 when the config needs it
func newStore(ctx context.Context, cfg config.Config, paths ...string) (*storage.Store, error) {
	needsS3 := cfg.UsesS3()
	for _, p := range paths {
		needsS3 = needsS3 || storage.IsS3URI(p)
	}
	if !needsS3 {
		return storage.New(nil), nil
	}
	client, err := storage.NewS3Client(ctx, cfg.S3Config())
	if err != nil {
		return nil, err
	}
	return storage.New(client), nil
}

// loadCandidates reads the resume index from disk or S3
func loadCandidates(ctx context.Context, store *storage.Store, indexPath string, log *zap.Logger) ([]types.ResumeCandidate, error) {
	if !storage.IsS3URI(indexPath) {
		exists := func(ctx context.Context, p string) (bool, error) {
			if storage.IsS3URI(p) {
				return store.Exists(ctx, p)
			}
			return selection.LocalExists(ctx, p)
		}
		return selection.LoadCandidatesFile(ctx, indexPath, exists, log)
	}

	data, err := store.ReadFile(ctx, indexPath)
	if err != nil {
		return nil, &selection.ConfigurationError{Message: "resume index not readable", Path: indexPath, Cause: err}
	}
	return selection.LoadCandidates(ctx, data, path.Dir(indexPath), store.Exists, log)
}

// loadJob resolves a job source and rejects unusable text
func loadJob(ctx context.Context, cfg config.Config, store *storage.Store, source string, log *zap.Logger) (string, *types.JobSource, error) {
	opts := []fetch.Option{fetch.WithLogger(log)}
	if cfg.NoBrowser {
		opts = append(opts, fetch.WithoutBrowser())
	}

	loader := ingestion.NewJobLoader(fetch.New(opts...), ingestion.NewExtractor(store), log)
	text, meta, err := loader.LoadJobText(ctx, source)
	if err != nil {
		return "", nil, err
	}
	if err := ingestion.ValidateJobText(text, cfg.MinJobLength, log); err != nil {
		return "", nil, err
	}
	return text, meta, nil
}

// newOracle builds the Gemini-backed oracle. Tests replace it.
var newOracle = func(ctx context.Context, cfg config.Config, log *zap.Logger) (oracle.Oracle, func(), error) {
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	o := oracle.New(client, oracle.WithRetryPolicy(cfg.RetryPolicy()), oracle.WithLogger(log))
	return o, func() { _ = client.Close() }, nil
}
