// Package main provides the resume_agent command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Environment variables bound to viper keys
var envBindings = map[string]string{
	"api-key":      "GEMINI_API_KEY",
	"database-url": "DATABASE_URL",
	"resume-index": "RESUME_INDEX",
	"aws-region":   "AWS_REGION",
	"s3-endpoint":  "S3_ENDPOINT",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "resume_agent",
		Short:         "Match and tailor resumes to job descriptions",
		Long:          "resume_agent picks the best base resume for a job description and tailors it section by section with Gemini, then scores the result and covers scoring gaps.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug logging")
	root.PersistentFlags().Bool("log-json", false, "json format for logging")
	_ = viper.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log-json", root.PersistentFlags().Lookup("log-json"))

	for key, env := range envBindings {
		_ = viper.BindEnv(key, env)
	}

	root.AddCommand(
		newRunCmd(),
		newMatchCmd(),
		newRenderCmd(),
		newAuditCmd(),
		newRunsCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
