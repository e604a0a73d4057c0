package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-agent/internal/llm"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"resume_index": "s3://resumes/index.json",
		"output": "out/",
		"models": {"advanced": "gemini-2.5-pro-exp"},
		"retry": {"max_retries": 2, "call_timeout": 30},
		"low_match_threshold": 5.5,
		"no_browser": true,
		"s3": {"region": "auto", "endpoint": "https://r2.example.com"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "s3://resumes/index.json", cfg.ResumeIndex)
	assert.Equal(t, "out/", cfg.Output)
	assert.Equal(t, "gemini-2.5-pro-exp", cfg.Models.Advanced)
	assert.Equal(t, 2, cfg.Retry.MaxRetries)
	assert.Equal(t, 30, cfg.Retry.CallTimeout)
	assert.Equal(t, 5.5, cfg.LowMatchThreshold)
	assert.True(t, cfg.NoBrowser)
	assert.Equal(t, "https://r2.example.com", cfg.S3.Endpoint)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{"empty path", func(*testing.T) string { return "" }, "config path is empty"},
		{"missing file", func(*testing.T) string { return "/nonexistent/path/config.json" }, "failed to read config file"},
		{"invalid json", func(t *testing.T) string { return writeConfig(t, `{ invalid json }`) }, "failed to parse config JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "resume.tex")
	require.NoError(t, os.WriteFile(tmpl, []byte(`\documentclass{article}`), 0o644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: Defaults()},
		{name: "existing template", cfg: Config{Template: tmpl}},
		{name: "s3 template is not stat'd", cfg: Config{Template: "s3://bucket/resume.tex"}},
		{name: "negative retries", cfg: Config{Retry: RetrySection{MaxRetries: -1}}, wantErr: "'retry.max_retries'"},
		{name: "too many retries", cfg: Config{Retry: RetrySection{MaxRetries: 11}}, wantErr: "'lte'"},
		{name: "secondary ratio above one", cfg: Config{SecondaryRatio: 1.5}, wantErr: "'secondary_ratio'"},
		{name: "negative min length", cfg: Config{MinJobLength: -5}, wantErr: "'min_job_length'"},
		{name: "pdf extension", cfg: Config{PDF: "resume.docx"}, wantErr: "'pdf'"},
		{name: "tex extension", cfg: Config{Tex: "resume.txt"}, wantErr: "'tex'"},
		{name: "bad database url", cfg: Config{DatabaseURL: "not a url"}, wantErr: "'database_url'"},
		{name: "bad s3 endpoint", cfg: Config{S3: S3Section{Endpoint: "nope"}}, wantErr: "'s3.endpoint'"},
		{name: "half s3 credentials", cfg: Config{S3: S3Section{AccessKey: "AKIA"}}, wantErr: "must be set together"},
		{name: "missing template", cfg: Config{Template: "/nonexistent/resume.tex"}, wantErr: "template file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Defaults()
	defaults.DatabaseURL = "postgres://localhost/resume_agent"

	partial := Config{
		Output:            "custom.json",
		Models:            Models{Standard: "gemini-custom"},
		Retry:             RetrySection{CallTimeout: 15},
		LowMatchThreshold: 4,
		NoBrowser:         true,
	}

	merged := partial.MergeWithDefaults(defaults)

	assert.Equal(t, "custom.json", merged.Output)
	assert.Equal(t, "gemini-custom", merged.Models.Standard)
	assert.Equal(t, 15, merged.Retry.CallTimeout)
	assert.Equal(t, 4.0, merged.LowMatchThreshold)
	assert.True(t, merged.NoBrowser)

	assert.Equal(t, defaults.ResumeIndex, merged.ResumeIndex)
	assert.Equal(t, defaults.Models.Lite, merged.Models.Lite)
	assert.Equal(t, defaults.Retry.MaxRetries, merged.Retry.MaxRetries)
	assert.Equal(t, defaults.SecondaryRatio, merged.SecondaryRatio)
	assert.Equal(t, "postgres://localhost/resume_agent", merged.DatabaseURL)

	// The receiver is untouched
	assert.Empty(t, partial.ResumeIndex)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Output: "a.json"}
	merged := cfg.MergeWithDefaults(Config{})
	assert.Equal(t, cfg, merged)
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 3, d.Retry.MaxRetries)
	assert.Equal(t, 60, d.Retry.CallTimeout)
	assert.Equal(t, 5, d.Retry.RateLimitBase)
	assert.Equal(t, 2, d.Retry.ServerErrorBase)
	assert.Equal(t, 6.0, d.LowMatchThreshold)
	assert.Equal(t, 0.8, d.SecondaryRatio)
	assert.Equal(t, 100, d.MinJobLength)
	assert.NotEmpty(t, d.Models.Advanced)
}

func TestRetryPolicy(t *testing.T) {
	d := Defaults()
	assert.Equal(t, llm.DefaultRetryPolicy(), d.RetryPolicy())

	cfg := Config{Retry: RetrySection{MaxRetries: 1, RateLimitBase: 1}}
	p := cfg.RetryPolicy()
	assert.Equal(t, 1, p.MaxRetries)
	assert.Equal(t, time.Second, p.RateLimitBase)
	assert.Equal(t, 60*time.Second, p.CallTimeout)

	// Zero retries is a valid explicit choice
	assert.Equal(t, 0, (&Config{}).RetryPolicy().MaxRetries)
}

func TestLLMConfig(t *testing.T) {
	cfg := Config{Models: Models{Advanced: "custom-pro"}, Temperature: 0.7, MaxOutputTokens: 4096}
	lc := cfg.LLMConfig()
	assert.Equal(t, int32(4096), lc.MaxOutputTokens)

	assert.Equal(t, "custom-pro", lc.GetModel(llm.TierAdvanced))
	assert.Equal(t, llm.DefaultGeminiConfig().GetModel(llm.TierLite), lc.GetModel(llm.TierLite))
	assert.InDelta(t, 0.7, lc.Temperature, 1e-6)
}

func TestSelectionOptions(t *testing.T) {
	opts := (&Config{LowMatchThreshold: 4}).SelectionOptions()
	assert.Equal(t, 4.0, opts.LowMatchThreshold)
	assert.Equal(t, 0.8, opts.SecondaryRatio)
}

func TestUsesS3(t *testing.T) {
	assert.False(t, (&Config{ResumeIndex: "resumes/index.json", Output: "out/"}).UsesS3())
	assert.True(t, (&Config{ResumeIndex: "s3://b/index.json"}).UsesS3())
	assert.True(t, (&Config{Output: "s3://b/out/"}).UsesS3())
	assert.True(t, (&Config{S3: S3Section{Endpoint: "https://minio.local"}}).UsesS3())

	s3cfg := (&Config{S3: S3Section{Region: "auto", AccessKey: "a", SecretKey: "b"}}).S3Config()
	assert.Equal(t, "auto", s3cfg.Region)
	assert.Equal(t, "a", s3cfg.AccessKey)
}
