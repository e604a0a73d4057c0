// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-agent/internal/ingestion"
	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/selection"
	"github.com/jonathan/resume-agent/internal/storage"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use Defaults or CLI flags.
type Config struct {
	// Inputs and outputs
	ResumeIndex string `json:"resume_index,omitempty"` // Path to the candidate index (local or s3://)
	Output      string `json:"output,omitempty"`       // Output record location (file, directory or s3://)
	Template    string `json:"template,omitempty"`     // Path to LaTeX template
	Tex         string `json:"tex,omitempty" validate:"omitempty,endswith=.tex"`
	PDF         string `json:"pdf,omitempty" validate:"omitempty,endswith=.pdf"`
	GDoc        string `json:"gdoc,omitempty"` // Title of a Google Doc to create with the result
	// GoogleCredentials is a service account key file for Google Docs output.
	// Empty uses application default credentials.
	GoogleCredentials string `json:"google_credentials,omitempty"`

	// Oracle
	APIKey      string  `json:"api_key,omitempty"` // Gemini API key
	Models      Models  `json:"models,omitempty"`
	Temperature float32 `json:"temperature,omitempty" validate:"gte=0,lte=2"`
	// MaxOutputTokens caps each model response
	MaxOutputTokens int32        `json:"max_output_tokens,omitempty" validate:"gte=0"`
	Retry           RetrySection `json:"retry,omitempty"`

	// Selection and ingestion
	LowMatchThreshold float64 `json:"low_match_threshold,omitempty" validate:"gte=0"`
	SecondaryRatio    float64 `json:"secondary_ratio,omitempty" validate:"gte=0,lte=1"`
	MinJobLength      int     `json:"min_job_length,omitempty" validate:"gte=0"`
	NoBrowser         bool    `json:"no_browser,omitempty"` // Disable the headless browser fallback

	// Persistence
	DatabaseURL string    `json:"database_url,omitempty" validate:"omitempty,url"` // PostgreSQL connection URL
	S3          S3Section `json:"s3,omitempty"`

	Verbose bool `json:"verbose,omitempty"` // Print the end-of-run report
}

// Models names the Gemini model used per tier
type Models struct {
	Lite     string `json:"lite,omitempty"`
	Standard string `json:"standard,omitempty"`
	Advanced string `json:"advanced,omitempty"`
}

// RetrySection bounds oracle retries. Durations are in seconds.
type RetrySection struct {
	MaxRetries      int `json:"max_retries,omitempty" validate:"gte=0,lte=10"`
	CallTimeout     int `json:"call_timeout,omitempty" validate:"gte=0"`
	RateLimitBase   int `json:"rate_limit_base,omitempty" validate:"gte=0"`
	ServerErrorBase int `json:"server_error_base,omitempty" validate:"gte=0"`
	TimeoutDelay    int `json:"timeout_delay,omitempty" validate:"gte=0"`
}

// S3Section configures the S3-compatible object store
type S3Section struct {
	Region    string `json:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" validate:"omitempty,url"`
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
}

// Defaults returns the configuration used when neither a file nor a flag sets a value
func Defaults() Config {
	models := llm.DefaultGeminiConfig()
	policy := llm.DefaultRetryPolicy()
	return Config{
		ResumeIndex: "resumes/index.json",
		Output:      "output/",
		Models: Models{
			Lite:     models.Models[llm.TierLite],
			Standard: models.Models[llm.TierStandard],
			Advanced: models.Models[llm.TierAdvanced],
		},
		Temperature:     models.Temperature,
		MaxOutputTokens: models.MaxOutputTokens,
		Retry: RetrySection{
			MaxRetries:      policy.MaxRetries,
			CallTimeout:     int(policy.CallTimeout / time.Second),
			RateLimitBase:   int(policy.RateLimitBase / time.Second),
			ServerErrorBase: int(policy.ServerErrorBase / time.Second),
			TimeoutDelay:    int(policy.TimeoutDelay / time.Second),
		},
		LowMatchThreshold: selection.DefaultLowMatchThreshold,
		SecondaryRatio:    selection.DefaultSecondaryRatio,
		MinJobLength:      ingestion.DefaultMinJobLength,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field ranges with struct tags plus the cross-field rules
// tags cannot express. Required values are checked by the CLI after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			return fmt.Errorf("config error: '%s' failed '%s' check", field, fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
		return fmt.Errorf("config error: 's3.access_key' and 's3.secret_key' must be set together")
	}

	if c.Template != "" && !storage.IsS3URI(c.Template) {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	return nil
}

func orString(v, d string) string {
	if v == "" {
		return d
	}
	return v
}

func orInt(v, d int) int {
	if v == 0 {
		return d
	}
	return v
}

func orFloat(v, d float64) float64 {
	if v == 0 {
		return d
	}
	return v
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// Bools cannot distinguish unset from false, so they are never merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	result.ResumeIndex = orString(result.ResumeIndex, defaults.ResumeIndex)
	result.Output = orString(result.Output, defaults.Output)
	result.Template = orString(result.Template, defaults.Template)
	result.Tex = orString(result.Tex, defaults.Tex)
	result.PDF = orString(result.PDF, defaults.PDF)
	result.GDoc = orString(result.GDoc, defaults.GDoc)
	result.GoogleCredentials = orString(result.GoogleCredentials, defaults.GoogleCredentials)
	result.APIKey = orString(result.APIKey, defaults.APIKey)
	result.DatabaseURL = orString(result.DatabaseURL, defaults.DatabaseURL)

	result.Models.Lite = orString(result.Models.Lite, defaults.Models.Lite)
	result.Models.Standard = orString(result.Models.Standard, defaults.Models.Standard)
	result.Models.Advanced = orString(result.Models.Advanced, defaults.Models.Advanced)
	if result.MaxOutputTokens == 0 {
		result.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}

	result.Retry.MaxRetries = orInt(result.Retry.MaxRetries, defaults.Retry.MaxRetries)
	result.Retry.CallTimeout = orInt(result.Retry.CallTimeout, defaults.Retry.CallTimeout)
	result.Retry.RateLimitBase = orInt(result.Retry.RateLimitBase, defaults.Retry.RateLimitBase)
	result.Retry.ServerErrorBase = orInt(result.Retry.ServerErrorBase, defaults.Retry.ServerErrorBase)
	result.Retry.TimeoutDelay = orInt(result.Retry.TimeoutDelay, defaults.Retry.TimeoutDelay)

	result.LowMatchThreshold = orFloat(result.LowMatchThreshold, defaults.LowMatchThreshold)
	result.SecondaryRatio = orFloat(result.SecondaryRatio, defaults.SecondaryRatio)
	result.MinJobLength = orInt(result.MinJobLength, defaults.MinJobLength)

	result.S3.Region = orString(result.S3.Region, defaults.S3.Region)
	result.S3.Endpoint = orString(result.S3.Endpoint, defaults.S3.Endpoint)
	result.S3.AccessKey = orString(result.S3.AccessKey, defaults.S3.AccessKey)
	result.S3.SecretKey = orString(result.S3.SecretKey, defaults.S3.SecretKey)

	return result
}

// LLMConfig returns the model configuration with per-tier overrides applied
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultGeminiConfig().
		WithModel(llm.TierLite, c.Models.Lite).
		WithModel(llm.TierStandard, c.Models.Standard).
		WithModel(llm.TierAdvanced, c.Models.Advanced)
	if c.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = c.MaxOutputTokens
	}
	if c.Temperature > 0 {
		cfg.Temperature = c.Temperature
	}
	return cfg
}

// RetryPolicy converts the retry section. Zero fields keep the default.
func (c *Config) RetryPolicy() llm.RetryPolicy {
	p := llm.DefaultRetryPolicy()
	p.MaxRetries = c.Retry.MaxRetries
	if c.Retry.CallTimeout > 0 {
		p.CallTimeout = time.Duration(c.Retry.CallTimeout) * time.Second
	}
	if c.Retry.RateLimitBase > 0 {
		p.RateLimitBase = time.Duration(c.Retry.RateLimitBase) * time.Second
	}
	if c.Retry.ServerErrorBase > 0 {
		p.ServerErrorBase = time.Duration(c.Retry.ServerErrorBase) * time.Second
	}
	if c.Retry.TimeoutDelay > 0 {
		p.TimeoutDelay = time.Duration(c.Retry.TimeoutDelay) * time.Second
	}
	return p
}

// SelectionOptions returns the candidate selection thresholds
func (c *Config) SelectionOptions() selection.Options {
	opts := selection.DefaultOptions()
	if c.LowMatchThreshold > 0 {
		opts.LowMatchThreshold = c.LowMatchThreshold
	}
	if c.SecondaryRatio > 0 {
		opts.SecondaryRatio = c.SecondaryRatio
	}
	return opts
}

// S3Config returns the object store connection settings
func (c *Config) S3Config() storage.S3Config {
	return storage.S3Config{
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
	}
}

// UsesS3 reports whether any configured location needs an S3 client
func (c *Config) UsesS3() bool {
	for _, loc := range []string{c.ResumeIndex, c.Output, c.Template} {
		if storage.IsS3URI(loc) {
			return true
		}
	}
	return c.S3.Endpoint != ""
}
