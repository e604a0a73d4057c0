// Package llm provides the Gemini client, model tiers and retry policy used by the oracle.
package llm

import "fmt"

// ModelTier selects how capable (and how expensive) a model a stage gets
type ModelTier string

const (
	// TierLite extracts records from already structured text
	TierLite ModelTier = "lite"
	// TierStandard writes short structured sections: header, skills, review
	TierStandard ModelTier = "standard"
	// TierAdvanced rewrites roles, scores resumes and covers gaps
	TierAdvanced ModelTier = "advanced"
)

// Tiers lists every tier from least to most capable
var Tiers = []ModelTier{TierLite, TierStandard, TierAdvanced}

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	// MaxOutputTokens caps each response; zero leaves the provider default
	MaxOutputTokens int32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the Gemini models used per tier
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     0.2,
		MaxOutputTokens: 8192,
	}
}

func tierRank(tier ModelTier) int {
	for i, t := range Tiers {
		if t == tier {
			return i
		}
	}
	return len(Tiers) - 1
}

// GetModel returns the model for tier. An unset tier falls back to the
// next less capable tier that has a model.
func (c *Config) GetModel(tier ModelTier) string {
	if model := c.Models[tier]; model != "" {
		return model
	}
	for i := tierRank(tier) - 1; i >= 0; i-- {
		if model := c.Models[Tiers[i]]; model != "" {
			return model
		}
	}
	return ""
}

// Clone returns a deep copy
func (c *Config) Clone() *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models))
	for k, v := range c.Models {
		out.Models[k] = v
	}
	return &out
}

// WithModel returns a copy with model set for tier.
// An empty model leaves the tier unchanged.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := c.Clone()
	if model != "" {
		out.Models[tier] = model
	}
	return out
}

// Validate reports a config no stage could run with
func (c *Config) Validate() error {
	for _, tier := range Tiers {
		if c.GetModel(tier) == "" {
			return fmt.Errorf("no model configured for tier %s", tier)
		}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Temperature)
	}
	return nil
}
