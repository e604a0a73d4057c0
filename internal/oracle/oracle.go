// Package oracle turns LLM completions into validated, typed stage records.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/logger"
	"github.com/jonathan/resume-agent/internal/schemas"
	"go.uber.org/zap"
)

// Request is one structured completion for a pipeline stage
type Request struct {
	Stage  string
	Prompt string
	// Schema names the embedded JSON Schema the response must satisfy
	Schema string
	Tier   llm.ModelTier
}

// Oracle completes a prompt into the record pointed to by out.
// Transient failures surface as llm.ErrRateLimited, llm.ErrTimeout or
// llm.ErrServer after retries; contract failures as llm.ErrInvalidResponse
// or llm.ErrSchemaMismatch.
type Oracle interface {
	Complete(ctx context.Context, req Request, out any) error
}

// Client is the LLM-backed Oracle
type Client struct {
	llm      llm.Client
	policy   llm.RetryPolicy
	log      *zap.Logger
	validate *validator.Validate
}

// Option configures a Client
type Option func(*Client)

// WithRetryPolicy overrides the default retry policy
func WithRetryPolicy(p llm.RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logger.OrNop(l) }
}

// New creates an Oracle over an LLM client
func New(client llm.Client, opts ...Option) *Client {
	c := &Client{
		llm:      client,
		policy:   llm.DefaultRetryPolicy(),
		log:      zap.NewNop(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete calls the model with retries and decodes the validated response into out
func (c *Client) Complete(ctx context.Context, req Request, out any) error {
	log := c.log.With(logger.StageFields(req.Stage, 0)...)
	log = logger.WithFields(log, logger.CommonFields(string(llm.ProviderGemini), c.llm.GetModel(req.Tier))...)
	log.Debug("oracle request", zap.String("prompt", logger.TruncateForLog(req.Prompt, 400)))

	start := time.Now()
	var raw string
	err := llm.Retry(ctx, c.policy, log, func(ctx context.Context) error {
		var genErr error
		raw, genErr = c.llm.GenerateJSON(ctx, req.Prompt, req.Tier)
		return genErr
	})
	if err != nil {
		return fmt.Errorf("stage %s: %w", req.Stage, err)
	}

	log.Debug("oracle response",
		zap.Duration("elapsed", time.Since(start)),
		zap.String("response", logger.TruncateForLog(raw, 400)))

	return Decode(c.validate, req, raw, out)
}

// Decode checks raw against the request's schema and decodes it into out,
// then applies struct validation tags.
func Decode(v *validator.Validate, req Request, raw string, out any) error {
	raw = llm.CleanJSONBlock(raw)
	if !json.Valid([]byte(raw)) {
		return fmt.Errorf("stage %s: %w: %s", req.Stage, llm.ErrInvalidResponse, logger.TruncateForLog(raw, 120))
	}

	if req.Schema != "" {
		if err := schemas.Validate(req.Schema, raw); err != nil {
			var ve *schemas.ValidationError
			if errors.As(err, &ve) {
				return fmt.Errorf("stage %s: %w: %w", req.Stage, llm.ErrSchemaMismatch, err)
			}
			return fmt.Errorf("stage %s: %w", req.Stage, err)
		}
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("stage %s: %w: %w", req.Stage, llm.ErrSchemaMismatch, err)
	}

	if v != nil {
		if err := v.Struct(out); err != nil {
			var invalid *validator.InvalidValidationError
			if !errors.As(err, &invalid) {
				return fmt.Errorf("stage %s: %w: %w", req.Stage, llm.ErrSchemaMismatch, err)
			}
		}
	}
	return nil
}
