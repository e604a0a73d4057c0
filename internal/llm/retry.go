package llm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy bounds retries of transient oracle failures.
// Backoff doubles per attempt from the base for the failure kind,
// except timeouts which wait a fixed delay.
type RetryPolicy struct {
	MaxRetries      int
	CallTimeout     time.Duration
	RateLimitBase   time.Duration
	ServerErrorBase time.Duration
	TimeoutDelay    time.Duration
}

// DefaultRetryPolicy returns the standard oracle retry policy
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		CallTimeout:     60 * time.Second,
		RateLimitBase:   5 * time.Second,
		ServerErrorBase: 2 * time.Second,
		TimeoutDelay:    2 * time.Second,
	}
}

// Backoff returns the wait before the retry that follows the given
// zero-based failed attempt.
func (p RetryPolicy) Backoff(err error, attempt int) time.Duration {
	switch {
	case errors.Is(err, ErrRateLimited):
		return p.RateLimitBase << attempt
	case errors.Is(err, ErrServer):
		return p.ServerErrorBase << attempt
	case errors.Is(err, ErrTimeout):
		return p.TimeoutDelay
	}
	return 0
}

// Retry calls fn until it succeeds, fails with a non-retryable error or the
// retry budget is spent. Each attempt gets its own CallTimeout deadline.
// Errors from fn are passed through Classify.
func Retry(ctx context.Context, p RetryPolicy, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log == nil {
		log = zap.NewNop()
	}
	attempts := p.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = callOnce(ctx, p.CallTimeout, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !IsRetryable(err) || attempt+1 >= attempts {
			return err
		}

		wait := p.Backoff(err, attempt)
		log.Warn("retrying llm call",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", p.MaxRetries),
			zap.Duration("backoff", wait),
			zap.Error(err))
		if sleepErr := sleepWithCtx(ctx, wait); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}

func callOnce(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return Classify(fn(callCtx))
}

func sleepWithCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
