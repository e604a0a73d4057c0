package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Transient oracle failures; retried with backoff
var (
	ErrRateLimited = errors.New("llm rate limited")
	ErrTimeout     = errors.New("llm call timed out")
	ErrServer      = errors.New("llm server error")
)

// Contract failures; never retried
var (
	ErrInvalidResponse = errors.New("llm returned invalid JSON")
	ErrSchemaMismatch  = errors.New("llm response does not match schema")
)

// IsRetryable reports whether err is a transient oracle failure
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrServer)
}

// Classify maps a provider error onto the transient sentinels. The original
// error stays in the chain. Errors that are not transient are returned unchanged.
func Classify(err error) error {
	if err == nil || IsRetryable(err) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if sentinel := classifyHTTP(apiErr.Code); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
		return err
	}

	if st, ok := status.FromError(err); ok {
		if sentinel := classifyGRPC(st.Code()); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
	}
	return err
}

func classifyHTTP(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return ErrTimeout
	case code >= 500:
		return ErrServer
	}
	return nil
}

func classifyGRPC(code codes.Code) error {
	switch code {
	case codes.ResourceExhausted:
		return ErrRateLimited
	case codes.DeadlineExceeded:
		return ErrTimeout
	case codes.Unavailable, codes.Internal, codes.Unknown:
		return ErrServer
	}
	return nil
}
