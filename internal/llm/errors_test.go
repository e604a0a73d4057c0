package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	plain := errors.New("bad request")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"http 429", &googleapi.Error{Code: 429}, ErrRateLimited},
		{"http 503", &googleapi.Error{Code: 503}, ErrServer},
		{"http 504", &googleapi.Error{Code: 504}, ErrTimeout},
		{"wrapped http 500", fmt.Errorf("call: %w", &googleapi.Error{Code: 500}), ErrServer},
		{"grpc resource exhausted", status.Error(codes.ResourceExhausted, "quota"), ErrRateLimited},
		{"grpc unavailable", status.Error(codes.Unavailable, "down"), ErrServer},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "slow"), ErrTimeout},
		{"context deadline", context.DeadlineExceeded, ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.ErrorIs(t, got, tt.sentinel)
			assert.ErrorIs(t, got, tt.err)
			assert.True(t, IsRetryable(got))
		})
	}

	t.Run("non transient unchanged", func(t *testing.T) {
		assert.Equal(t, plain, Classify(plain))
		assert.False(t, IsRetryable(Classify(&googleapi.Error{Code: 400})))
		assert.False(t, IsRetryable(Classify(status.Error(codes.InvalidArgument, "bad"))))
		assert.False(t, IsRetryable(Classify(context.Canceled)))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Classify(nil))
	})

	t.Run("contract errors are not retryable", func(t *testing.T) {
		assert.False(t, IsRetryable(ErrInvalidResponse))
		assert.False(t, IsRetryable(ErrSchemaMismatch))
	})
}
