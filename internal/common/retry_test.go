package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryOptions {
	return RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	errTransient := errors.New("transient")

	tests := []struct {
		err       func(call int) error
		name      string
		wantIs    error
		attempts  int
		wantCalls int
	}{
		{
			name:      "succeeds first time",
			err:       func(int) error { return nil },
			attempts:  3,
			wantCalls: 1,
		},
		{
			name: "succeeds after transient failures",
			err: func(call int) error {
				if call < 3 {
					return errTransient
				}
				return nil
			},
			attempts:  3,
			wantCalls: 3,
		},
		{
			name:      "exhausts attempts",
			err:       func(int) error { return errTransient },
			attempts:  2,
			wantCalls: 2,
			wantIs:    ErrMaxRetries,
		},
		{
			name:      "permanent error stops immediately",
			err:       func(int) error { return Permanent(errTransient) },
			attempts:  5,
			wantCalls: 1,
			wantIs:    errTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				return tt.err(calls)
			}, fastRetry(tt.attempts))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantIs == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestWithRetry_ExhaustedKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := WithRetry(context.Background(), func() error { return cause }, fastRetry(2))

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.ErrorIs(t, err, cause)
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	opts := RetryOptions{MaxAttempts: 5, InitialDelay: time.Second, MaxDelay: time.Second, Multiplier: 1}

	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return errors.New("fail")
	}, opts)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("search companies", cause)

	require.Error(t, err)
	assert.True(t, IsStoreError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store search companies: connection refused", err.Error())

	assert.Same(t, err, NewStoreError("outer", err))
	assert.NoError(t, NewStoreError("noop", nil))
	assert.False(t, IsStoreError(cause))
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not load taxonomy", ErrMissingConfig)
	assert.ErrorIs(t, err, ErrMissingConfig)
	assert.Equal(t, "could not load taxonomy: missing configuration", err.Error())

	assert.Equal(t, "plain", NewUserError("plain", nil).Error())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(Permanent(errors.New("x"))))
	assert.False(t, IsRetryable(errors.New("x")))
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "info", "warn", "error", "INFO"} {
		_, err := ParseLevel(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
