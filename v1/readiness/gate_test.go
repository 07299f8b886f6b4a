package readiness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitSucceedsAfterRetries(t *testing.T) {
	gate := NewGate(Config{Interval: time.Millisecond, MaxAttempts: 10})

	attempts := 0
	probe := func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	err := gate.Await(context.Background(), "broker", probe)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestAwaitExhaustsBudgetExactly(t *testing.T) {
	gate := NewGate(Config{Interval: time.Millisecond, MaxAttempts: 3})

	attempts := 0
	probe := func(ctx context.Context) error {
		attempts++
		return errors.New("connection refused")
	}

	err := gate.Await(context.Background(), "broker", probe)
	require.Error(t, err)
	assert.True(t, IsServiceUnavailable(err))
	assert.Equal(t, 3, attempts, "probe must run exactly MaxAttempts times")
	assert.Contains(t, err.Error(), "broker")
}

func TestAwaitHonorsCancellation(t *testing.T) {
	gate := NewGate(Config{Interval: time.Hour, MaxAttempts: 0})

	ctx, cancel := context.WithCancel(context.Background())

	probe := func(ctx context.Context) error {
		return errors.New("connection refused")
	}

	done := make(chan error, 1)
	go func() {
		done <- gate.Await(ctx, "broker", probe)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Await did not return after cancellation")
	}
}

func TestAwaitCancelledBeforeFirstProbe(t *testing.T) {
	gate := NewGate(Config{Interval: time.Millisecond, MaxAttempts: 3})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := gate.Await(ctx, "registry", func(ctx context.Context) error {
		attempts++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, attempts, "no probe may run after cancellation")
}

func TestAwaitAllReportsFirstFailure(t *testing.T) {
	gate := NewGate(Config{Interval: time.Millisecond, MaxAttempts: 2})

	probes := map[string]Probe{
		"broker": func(ctx context.Context) error { return nil },
		"schema-registry": func(ctx context.Context) error {
			return errors.New("503 service unavailable")
		},
	}

	err := gate.AwaitAll(context.Background(), probes)
	require.Error(t, err)
	assert.True(t, IsServiceUnavailable(err))
	assert.Contains(t, err.Error(), "schema-registry")
}

func TestAwaitAllSucceeds(t *testing.T) {
	gate := NewGate(Config{Interval: time.Millisecond, MaxAttempts: 5})

	err := gate.AwaitAll(context.Background(), map[string]Probe{
		"broker":          func(ctx context.Context) error { return nil },
		"schema-registry": func(ctx context.Context) error { return nil },
	})
	assert.NoError(t, err)
}
