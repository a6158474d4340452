package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEveryRunsRepeatedlyUntilCancelled(t *testing.T) {
	s, err := New(zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	require.NoError(t, s.Every(ctx, "count", 20*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return errors.New("logged, not fatal")
	}))

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestEveryRejectsInvalidInterval(t *testing.T) {
	s, err := New(zap.NewNop())
	require.NoError(t, err)

	err = s.Every(context.Background(), "bad", 0, func(context.Context) error { return nil })
	assert.Error(t, err)
}
