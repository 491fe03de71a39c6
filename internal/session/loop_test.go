// ABOUTME: Tests for the session event loop.
// ABOUTME: Checks ordering, Do round trips, and behavior after shutdown.
package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopRunsInOrder(t *testing.T) {
	l := NewLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	require.NoError(t, l.Do(ctx, func() {}))

	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestLoopDoWaits(t *testing.T) {
	l := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	ran := false
	require.NoError(t, l.Do(ctx, func() { ran = true }))
	require.True(t, ran)
}

func TestLoopStopped(t *testing.T) {
	l := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}

	err := l.Do(context.Background(), func() {})
	if err != nil {
		require.ErrorIs(t, err, ErrLoopStopped)
	}

	// Post after stop must not block.
	done := make(chan struct{})
	go func() {
		l.Post(func() {})
		l.Post(func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Post blocked on stopped loop")
	}
}
