// ABOUTME: Single-goroutine event loop that serializes all session work.
// ABOUTME: Geolocation results, commands, MCP calls and timers are funneled through it.
package session

import (
	"context"
	"sync"
)

// Loop runs posted functions one at a time on the goroutine that calls Run.
type Loop struct {
	queue    chan func()
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop with room for buffer pending functions.
func NewLoop(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		queue:   make(chan func(), buffer),
		stopped: make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.stopped) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post enqueues fn. It is dropped if the loop has stopped.
// Must not be called from the loop goroutine while the queue is full.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.stopped:
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case l.queue <- func() { defer close(done); fn() }:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-l.stopped:
		select {
		case <-done:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}
