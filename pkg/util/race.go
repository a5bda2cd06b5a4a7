package util

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned by RaceTimeout when the deadline wins the race.
var ErrTimeout = errors.New("operation timed out")

// RaceTimeout runs fn in its own goroutine and returns whichever settles first:
// fn's result or a timer firing after d. When the timer wins, fn keeps running
// with the caller's ctx and its result is dropped into a buffered channel and
// discarded. The race does not cancel fn's in-flight I/O.
//
// A non-positive d disables the race and calls fn directly.
func RaceTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v: v, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case r := <-done:
		return r.v, r.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
