// Package exec races downstream calls against a wall-clock budget so a slow
// dependency turns into a distinct timeout outcome instead of a hung request.
package exec

import (
	"context"
	"time"
)

// Outcome is the tagged result of a bounded call: exactly one of Success,
// Failure or TimedOut holds.
type Outcome[T any] struct {
	Value    T
	Err      error
	TimedOut bool
}

func (o Outcome[T]) Success() bool {
	return !o.TimedOut && o.Err == nil
}

type result[T any] struct {
	value T
	err   error
}

// Run starts op concurrently and waits for whichever finishes first, op or
// the budget timer. The operation is not cancelled when the budget elapses;
// it is abandoned and its late result is dropped by the buffered channel, so
// the goroutine never leaks and no second outcome is ever produced.
func Run[T any](ctx context.Context, budget time.Duration, op func(context.Context) (T, error)) Outcome[T] {
	done := make(chan result[T], 1)
	go func() {
		v, err := op(ctx)
		done <- result[T]{value: v, err: err}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case r := <-done:
		return Outcome[T]{Value: r.value, Err: r.err}
	case <-timer.C:
		return Outcome[T]{TimedOut: true}
	}
}
