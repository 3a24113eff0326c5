package games

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/botarena/botarena/internal/arena"
)

// call invokes a single bot method under the per-call deadline. A bot that
// panics, returns an error, or fails to answer in time yields a move error;
// if the caller's context is cancelled the result is arena.ErrCancelled.
//
// A bot that ignores cancellation keeps running in its goroutine, but its
// answer is abandoned: the deadline bounds how long the match waits.
func call[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		value T
		err   error
	}
	replies := make(chan reply, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				replies <- reply{zero, fmt.Errorf("bot panic: %v", r)}
			}
		}()
		v, err := fn(callCtx)
		replies <- reply{v, err}
	}()

	select {
	case r := <-replies:
		if r.err != nil {
			var zero T
			if ctx.Err() != nil {
				return zero, arena.ErrCancelled
			}
			// A cooperative bot may surface the deadline itself.
			if errors.Is(r.err, context.DeadlineExceeded) {
				return zero, arena.ErrMoveTimeout
			}
			return zero, r.err
		}
		return r.value, r.err
	case <-callCtx.Done():
		var zero T
		if ctx.Err() != nil {
			return zero, arena.ErrCancelled
		}
		return zero, arena.ErrMoveTimeout
	}
}
