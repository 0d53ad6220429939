package server

import (
	"context"
	"fmt"

	"linkedin_post_generator/generator"
)

type outcome[T any] struct {
	val T
	err error
}

// await runs fn on its own goroutine and waits for it or for ctx, whichever comes first.
// fn receives ctx, so cancelling the request also aborts the in-flight upstream call.
func await[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	done := make(chan outcome[T], 1)
	go func() {
		v, err := fn(ctx)
		done <- outcome[T]{val: v, err: err}
	}()

	select {
	case o := <-done:
		return o.val, o.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %w", generator.ErrUpstreamGeneration, ctx.Err())
	}
}
