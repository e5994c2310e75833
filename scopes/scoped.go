package scopes

import (
	"context"
	"errors"

	"go.uber.org/multierr"
)

// Run executes fn inside a freshly created scope threaded through fn's
// context, and guarantees the scope closes on every exit path:
//   - normal return closes with Success,
//   - an error return closes with Failure (or Interrupted when the error is
//     a context cancellation),
//   - a panic closes with Failure wrapping a PanicError, then re-panics.
//
// Finalizer failures raised during the close are merged into fn's error via
// multierr rather than replacing it, so the primary failure stays visible.
func Run(ctx context.Context, fn func(context.Context) error, opts ...Option) error {
	_, err := RunWith(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts...)
	return err
}

// RunWith is the value-returning variant of Run.
func RunWith[T any](
	ctx context.Context,
	fn func(context.Context) (T, error),
	opts ...Option,
) (val T, err error) {
	s := New(opts...)
	scopedCtx := NewContext(ctx, s)

	defer func() {
		if r := recover(); r != nil {
			_ = s.Close(scopedCtx, Failure(&PanicError{Recovered: r}))
			panic(r)
		}
	}()

	val, err = fn(scopedCtx)

	if closeErr := s.Close(scopedCtx, outcomeOf(scopedCtx, val, err)); closeErr != nil {
		err = multierr.Append(err, closeErr)
	}
	return val, err
}

// outcomeOf classifies how a scoped block ended.
func outcomeOf(ctx context.Context, val any, err error) Outcome {
	switch {
	case err == nil && ctx.Err() == nil:
		return Success(val)
	case err == nil:
		return Interrupted(ctx.Err())
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return Interrupted(err)
	default:
		return Failure(err)
	}
}
