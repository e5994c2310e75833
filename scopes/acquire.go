package scopes

import (
	"context"

	"go.uber.org/multierr"
)

// AcquireRelease runs acquire to obtain a resource and, on success,
// registers release as a finalizer of the ambient scope carried by ctx.
// The resource is returned to the caller for use; release then runs exactly
// once when the scope closes, receiving the closing Outcome.
//
// If acquire fails, nothing is registered. If the scope closed between the
// acquisition and the registration, release runs immediately so the
// resource cannot leak, and the registration error is returned.
func AcquireRelease[T any](
	ctx context.Context,
	acquire func(context.Context) (T, error),
	release func(context.Context, T, Outcome) error,
) (T, error) {
	var zero T

	s, ok := FromContext(ctx)
	if !ok {
		return zero, ErrNoScope
	}

	res, err := acquire(ctx)
	if err != nil {
		return zero, err
	}

	if regErr := s.AddFinalizer(func(ctx context.Context, out Outcome) error {
		return release(ctx, res, out)
	}); regErr != nil {
		relErr := release(ctx, res, Failure(regErr))
		return zero, multierr.Append(regErr, relErr)
	}

	return res, nil
}
