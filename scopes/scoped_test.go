package scopes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/on-the-ground/scope_ive_go/scopes"
)

func TestRun_ClosesWithSuccess(t *testing.T) {
	ctx := context.Background()

	var seen scopes.Outcome
	err := scopes.Run(ctx, func(ctx context.Context) error {
		s, ok := scopes.FromContext(ctx)
		require.True(t, ok)
		return s.AddFinalizer(func(_ context.Context, out scopes.Outcome) error {
			seen = out
			return nil
		})
	})
	require.NoError(t, err)
	require.True(t, seen.Succeeded())
}

func TestRun_BodyFailureClosesWithFailure(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("body failed")

	var seen scopes.Outcome
	err := scopes.Run(ctx, func(ctx context.Context) error {
		s, _ := scopes.FromContext(ctx)
		_ = s.AddFinalizer(func(_ context.Context, out scopes.Outcome) error {
			seen = out
			return nil
		})
		return cause
	})
	require.ErrorIs(t, err, cause)
	require.True(t, seen.Failed())
	require.ErrorIs(t, seen.Err(), cause)
}

func TestRun_FinalizerFailureMergesWithPrimary(t *testing.T) {
	ctx := context.Background()
	primary := errors.New("primary failure")
	cleanup := errors.New("cleanup failure")

	err := scopes.Run(ctx, func(ctx context.Context) error {
		s, _ := scopes.FromContext(ctx)
		_ = s.AddFinalizer(func(_ context.Context, _ scopes.Outcome) error {
			return cleanup
		})
		return primary
	})

	// The primary failure stays visible; the finalizer failure is merged
	// alongside it, never replacing it.
	require.ErrorIs(t, err, primary)
	require.ErrorIs(t, err, cleanup)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	require.ErrorIs(t, errs[0], primary)
}

func TestRun_CancellationClosesWithInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var seen scopes.Outcome
	err := scopes.Run(ctx, func(ctx context.Context) error {
		s, _ := scopes.FromContext(ctx)
		_ = s.AddFinalizer(func(_ context.Context, out scopes.Outcome) error {
			seen = out
			return nil
		})
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, seen.WasInterrupted())
}

func TestRun_PanicStillRunsFinalizers(t *testing.T) {
	ctx := context.Background()

	var seen scopes.Outcome
	ran := false

	require.PanicsWithValue(t, "boom", func() {
		_ = scopes.Run(ctx, func(ctx context.Context) error {
			s, _ := scopes.FromContext(ctx)
			_ = s.AddFinalizer(func(_ context.Context, out scopes.Outcome) error {
				ran = true
				seen = out
				return nil
			})
			panic("boom")
		})
	})

	require.True(t, ran, "finalizers must run before the panic propagates")
	require.True(t, seen.Failed())

	var pe *scopes.PanicError
	require.ErrorAs(t, seen.Err(), &pe)
}

func TestRunWith_ReturnsBodyValue(t *testing.T) {
	ctx := context.Background()

	val, err := scopes.RunWith(ctx, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, val)
}

func TestRun_NestedScopesCloseInnerFirst(t *testing.T) {
	ctx := context.Background()

	var order []string
	err := scopes.Run(ctx, func(ctx context.Context) error {
		outer, _ := scopes.FromContext(ctx)
		_ = outer.AddFinalizer(func(_ context.Context, _ scopes.Outcome) error {
			order = append(order, "outer")
			return nil
		})
		return scopes.Run(ctx, func(ctx context.Context) error {
			inner, _ := scopes.FromContext(ctx)
			require.NotEqual(t, outer.ScopeId, inner.ScopeId)
			return inner.AddFinalizer(func(_ context.Context, _ scopes.Outcome) error {
				order = append(order, "inner")
				return nil
			})
		})
	})
	require.NoError(t, err)
	require.Equal(t, []string{"inner", "outer"}, order)
}
