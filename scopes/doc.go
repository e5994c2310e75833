// Package scopes provides tracked resource lifetimes for Go.
//
// A Scope owns an ordered list of finalizers — cleanup actions that run in
// reverse registration order (LIFO) exactly once, when the scope closes.
// Each finalizer receives the Outcome the scope closed with (Success,
// Failure, or Interrupted), so cleanup can branch on how the owning
// computation concluded.
//
// # Why scopes?
//
// Go gives you defer, but defer is bound to a single function frame and
// knows nothing about why the frame is unwinding. A Scope is a first-class
// lifetime: it can be passed around, extended, nested, and closed from a
// different frame than the one that opened it, and every cleanup it owns
// sees the closing outcome.
//
// # How does it work?
//
// Scopes travel through context. `Run(ctx, fn)` opens a scope, threads it
// into fn's context, and guarantees the scope closes on every exit path —
// normal return, error, cancellation, or panic. Inside the block,
// `AcquireRelease(ctx, acquire, release)` obtains a resource and binds its
// release to the ambient scope automatically.
//
// Example:
//
//	err := scopes.Run(ctx, func(ctx context.Context) error {
//	    f, err := scopes.AcquireRelease(ctx,
//	        func(ctx context.Context) (*os.File, error) { return os.Open(path) },
//	        func(ctx context.Context, f *os.File, _ scopes.Outcome) error { return f.Close() },
//	    )
//	    if err != nil {
//	        return err
//	    }
//	    return use(ctx, f)
//	})
package scopes
