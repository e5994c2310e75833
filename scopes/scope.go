package scopes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type scopeState int

const (
	stateOpen scopeState = iota
	stateClosing
	stateClosed
)

// Finalizer is a unit of cleanup bound to a scope. It receives the Outcome
// the scope closed with and may report its own failure, which the scope
// collects without stopping the remaining finalizers.
type Finalizer func(context.Context, Outcome) error

// Scope tracks one resource lifetime: an ordered list of finalizers run in
// reverse registration order (LIFO) exactly once, when the scope closes.
//
// State machine: Open -> Closing -> Closed. Open accepts registrations,
// Closing is entered exactly once and runs the finalizers, Closed rejects
// new registrations with ErrScopeClosed.
type Scope struct {
	ScopeId string

	mu         sync.Mutex
	state      scopeState
	finalizers []Finalizer
	parent     *Scope
	host       *Scope
	logger     *zap.Logger
	openedAt   time.Time
	closedAt   time.Time
}

// Option is a modifier for scopes.
type Option func(*Scope)

// WithLogger returns an option that sets the scope's lifecycle logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scope) {
		s.logger = logger
	}
}

// New creates an open scope with no registered finalizers.
func New(opts ...Option) *Scope {
	s := &Scope{
		ScopeId:  uuid.New().String(),
		state:    stateOpen,
		logger:   zap.NewNop(),
		openedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger.Sugar().Debugf("opened scope: scopeId: %v", s.ScopeId)
	return s
}

// Child creates an independent child scope. The child records s as its
// parent but owns its own finalizer list and its own lifetime: closing s
// does not close the child, and the two may close in either order.
func (s *Scope) Child() *Scope {
	child := New(WithLogger(s.logger))
	child.parent = s
	return child
}

// Extend returns a handle that shares s's lifetime. Finalizers registered
// through the handle merge into s's list and run when s closes; Close on
// the handle itself is a no-op. Use Extend when a resource must outlive the
// block that acquired it but not the enclosing scope.
func (s *Scope) Extend() *Scope {
	if s.host != nil {
		return s.host.Extend()
	}
	return &Scope{
		ScopeId:  uuid.New().String(),
		host:     s,
		logger:   s.logger,
		openedAt: s.openedAt,
	}
}

// Parent returns the scope this one was created under, or nil.
func (s *Scope) Parent() *Scope {
	if s.host != nil {
		return s.host.Parent()
	}
	return s.parent
}

// Closed reports whether the scope has finished closing.
func (s *Scope) Closed() bool {
	if s.host != nil {
		return s.host.Closed()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateClosed
}

// AddFinalizer appends f to the scope's finalizer list. It fails with
// ErrScopeClosed once the scope has left the Open state.
func (s *Scope) AddFinalizer(f Finalizer) error {
	if s.host != nil {
		return s.host.AddFinalizer(f)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateOpen {
		return fmt.Errorf("%w: scope %s", ErrScopeClosed, s.ScopeId)
	}
	s.finalizers = append(s.finalizers, f)
	return nil
}

// Close marks the scope closed and runs every registered finalizer in
// strict reverse registration order, passing out to each. A finalizer's
// failure (or panic, converted to a PanicError) is captured and does not
// stop the remaining finalizers; the captured failures are returned
// together as a *FinalizerError.
//
// Close is idempotent: closing an already-closed (or extended) scope is a
// no-op returning nil. The finalizers of the first close never rerun.
func (s *Scope) Close(ctx context.Context, out Outcome) error {
	if s.host != nil {
		// Extended handles share the host's lifetime; the host closes them.
		return nil
	}

	s.mu.Lock()
	if s.state != stateOpen {
		s.mu.Unlock()
		return nil
	}
	s.state = stateClosing
	fins := s.finalizers
	s.finalizers = nil
	s.mu.Unlock()

	s.logger.Sugar().Debugf(
		"closing scope: scopeId: %v, outcome: %v, finalizers: %d",
		s.ScopeId, out, len(fins),
	)

	var errs error
	for i := len(fins) - 1; i >= 0; i-- {
		if err := runFinalizer(ctx, fins[i], out); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	s.mu.Lock()
	s.state = stateClosed
	s.closedAt = time.Now()
	s.mu.Unlock()

	s.logger.Sugar().Debugf("closed scope: scopeId: %v", s.ScopeId)

	if errs != nil {
		return &FinalizerError{ScopeId: s.ScopeId, Err: errs}
	}
	return nil
}

// runFinalizer invokes one finalizer, converting a panic into a PanicError
// so the remaining finalizers still run.
func runFinalizer(ctx context.Context, f Finalizer, out Outcome) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Recovered: r}
		}
	}()
	return f(ctx, out)
}
