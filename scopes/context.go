package scopes

import (
	"context"

	"github.com/on-the-ground/scope_ive_go/shared/helper"
)

type key struct{}

var contextKey = &key{}

// NewContext returns a context carrying s as the ambient scope.
func NewContext(parent context.Context, s *Scope) context.Context {
	return context.WithValue(parent, contextKey, s)
}

// FromContext extracts the ambient scope from ctx, if any.
func FromContext(ctx context.Context) (*Scope, bool) {
	return helper.GetTypedValueOf2[*Scope](func() (any, bool) {
		v := ctx.Value(contextKey)
		return v, v != nil
	})
}
