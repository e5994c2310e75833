package layers

import (
	"context"

	"github.com/google/uuid"

	"github.com/on-the-ground/scope_ive_go/scopes"
)

type layerKind int

const (
	kindLeaf layerKind = iota
	kindMerge
	kindProvide
)

// Layer is a declarative recipe for building one service plus the tags it
// requires, or a composition of such recipes. Memoization during Resolve is
// keyed by layer identity, so the same *Layer reachable through several
// branches constructs once, while two layers providing the same tag stay
// distinct.
type Layer struct {
	id    string
	name  string
	kind  layerKind
	fresh bool

	// leaf
	out   *tagCore
	deps  []*tagCore
	build func(context.Context, *Registry) (any, error)

	// composite: all children for merge, [target, source] for provide
	children []*Layer
}

// Name returns the layer's diagnostic name.
func (l *Layer) Name() string { return l.name }

func newLeaf(name string, out *tagCore, deps []TagRef, build func(context.Context, *Registry) (any, error)) *Layer {
	cores := make([]*tagCore, len(deps))
	for i, d := range deps {
		cores[i] = d.ref()
	}
	return &Layer{
		id:    uuid.New().String(),
		name:  name,
		kind:  kindLeaf,
		out:   out,
		deps:  cores,
		build: build,
	}
}

// Succeed returns a layer that trivially provides a precomputed value for tag.
func Succeed[T any](tag Tag[T], value T) *Layer {
	return newLeaf(tag.Name(), tag.ref(), nil,
		func(context.Context, *Registry) (any, error) {
			return value, nil
		})
}

// FromEffect returns a layer whose value is produced by running build with
// a registry holding the declared deps, already resolved.
func FromEffect[T any](
	tag Tag[T],
	deps []TagRef,
	build func(context.Context, *Registry) (T, error),
) *Layer {
	return newLeaf(tag.Name(), tag.ref(), deps,
		func(ctx context.Context, reg *Registry) (any, error) {
			return build(ctx, reg)
		})
}

// Scoped returns a layer whose construction pairs acquire with an
// outcome-aware release via scopes.AcquireRelease, binding the release to
// the scope ambient during resolution. Resolving a graph containing a
// Scoped layer therefore requires a context carrying a scope, e.g. inside
// scopes.Run.
func Scoped[T any](
	tag Tag[T],
	deps []TagRef,
	acquire func(context.Context, *Registry) (T, error),
	release func(context.Context, T, scopes.Outcome) error,
) *Layer {
	return newLeaf(tag.Name(), tag.ref(), deps,
		func(ctx context.Context, reg *Registry) (any, error) {
			return scopes.AcquireRelease(ctx,
				func(ctx context.Context) (T, error) {
					return acquire(ctx, reg)
				},
				release,
			)
		})
}

// Merge composes layers horizontally: the result provides the union of the
// children's outputs. Children do not see each other's outputs; their
// dependencies must be independently satisfied (use Provide for that).
// On duplicate output tags the later child wins.
func Merge(ls ...*Layer) *Layer {
	return &Layer{
		id:       uuid.New().String(),
		name:     "merge",
		kind:     kindMerge,
		children: ls,
	}
}

// Provide composes layers vertically: source's outputs become visible, with
// precedence, to target's resolution. The combined layer exposes target's
// outputs; target's requirements not met by source remain requirements of
// the combined layer.
func Provide(target, source *Layer) *Layer {
	return &Layer{
		id:       uuid.New().String(),
		name:     "provide",
		kind:     kindProvide,
		children: []*Layer{target, source},
	}
}

// Fresh returns a copy of l whose construction bypasses memoization,
// guaranteeing a distinct instance even when the original layer appears
// elsewhere in the same graph. Composite layers are copied recursively.
func Fresh(l *Layer) *Layer {
	c := *l
	c.id = uuid.New().String()
	c.fresh = true
	if len(l.children) > 0 {
		c.children = make([]*Layer, len(l.children))
		for i, ch := range l.children {
			c.children[i] = Fresh(ch)
		}
	}
	return &c
}
