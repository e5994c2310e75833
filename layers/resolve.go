package layers

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// provider pairs a leaf layer with the environment its dependencies must be
// looked up in. Provide nodes introduce nested environments, so the same
// leaf can be exposed under different environments at different places in
// the graph.
type provider struct {
	layer *Layer
	env   *env
}

// env is a chain of tag -> provider maps, innermost first.
type env struct {
	parent *env
	byTag  map[*tagCore]provider
}

func (e *env) provider(tag *tagCore) (provider, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if p, ok := cur.byTag[tag]; ok {
			return p, true
		}
	}
	return provider{}, false
}

// exposed collects the providers a layer makes visible to its surroundings,
// recording for each the environment its own deps resolve in.
func exposed(l *Layer, resolveEnv *env) map[*tagCore]provider {
	switch l.kind {
	case kindLeaf:
		return map[*tagCore]provider{l.out: {layer: l, env: resolveEnv}}

	case kindMerge:
		union := make(map[*tagCore]provider)
		for _, ch := range l.children {
			for tag, p := range exposed(ch, resolveEnv) {
				union[tag] = p
			}
		}
		return union

	case kindProvide:
		target, source := l.children[0], l.children[1]
		inner := &env{parent: resolveEnv, byTag: exposed(source, resolveEnv)}
		return exposed(target, inner)

	default:
		panic("exhaustive match")
	}
}

type resolution struct {
	logger *zap.Logger
	memo   *memoTable
}

// Resolve topologically resolves graph, constructing each unique non-fresh
// layer identity at most once, and returns a registry mapping every
// required tag to its instance.
//
// The graph is validated before anything is constructed: a required or
// depended-upon tag without a provider yields a *MissingDependencyError and
// an unorderable graph a *CyclicDependencyError, in both cases without
// running any constructor. Construction then resolves each layer's
// declared dependencies concurrently; the first constructor failure cancels
// the remaining branches and aborts the whole resolution ("first failure
// wins"), surfacing as a *ConstructionError.
func Resolve(ctx context.Context, graph *Layer, required ...TagRef) (*Registry, error) {
	logger, _ := zap.NewProduction()

	rootEnv := &env{byTag: exposed(graph, nil)}

	roots := make([]provider, len(required))
	checked := make(map[provider]bool)
	for i, t := range required {
		tag := t.ref()
		p, ok := rootEnv.provider(tag)
		if !ok {
			return nil, &MissingDependencyError{Tag: tag.name}
		}
		if err := validate(p, nil, checked); err != nil {
			return nil, err
		}
		roots[i] = p
	}

	res := &resolution{logger: logger, memo: newMemoTable()}

	out := newRegistry()
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range required {
		tag := t.ref()
		p := roots[i]
		g.Go(func() error {
			val, err := res.construct(gctx, p)
			if err != nil {
				return err
			}
			out.put(tag, val)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// validate walks the provider graph depth-first without constructing
// anything, rejecting missing providers and dependency cycles. The checked
// set prunes diamonds so each provider is verified once.
func validate(p provider, path []*Layer, checked map[provider]bool) error {
	if checked[p] {
		return nil
	}

	l := p.layer
	for _, seen := range path {
		if seen == l {
			return &CyclicDependencyError{Path: cyclePath(path, l)}
		}
	}

	next := make([]*Layer, len(path)+1)
	copy(next, path)
	next[len(path)] = l

	for _, dep := range l.deps {
		depProv, ok := p.env.provider(dep)
		if !ok {
			return &MissingDependencyError{Tag: dep.name}
		}
		if err := validate(depProv, next, checked); err != nil {
			return err
		}
	}

	checked[p] = true
	return nil
}

// construct returns the instance for p's layer, going through the memo
// table unless the layer is fresh. Cross-branch callers of the same
// identity block on the slot's sync.Once and observe one shared instance.
func (r *resolution) construct(ctx context.Context, p provider) (any, error) {
	l := p.layer

	if l.fresh {
		return r.build(ctx, p)
	}

	slot := r.memo.slotFor(l.id)
	slot.once.Do(func() {
		slot.val, slot.err = r.build(ctx, p)
	})
	return slot.val, slot.err
}

// build resolves a leaf's declared deps concurrently, then runs its
// constructor with a registry view of just those deps.
func (r *resolution) build(ctx context.Context, p provider) (any, error) {
	l := p.layer

	depReg := newRegistry()
	g, gctx := errgroup.WithContext(ctx)
	for _, dep := range l.deps {
		dep := dep
		g.Go(func() error {
			depProv, ok := p.env.provider(dep)
			if !ok {
				return &MissingDependencyError{Tag: dep.name}
			}
			val, err := r.construct(gctx, depProv)
			if err != nil {
				return err
			}
			depReg.put(dep, val)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	val, err := l.build(ctx, depReg)
	if err != nil {
		return nil, &ConstructionError{Layer: l.name, Err: err}
	}

	r.logger.Sugar().Debugf("constructed layer: layerId: %v, name: %v", l.id, l.name)
	return val, nil
}

func cyclePath(path []*Layer, repeat *Layer) []string {
	names := make([]string, 0, len(path)+1)
	started := false
	for _, l := range path {
		if l == repeat {
			started = true
		}
		if started {
			names = append(names, l.name)
		}
	}
	return append(names, repeat.name)
}
