package layers

import (
	"sync"

	"github.com/on-the-ground/scope_ive_go/shared/helper"
)

// Registry maps resolved tags to their constructed instances. One registry
// is returned per resolution; each layer's constructor additionally
// receives a registry view holding just its declared dependencies.
type Registry struct {
	mu     sync.RWMutex
	values map[*tagCore]any
}

func newRegistry() *Registry {
	return &Registry{values: make(map[*tagCore]any)}
}

func (r *Registry) put(tag *tagCore, val any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[tag] = val
}

func (r *Registry) lookup(tag *tagCore) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[tag]
	return v, ok
}

// Get returns the instance resolved for tag, or a MissingDependencyError
// if the registry holds none.
func Get[T any](reg *Registry, tag Tag[T]) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		v, ok := reg.lookup(tag.ref())
		if !ok {
			return nil, &MissingDependencyError{Tag: tag.Name()}
		}
		return v, nil
	})
}

// MustGet is the panic-on-failure variant of Get. Use when resolution is
// known to have provided the tag.
func MustGet[T any](reg *Registry, tag Tag[T]) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		v, ok := reg.lookup(tag.ref())
		if !ok {
			return nil, &MissingDependencyError{Tag: tag.Name()}
		}
		return v, nil
	})
}
