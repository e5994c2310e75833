package layers

import "github.com/google/uuid"

type tagCore struct {
	name string
	id   string
}

// Tag identifies one service within a dependency graph. Identity is the
// tag value itself, not its name: two tags created separately never compare
// equal, even with the same name, so differently-constructed services are
// never conflated by a shared label.
type Tag[T any] struct {
	core *tagCore
}

// NewTag mints a fresh service identifier. The name is diagnostic only.
func NewTag[T any](name string) Tag[T] {
	return Tag[T]{core: &tagCore{name: name, id: uuid.New().String()}}
}

// Name returns the diagnostic name the tag was created with.
func (t Tag[T]) Name() string { return t.core.name }

func (t Tag[T]) ref() *tagCore { return t.core }

// TagRef is the untyped view of a Tag, used for declaring a layer's
// dependencies and a resolution's required outputs.
type TagRef interface {
	ref() *tagCore
}
