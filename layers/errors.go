package layers

import (
	"fmt"
	"strings"
)

// MissingDependencyError reports a required or depended-upon tag that no
// layer in the graph provides.
type MissingDependencyError struct {
	Tag string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency: no layer provides tag %q", e.Tag)
}

// CyclicDependencyError reports a dependency chain that revisits a layer,
// making topological construction impossible.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Path, " -> "))
}

// ConstructionError wraps a failure raised by a layer's own constructor.
// Dependency failures propagate unwrapped; only the failing layer itself
// contributes a ConstructionError.
type ConstructionError struct {
	Layer string
	Err   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("constructing layer %q: %v", e.Layer, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }
