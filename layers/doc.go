// Package layers provides declarative construction of dependency graphs of
// named services with shared-instance semantics.
//
// A Layer is a recipe: which service it provides (identified by a typed
// Tag), which other tags it needs, and how to build the instance. Layers
// compose horizontally with Merge (independent outputs side by side) and
// vertically with Provide (one layer's outputs feeding another's
// requirements). Resolve walks the composed graph dependency-first and
// constructs each unique layer identity at most once per resolution, so two
// branches depending on the same layer observe one shared instance. Fresh
// opts a layer out of that sharing.
//
// Construction of a Scoped layer binds the resource's release to the scope
// ambient during resolution, so resolving inside scopes.Run ties every
// scoped service to the block's lifetime:
//
//	err := scopes.Run(ctx, func(ctx context.Context) error {
//	    reg, err := layers.Resolve(ctx, graph, dbTag)
//	    if err != nil {
//	        return err
//	    }
//	    db := layers.MustGet(reg, dbTag)
//	    return serve(ctx, db)
//	})
package layers
