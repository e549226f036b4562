package toggle

import "context"

// Booler describes a feature flag that returns a simple boolean response.
type Booler interface {
	Bool(ctx context.Context) bool
}

// BoolerFunc is an adapter to use a stand-alone function as a Booler.
type BoolerFunc func(ctx context.Context) bool

// Bool conforms to the Booler interface.
func (fn BoolerFunc) Bool(ctx context.Context) bool {
	return fn(ctx)
}

// Booler returns a Booler reporting whether f is enabled, for components
// that accept any Booler rather than a typed group.
func (g *Group[F]) Booler(f F) Booler {
	return BoolerFunc(func(context.Context) bool {
		return g.IsEnabled(f)
	})
}

// Not returns a Booler reporting the opposite of b.
func Not(b Booler) Booler {
	return BoolerFunc(func(ctx context.Context) bool {
		return !b.Bool(ctx)
	})
}
