package toggle

import (
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Group is a named set of independent boolean flags sharing one word of
// state. All methods are safe for concurrent use. A Group must not be copied
// after first use; pass the pointer returned by New. The zero value is an
// unnamed group with no flags, on which every mutation is a no-op.
type Group[F Bits] struct {
	cat   *catalog[F]
	state atomic.Uint64
}

func (g *Group[F]) catalog() *catalog[F] {
	if g.cat == nil {
		return &catalog[F]{}
	}
	return g.cat
}

// New declares a group with the given flags, all initially disabled. It
// returns an error wrapping ErrInvalidDeclaration if a name is malformed, no
// flags are given, a bit value is not a single bit, or two flags share a bit
// or a name.
func New[F Bits](name string, flags ...Flag[F]) (*Group[F], error) {
	cat, err := newCatalog(name, flags)
	if err != nil {
		return nil, err
	}
	return &Group[F]{cat: cat}, nil
}

// MustNew is like New but panics if the declaration is invalid. It is meant
// for package-level variables.
func MustNew[F Bits](name string, flags ...Flag[F]) *Group[F] {
	g, err := New(name, flags...)
	if err != nil {
		panic(err)
	}
	return g
}

// Name returns the group name.
func (g *Group[F]) Name() string { return g.catalog().name }

// Mask returns the union of every declared flag.
func (g *Group[F]) Mask() F { return F(g.catalog().mask) }

// Defs returns the flag declarations in declaration order.
func (g *Group[F]) Defs() []Flag[F] {
	cat := g.catalog()
	defs := make([]Flag[F], len(cat.defs))
	copy(defs, cat.defs)
	return defs
}

// Lookup returns the flag with the given name. Names match case-insensitively.
func (g *Group[F]) Lookup(name string) (F, bool) {
	d, ok := g.catalog().lookup(name)
	return d.Bit, ok
}

// Enable sets f. Bits of f that are not declared flags are ignored.
func (g *Group[F]) Enable(f F) {
	g.update(func(s uint64) uint64 { return s | uint64(f) })
}

// Disable clears f.
func (g *Group[F]) Disable(f F) {
	g.update(func(s uint64) uint64 { return s &^ uint64(f) })
}

// Set enables or disables f.
func (g *Group[F]) Set(f F, enabled bool) {
	if enabled {
		g.Enable(f)
		return
	}
	g.Disable(f)
}

// Toggle flips every bit of f and reports whether f is enabled afterwards.
func (g *Group[F]) Toggle(f F) bool {
	_, next := g.update(func(s uint64) uint64 { return s ^ (uint64(f) & g.catalog().mask) })
	return Set[F]{bits: F(next)}.Contains(f)
}

// Update enables and disables flags in one atomic step and returns the
// resulting state. A bit present in both enable and disable ends up cleared.
func (g *Group[F]) Update(enable, disable F) Set[F] {
	_, next := g.update(func(s uint64) uint64 { return (s | uint64(enable)) &^ uint64(disable) })
	return g.set(next)
}

// Store replaces the whole state with s and returns the previous state.
func (g *Group[F]) Store(s Set[F]) Set[F] {
	prev, _ := g.update(func(uint64) uint64 { return uint64(s.bits) })
	return g.set(prev)
}

// Reset disables every flag.
func (g *Group[F]) Reset() {
	g.update(func(uint64) uint64 { return 0 })
}

// IsEnabled reports whether every bit of f is set.
func (g *Group[F]) IsEnabled(f F) bool {
	return g.Flags().Contains(f)
}

// Flags returns a snapshot of the current state. Test several flags against
// one snapshot when they must be observed together.
func (g *Group[F]) Flags() Set[F] {
	return g.set(g.state.Load())
}

// update runs a compare-and-swap loop until fn's result, restricted to the
// declared mask, has been stored. It returns the state it replaced and the
// state it stored.
func (g *Group[F]) update(fn func(uint64) uint64) (prev, next uint64) {
	mask := g.catalog().mask
	for {
		prev = g.state.Load()
		next = fn(prev) & mask
		if next == prev || g.state.CompareAndSwap(prev, next) {
			return prev, next
		}
	}
}

// FromBits converts a raw integer to a Set, clearing bits that do not belong
// to a declared flag.
func (g *Group[F]) FromBits(raw uint64) Set[F] {
	return g.set(raw & g.catalog().mask)
}

// FromBitsStrict is like FromBits but reports false, and returns an empty
// Set, if raw has undeclared bits.
func (g *Group[F]) FromBitsStrict(raw uint64) (Set[F], bool) {
	if raw&^g.catalog().mask != 0 {
		return g.Empty(), false
	}
	return g.set(raw), true
}

// SetOf returns the Set holding the given flags.
func (g *Group[F]) SetOf(flags ...F) Set[F] {
	var raw uint64
	for _, f := range flags {
		raw |= uint64(f)
	}
	return g.FromBits(raw)
}

// Empty returns the Set with no flags.
func (g *Group[F]) Empty() Set[F] { return g.set(0) }

// All returns the Set with every declared flag.
func (g *Group[F]) All() Set[F] { return g.set(g.catalog().mask) }

func (g *Group[F]) set(raw uint64) Set[F] {
	return Set[F]{bits: F(raw), cat: g.catalog()}
}

// States implements Toggler.
func (g *Group[F]) States() []FlagState {
	return g.Flags().States()
}

// State implements Toggler.
func (g *Group[F]) State(name string) (FlagState, error) {
	cat := g.catalog()
	d, ok := cat.lookup(name)
	if !ok {
		return FlagState{}, errors.Wrapf(ErrUnknownFlag, "%s.%s", cat.name, name)
	}
	return FlagState{
		Group:   cat.name,
		Name:    d.Name,
		Bit:     uint64(d.Bit),
		Enabled: g.IsEnabled(d.Bit),
	}, nil
}

// Apply implements Toggler. Every name is resolved before anything changes;
// if any name is unknown the state is left untouched and all unknown names
// are reported.
func (g *Group[F]) Apply(changes map[string]bool) error {
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		enable, disable F
		err             error
	)
	for _, name := range names {
		f, ok := g.Lookup(name)
		if !ok {
			err = multierr.Append(err, errors.Wrapf(ErrUnknownFlag, "%s.%s", g.catalog().name, name))
			continue
		}
		if changes[name] {
			enable |= f
		} else {
			disable |= f
		}
	}
	if err != nil {
		return err
	}
	g.Update(enable, disable)
	return nil
}

// ToggleByName implements Toggler.
func (g *Group[F]) ToggleByName(name string) (bool, error) {
	f, ok := g.Lookup(name)
	if !ok {
		return false, errors.Wrapf(ErrUnknownFlag, "%s.%s", g.catalog().name, name)
	}
	return g.Toggle(f), nil
}
