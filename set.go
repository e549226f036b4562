package toggle

import (
	"fmt"
	mathbits "math/bits"
	"strings"
)

// Set is an immutable combination of flags from one group. Sets returned by
// a Group know the group's declarations; the zero Set is empty and only
// supports the bitwise operations.
type Set[F Bits] struct {
	bits F
	cat  *catalog[F]
}

// Bits returns the raw value of the set.
func (s Set[F]) Bits() F { return s.bits }

// Uint64 returns the raw value of the set widened to uint64.
func (s Set[F]) Uint64() uint64 { return uint64(s.bits) }

// Contains reports whether every bit of f is in the set. Contains(0) is true.
func (s Set[F]) Contains(f F) bool { return s.bits&f == f }

// Intersects reports whether any bit of f is in the set.
func (s Set[F]) Intersects(f F) bool { return s.bits&f != 0 }

// IsEmpty reports whether no flag is set.
func (s Set[F]) IsEmpty() bool { return s.bits == 0 }

// Len returns the number of flags in the set.
func (s Set[F]) Len() int { return mathbits.OnesCount64(uint64(s.bits)) }

// Equal reports whether both sets hold the same flags.
func (s Set[F]) Equal(o Set[F]) bool { return s.bits == o.bits }

// Union returns the flags in s or o.
func (s Set[F]) Union(o Set[F]) Set[F] { return s.with(s.bits|o.bits, o) }

// Intersect returns the flags in both s and o.
func (s Set[F]) Intersect(o Set[F]) Set[F] { return s.with(s.bits&o.bits, o) }

// Difference returns the flags in s but not in o.
func (s Set[F]) Difference(o Set[F]) Set[F] { return s.with(s.bits&^o.bits, o) }

// Insert returns s with f added. Undeclared bits of f are dropped when the
// set knows its group.
func (s Set[F]) Insert(f F) Set[F] { return s.with(s.bits|f, s) }

// Remove returns s with f removed.
func (s Set[F]) Remove(f F) Set[F] { return s.with(s.bits&^f, s) }

// Complement returns every declared flag not in s. The complement of a Set
// with no group is empty.
func (s Set[F]) Complement() Set[F] {
	if s.cat == nil {
		return Set[F]{}
	}
	return s.with(^s.bits, s)
}

// with builds a Set on whichever catalog is known, truncating to its mask.
func (s Set[F]) with(bits F, o Set[F]) Set[F] {
	cat := s.cat
	if cat == nil {
		cat = o.cat
	}
	if cat != nil {
		bits &= F(cat.mask)
	}
	return Set[F]{bits: bits, cat: cat}
}

// Names returns the names of the flags in the set, in declaration order.
func (s Set[F]) Names() []string {
	if s.cat == nil {
		return nil
	}
	var names []string
	for _, d := range s.cat.defs {
		if s.bits&d.Bit != 0 {
			names = append(names, d.Name)
		}
	}
	return names
}

// States returns one FlagState per declared flag, in declaration order.
func (s Set[F]) States() []FlagState {
	if s.cat == nil {
		return nil
	}
	states := make([]FlagState, len(s.cat.defs))
	for i, d := range s.cat.defs {
		states[i] = FlagState{
			Group:   s.cat.name,
			Name:    d.Name,
			Bit:     uint64(d.Bit),
			Enabled: s.bits&d.Bit != 0,
		}
	}
	return states
}

// String formats the set as flag names joined by "|", or "none".
func (s Set[F]) String() string {
	switch {
	case s.bits == 0:
		return "none"
	case s.cat == nil:
		return fmt.Sprintf("%#x", uint64(s.bits))
	}
	return strings.Join(s.Names(), "|")
}
