package toggle

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Bits is the set of unsigned integer types a group may use as its word.
type Bits interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~uintptr
}

// Flag declares one named flag of a group. Bit must have exactly one bit set,
// and no two flags of the same group may share a bit.
type Flag[F Bits] struct {
	Name string
	Bit  F
}

// Def is shorthand for Flag[F]{Name: name, Bit: bit}.
func Def[F Bits](name string, bit F) Flag[F] {
	return Flag[F]{Name: name, Bit: bit}
}

var validName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// catalog is the immutable part of a group, shared by the group and every
// Set taken from it.
type catalog[F Bits] struct {
	name  string
	defs  []Flag[F]
	mask  uint64
	index map[string]int // lower-cased flag name -> defs index
}

func newCatalog[F Bits](name string, defs []Flag[F]) (*catalog[F], error) {
	if !validName.MatchString(name) {
		return nil, errors.Wrapf(ErrInvalidDeclaration, "group name %q", name)
	}
	if len(defs) == 0 {
		return nil, errors.Wrapf(ErrInvalidDeclaration, "group %s has no flags", name)
	}

	c := &catalog[F]{
		name:  name,
		defs:  make([]Flag[F], len(defs)),
		index: make(map[string]int, len(defs)),
	}
	copy(c.defs, defs)

	for i, d := range c.defs {
		bit := uint64(d.Bit)
		if !validName.MatchString(d.Name) {
			return nil, errors.Wrapf(ErrInvalidDeclaration, "group %s: flag name %q", name, d.Name)
		}
		if bit == 0 || bit&(bit-1) != 0 {
			return nil, errors.Wrapf(ErrInvalidDeclaration, "%s.%s: %#x is not a single bit", name, d.Name, bit)
		}
		if c.mask&bit != 0 {
			return nil, errors.Wrapf(ErrInvalidDeclaration, "%s.%s: bit %#x already used by %s", name, d.Name, bit, c.owner(bit))
		}
		key := strings.ToLower(d.Name)
		if j, ok := c.index[key]; ok {
			return nil, errors.Wrapf(ErrInvalidDeclaration, "%s.%s: name already used by %s", name, d.Name, c.defs[j].Name)
		}
		c.index[key] = i
		c.mask |= bit
	}
	return c, nil
}

func (c *catalog[F]) owner(bit uint64) string {
	for _, d := range c.defs {
		if uint64(d.Bit)&bit != 0 {
			return d.Name
		}
	}
	return ""
}

func (c *catalog[F]) lookup(name string) (Flag[F], bool) {
	i, ok := c.index[strings.ToLower(name)]
	if !ok {
		return Flag[F]{}, false
	}
	return c.defs[i], true
}
