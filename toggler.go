package toggle

import "strings"

// Toggler is the name-based view of a group, for collaborators that see flag
// names rather than typed values: config loaders, CLI parsers, admin
// endpoints and metrics. Every *Group[F] is a Toggler.
type Toggler interface {
	// Name returns the group name.
	Name() string

	// States returns every flag of the group, taken from one snapshot.
	States() []FlagState

	// State returns a single flag. Names match case-insensitively.
	State(name string) (FlagState, error)

	// Apply enables the flags mapped to true and disables the flags mapped
	// to false, in one atomic step. Unknown names fail the whole call.
	Apply(changes map[string]bool) error

	// ToggleByName flips a flag and returns its new value.
	ToggleByName(name string) (bool, error)
}

// FlagState describes one flag at the moment it was read.
type FlagState struct {
	Group   string `json:"group"`
	Name    string `json:"name"`
	Bit     uint64 `json:"bit"`
	Enabled bool   `json:"enabled"`
}

// Changes holds desired flag values keyed by group name, then flag name.
// Names are matched case-insensitively, like everywhere else in the
// package: setting a name that differs from an existing key only in case
// replaces that entry, and the latest spelling is kept.
type Changes map[string]map[string]bool

// Set records that flag of group should be enabled or disabled.
func (c Changes) Set(group, flag string, enabled bool) {
	var m map[string]bool
	for k, flags := range c {
		if strings.EqualFold(k, group) {
			m = flags
			delete(c, k)
			break
		}
	}
	if m == nil {
		m = map[string]bool{}
	}
	c[group] = m

	for k := range m {
		if strings.EqualFold(k, flag) {
			delete(m, k)
		}
	}
	m[flag] = enabled
}

// Merge copies every value of o into c, overriding existing entries, and
// returns c.
func (c Changes) Merge(o Changes) Changes {
	for group, flags := range o {
		for flag, enabled := range flags {
			c.Set(group, flag, enabled)
		}
	}
	return c
}

// Len returns the number of flag values held.
func (c Changes) Len() int {
	var n int
	for _, flags := range c {
		n += len(flags)
	}
	return n
}
