package toggle

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Registry indexes groups by name. It holds references only: the flag state
// stays in each group, and groups remain independent of one another.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]Toggler
}

// NewRegistry returns a Registry holding the given groups.
func NewRegistry(groups ...Toggler) (*Registry, error) {
	r := &Registry{groups: map[string]Toggler{}}
	for _, g := range groups {
		if err := r.Register(g); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a group. Group names are case-insensitive and must be unique
// within the registry.
func (r *Registry) Register(g Toggler) error {
	key := strings.ToLower(g.Name())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[key]; ok {
		return errors.Wrapf(ErrDuplicateGroup, "%s", g.Name())
	}
	r.groups[key] = g
	return nil
}

// Group returns the group with the given name.
func (r *Registry) Group(name string) (Toggler, error) {
	r.mu.RLock()
	g, ok := r.groups[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownGroup, "%s", name)
	}
	return g, nil
}

// Groups returns every registered group, sorted by name.
func (r *Registry) Groups() []Toggler {
	r.mu.RLock()
	groups := make([]Toggler, 0, len(r.groups))
	for _, g := range r.groups {
		groups = append(groups, g)
	}
	r.mu.RUnlock()
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name() < groups[j].Name() })
	return groups
}

// States returns the state of every flag of every group. Each group is read
// from its own snapshot; there is no snapshot across groups.
func (r *Registry) States() []FlagState {
	var states []FlagState
	for _, g := range r.Groups() {
		states = append(states, g.States()...)
	}
	return states
}

// Apply applies c group by group. Each group's changes are atomic: a group
// with an unknown flag name is left untouched while the other groups are
// still updated. All failures are returned together.
func (r *Registry) Apply(c Changes) error {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	var err error
	for _, name := range names {
		g, gerr := r.Group(name)
		if gerr != nil {
			err = multierr.Append(err, gerr)
			continue
		}
		err = multierr.Append(err, g.Apply(c[name]))
	}
	return err
}
