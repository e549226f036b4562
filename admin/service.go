// Package admin exposes the flags of a toggle.Registry over HTTP, so
// operators can inspect and flip them in a running process.
package admin

import (
	"context"

	"github.com/go-kit/toggle"
)

// Service inspects and changes flags by name.
type Service interface {
	Groups(ctx context.Context) ([]GroupState, error)
	Group(ctx context.Context, name string) (GroupState, error)
	SetFlag(ctx context.Context, group, flag string, enabled bool) (toggle.FlagState, error)
	ToggleFlag(ctx context.Context, group, flag string) (toggle.FlagState, error)
}

// GroupState is one group and all of its flags, read from one snapshot.
type GroupState struct {
	Name  string             `json:"name"`
	Flags []toggle.FlagState `json:"flags"`
}

type registryService struct {
	reg *toggle.Registry
}

// NewService returns a Service backed by reg.
func NewService(reg *toggle.Registry) Service {
	return registryService{reg: reg}
}

func (s registryService) Groups(ctx context.Context) ([]GroupState, error) {
	groups := s.reg.Groups()
	states := make([]GroupState, 0, len(groups))
	for _, g := range groups {
		states = append(states, GroupState{Name: g.Name(), Flags: g.States()})
	}
	return states, nil
}

func (s registryService) Group(ctx context.Context, name string) (GroupState, error) {
	g, err := s.reg.Group(name)
	if err != nil {
		return GroupState{}, err
	}
	return GroupState{Name: g.Name(), Flags: g.States()}, nil
}

func (s registryService) SetFlag(ctx context.Context, group, flag string, enabled bool) (toggle.FlagState, error) {
	g, err := s.reg.Group(group)
	if err != nil {
		return toggle.FlagState{}, err
	}
	if err := g.Apply(map[string]bool{flag: enabled}); err != nil {
		return toggle.FlagState{}, err
	}
	return g.State(flag)
}

func (s registryService) ToggleFlag(ctx context.Context, group, flag string) (toggle.FlagState, error) {
	g, err := s.reg.Group(group)
	if err != nil {
		return toggle.FlagState{}, err
	}
	st, err := g.State(flag)
	if err != nil {
		return toggle.FlagState{}, err
	}
	if st.Enabled, err = g.ToggleByName(flag); err != nil {
		return toggle.FlagState{}, err
	}
	return st, nil
}
