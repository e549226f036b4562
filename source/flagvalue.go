package source

import (
	"github.com/spf13/pflag"

	"github.com/go-kit/toggle"
)

// FlagValue is a pflag.Value (and a flag.Value) collecting flag lists from
// the command line. Names are checked against the registry while parsing,
// but nothing changes until Apply, so the command line can be applied after
// sources that depend on other flags, such as a config file path. The flag
// may be repeated; later occurrences override earlier ones.
type FlagValue struct {
	reg     *toggle.Registry
	changes toggle.Changes
}

// NewFlagValue returns a FlagValue resolving names against reg.
func NewFlagValue(reg *toggle.Registry) *FlagValue {
	return &FlagValue{reg: reg, changes: toggle.Changes{}}
}

// AddFlag registers a FlagValue for reg on fs under name.
func AddFlag(fs *pflag.FlagSet, reg *toggle.Registry, name, usage string) *FlagValue {
	v := NewFlagValue(reg)
	fs.Var(v, name, usage)
	return v
}

// String returns the collected changes in list syntax.
func (v *FlagValue) String() string {
	if v == nil {
		return ""
	}
	return Format(v.changes)
}

// Set parses s with Parse and records the result under the declared group
// and flag names, so a later value overrides an earlier one however either
// is spelled. Nothing is recorded if any name is unknown.
func (v *FlagValue) Set(s string) error {
	c, err := Parse(s)
	if err != nil {
		return err
	}
	resolved := toggle.Changes{}
	for group, flags := range c {
		g, err := v.reg.Group(group)
		if err != nil {
			return err
		}
		for flag, enabled := range flags {
			st, err := g.State(flag)
			if err != nil {
				return err
			}
			resolved.Set(g.Name(), st.Name, enabled)
		}
	}
	v.changes.Merge(resolved)
	return nil
}

// Type implements pflag.Value.
func (v *FlagValue) Type() string { return "features" }

// Changes returns the collected changes.
func (v *FlagValue) Changes() toggle.Changes {
	return toggle.Changes{}.Merge(v.changes)
}

// Apply applies the collected changes to the registry.
func (v *FlagValue) Apply() error {
	return v.reg.Apply(v.changes)
}
