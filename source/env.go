package source

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/go-kit/toggle"
)

// LookupFunc retrieves an environment variable. os.LookupEnv is one.
type LookupFunc func(key string) (string, bool)

// EnvVarName returns the variable consulted for a flag: prefix, group and
// flag joined by underscores, upper-cased, with dashes turned into
// underscores. An empty prefix is omitted.
//
// Example: EnvVarName("app", "ux", "json-output") returns "APP_UX_JSON_OUTPUT".
func EnvVarName(prefix, group, flag string) string {
	name := group + "_" + flag
	if prefix != "" {
		name = prefix + "_" + name
	}
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Env reads one variable per flag in reg and returns the changes they ask
// for. Unset and empty variables are skipped. If lookup is nil,
// os.LookupEnv is used. Values that are not booleans are reported
// together, and the remaining values are still returned.
func Env(prefix string, reg *toggle.Registry, lookup LookupFunc) (toggle.Changes, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var (
		c   = toggle.Changes{}
		err error
	)
	for _, st := range reg.States() {
		key := EnvVarName(prefix, st.Group, st.Name)
		value, ok := lookup(key)
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			continue
		}
		enabled, perr := strconv.ParseBool(value)
		if perr != nil {
			err = multierr.Append(err, errors.Wrapf(ErrSyntax, "%s=%q", key, value))
			continue
		}
		c.Set(st.Group, st.Name, enabled)
	}
	return c, err
}
