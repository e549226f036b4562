package source

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/go-kit/toggle"
)

// ErrSyntax is returned for malformed flag lists and values.
var ErrSyntax = errors.New("syntax error")

// Parse parses a comma-separated list of flag settings. Each item is
// "group.flag", optionally prefixed with "+" (enable, the default) or "-"
// or "!" (disable), or suffixed with "=value" where value is anything
// strconv.ParseBool accepts. Empty items are skipped.
//
//	ux.json_output,-srv.http2,srv.bittorrent=false
func Parse(s string) (toggle.Changes, error) {
	c := toggle.Changes{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		group, flag, enabled, err := parseItem(item)
		if err != nil {
			return nil, err
		}
		c.Set(group, flag, enabled)
	}
	return c, nil
}

func parseItem(item string) (group, flag string, enabled bool, err error) {
	name, prefixed := item, false
	enabled = true
	switch name[0] {
	case '+':
		name, prefixed = name[1:], true
	case '-', '!':
		name, enabled, prefixed = name[1:], false, true
	}

	if n, value, ok := strings.Cut(name, "="); ok {
		if prefixed {
			return "", "", false, errors.Wrapf(ErrSyntax, "%q: prefix and value are exclusive", item)
		}
		b, perr := strconv.ParseBool(strings.TrimSpace(value))
		if perr != nil {
			return "", "", false, errors.Wrapf(ErrSyntax, "%q: bad value %q", item, value)
		}
		name, enabled = n, b
	}

	group, flag, ok := strings.Cut(strings.TrimSpace(name), ".")
	if !ok || group == "" || flag == "" || strings.Contains(flag, ".") {
		return "", "", false, errors.Wrapf(ErrSyntax, "%q: want group.flag", item)
	}
	return group, flag, enabled, nil
}

// Format renders c in the list syntax accepted by Parse, sorted by group
// and flag name.
func Format(c toggle.Changes) string {
	var items []string
	for group, flags := range c {
		for flag, enabled := range flags {
			item := group + "." + flag
			if !enabled {
				item = "-" + item
			}
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.TrimPrefix(items[i], "-") < strings.TrimPrefix(items[j], "-")
	})
	return strings.Join(items, ",")
}
