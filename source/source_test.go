package source_test

import (
	"testing"

	"github.com/go-kit/toggle"
)

type ux uint8

const (
	jsonOutput ux = 1 << iota
	verboseOutput
	colorOutput
)

type srv uint8

const (
	http2 srv = 1 << iota
	bitTorrent
)

func newRegistry(t *testing.T) (*toggle.Registry, *toggle.Group[ux], *toggle.Group[srv]) {
	t.Helper()
	u := toggle.MustNew("ux",
		toggle.Def("json_output", jsonOutput),
		toggle.Def("verbose-output", verboseOutput),
		toggle.Def("color", colorOutput),
	)
	s := toggle.MustNew("srv",
		toggle.Def("http2", http2),
		toggle.Def("bittorrent", bitTorrent),
	)
	reg, err := toggle.NewRegistry(u, s)
	if err != nil {
		t.Fatal(err)
	}
	return reg, u, s
}
