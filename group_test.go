package toggle_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/go-kit/toggle"
)

type feature uint8

const (
	alpha feature = 1 << iota
	beta
	gamma
)

func newFeatures(t *testing.T) *toggle.Group[feature] {
	t.Helper()
	g, err := toggle.New("f",
		toggle.Def("alpha", alpha),
		toggle.Def("beta", beta),
		toggle.Def("gamma", gamma),
	)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

var _ toggle.Toggler = (*toggle.Group[feature])(nil)

func TestFreshGroupIsDisabled(t *testing.T) {
	g := newFeatures(t)
	for _, d := range g.Defs() {
		if g.IsEnabled(d.Bit) {
			t.Errorf("%s: want disabled, have enabled", d.Name)
		}
	}
	if want, have := true, g.Flags().IsEmpty(); want != have {
		t.Errorf("want %v, have %v", want, have)
	}
}

func TestEnablingScenario(t *testing.T) {
	type F uint8
	const (
		Alpha F = 0b01
		Beta  F = 0b10
	)
	g := toggle.MustNew("f", toggle.Def("Alpha", Alpha), toggle.Def("Beta", Beta))

	check := func(step string, wantAlpha, wantBeta bool) {
		t.Helper()
		if have := g.IsEnabled(Alpha); have != wantAlpha {
			t.Errorf("%s: Alpha: want %v, have %v", step, wantAlpha, have)
		}
		if have := g.IsEnabled(Beta); have != wantBeta {
			t.Errorf("%s: Beta: want %v, have %v", step, wantBeta, have)
		}
	}

	check("initial", false, false)
	g.Enable(Beta)
	check("enable Beta", false, true)
	g.Enable(Alpha)
	check("enable Alpha", true, true)
	g.Disable(Beta)
	check("disable Beta", true, false)
}

func TestEnableDisableIdempotent(t *testing.T) {
	g := newFeatures(t)

	g.Enable(alpha)
	once := g.Flags()
	g.Enable(alpha)
	if want, have := once, g.Flags(); !want.Equal(have) {
		t.Errorf("enable twice: want %s, have %s", want, have)
	}

	g.Disable(alpha)
	once = g.Flags()
	g.Disable(alpha)
	if want, have := once, g.Flags(); !want.Equal(have) {
		t.Errorf("disable twice: want %s, have %s", want, have)
	}
	if g.IsEnabled(alpha) {
		t.Error("alpha: want disabled after disable")
	}
}

func TestFlagsAreIndependent(t *testing.T) {
	g := newFeatures(t)
	g.Enable(gamma)
	for _, f := range []feature{alpha, beta} {
		before := g.IsEnabled(gamma)
		g.Enable(f)
		g.Disable(f)
		g.Enable(f)
		if want, have := before, g.IsEnabled(gamma); want != have {
			t.Errorf("gamma changed while mutating %d: want %v, have %v", f, want, have)
		}
	}
	if want, have := "alpha|beta|gamma", g.Flags().String(); want != have {
		t.Errorf("want %q, have %q", want, have)
	}
}

func TestSnapshotMatchesIsEnabled(t *testing.T) {
	g := newFeatures(t)
	g.Enable(alpha | gamma)
	snap := g.Flags()
	for _, d := range g.Defs() {
		if want, have := g.IsEnabled(d.Bit), snap.Contains(d.Bit); want != have {
			t.Errorf("%s: want %v, have %v", d.Name, want, have)
		}
	}
}

func TestSnapshotIsNotLive(t *testing.T) {
	g := newFeatures(t)
	snap := g.Flags()
	g.Enable(beta)
	if snap.Contains(beta) {
		t.Error("snapshot observed a later Enable")
	}
}

func TestConcurrentEnable(t *testing.T) {
	type wide uint64
	var defs []toggle.Flag[wide]
	for i := 0; i < 64; i++ {
		defs = append(defs, toggle.Def("f"+strconv.Itoa(i), wide(1)<<i))
	}
	g := toggle.MustNew("wide", defs...)

	var (
		start = make(chan struct{})
		wg    sync.WaitGroup
	)
	for _, d := range defs {
		wg.Add(1)
		go func(f wide) {
			defer wg.Done()
			<-start
			for i := 0; i < 100; i++ {
				g.Disable(f)
				g.Enable(f)
			}
		}(d.Bit)
	}
	close(start)
	wg.Wait()

	if want, have := len(defs), g.Flags().Len(); want != have {
		t.Errorf("want %d flags enabled, have %d (%s)", want, have, g.Flags())
	}
	if want, have := g.Mask(), g.Flags().Bits(); want != have {
		t.Errorf("want %#x, have %#x", want, have)
	}
}

func TestConcurrentToggle(t *testing.T) {
	g := newFeatures(t)
	const n = 1000

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Toggle(beta)
		}()
	}
	wg.Wait()

	// An even number of flips leaves the flag where it started.
	if g.IsEnabled(beta) {
		t.Error("beta: want disabled after an even number of toggles")
	}
}

func TestUndeclaredBitsIgnored(t *testing.T) {
	g := newFeatures(t)
	g.Enable(0x80 | alpha)
	if want, have := uint64(alpha), g.Flags().Uint64(); want != have {
		t.Errorf("want %#x, have %#x", want, have)
	}
	if g.IsEnabled(0x80) {
		t.Error("undeclared bit reported as enabled")
	}
}

func TestToggleUpdateStoreReset(t *testing.T) {
	g := newFeatures(t)

	if want, have := true, g.Toggle(alpha); want != have {
		t.Errorf("Toggle: want %v, have %v", want, have)
	}
	if want, have := false, g.Toggle(alpha); want != have {
		t.Errorf("Toggle: want %v, have %v", want, have)
	}

	g.Enable(gamma)
	s := g.Update(alpha|beta, beta|gamma)
	if want, have := "alpha", s.String(); want != have {
		t.Errorf("Update: want %q, have %q", want, have)
	}

	prev := g.Store(g.SetOf(beta, gamma))
	if want, have := "alpha", prev.String(); want != have {
		t.Errorf("Store previous: want %q, have %q", want, have)
	}
	if want, have := "beta|gamma", g.Flags().String(); want != have {
		t.Errorf("Store: want %q, have %q", want, have)
	}

	g.Set(alpha, true)
	g.Set(beta, false)
	if want, have := "alpha|gamma", g.Flags().String(); want != have {
		t.Errorf("Set: want %q, have %q", want, have)
	}

	g.Reset()
	if !g.Flags().IsEmpty() {
		t.Errorf("Reset: want none, have %s", g.Flags())
	}
}

func TestGroupsAreIndependent(t *testing.T) {
	a := newFeatures(t)
	b := newFeatures(t)
	a.Enable(alpha)
	if b.IsEnabled(alpha) {
		t.Error("enabling a flag in one group changed another group")
	}
}

func TestLookup(t *testing.T) {
	g := newFeatures(t)
	for _, name := range []string{"beta", "BETA", "Beta"} {
		f, ok := g.Lookup(name)
		if !ok || f != beta {
			t.Errorf("Lookup(%q): want %d, have %d (%v)", name, beta, f, ok)
		}
	}
	if _, ok := g.Lookup("delta"); ok {
		t.Error("Lookup(delta): want not found")
	}
}

func TestNewValidation(t *testing.T) {
	type F uint16
	for _, testcase := range []struct {
		name  string
		group string
		defs  []toggle.Flag[F]
	}{
		{"empty group name", "", []toggle.Flag[F]{toggle.Def("a", F(1))}},
		{"bad group name", "my group", []toggle.Flag[F]{toggle.Def("a", F(1))}},
		{"no flags", "g", nil},
		{"empty flag name", "g", []toggle.Flag[F]{toggle.Def("", F(1))}},
		{"dotted flag name", "g", []toggle.Flag[F]{toggle.Def("a.b", F(1))}},
		{"zero bit", "g", []toggle.Flag[F]{toggle.Def("a", F(0))}},
		{"two bits", "g", []toggle.Flag[F]{toggle.Def("a", F(0b11))}},
		{"overlap", "g", []toggle.Flag[F]{toggle.Def("a", F(1)), toggle.Def("b", F(1))}},
		{"duplicate name", "g", []toggle.Flag[F]{toggle.Def("a", F(1)), toggle.Def("A", F(2))}},
	} {
		t.Run(testcase.name, func(t *testing.T) {
			_, err := toggle.New(testcase.group, testcase.defs...)
			if !errors.Is(err, toggle.ErrInvalidDeclaration) {
				t.Errorf("want ErrInvalidDeclaration, have %v", err)
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("want panic")
		}
	}()
	toggle.MustNew("g", toggle.Def("a", uint8(1)), toggle.Def("b", uint8(1)))
}

func TestNameBasedOperations(t *testing.T) {
	g := newFeatures(t)

	if err := g.Apply(map[string]bool{"Alpha": true, "gamma": true}); err != nil {
		t.Fatal(err)
	}
	if want, have := "alpha|gamma", g.Flags().String(); want != have {
		t.Errorf("want %q, have %q", want, have)
	}

	err := g.Apply(map[string]bool{"alpha": false, "delta": true})
	if !errors.Is(err, toggle.ErrUnknownFlag) {
		t.Errorf("want ErrUnknownFlag, have %v", err)
	}
	if !g.IsEnabled(alpha) {
		t.Error("failed Apply must not change state")
	}

	on, err := g.ToggleByName("beta")
	if err != nil || !on {
		t.Errorf("ToggleByName: want true, have %v (%v)", on, err)
	}
	if _, err := g.ToggleByName("delta"); !errors.Is(err, toggle.ErrUnknownFlag) {
		t.Errorf("ToggleByName: want ErrUnknownFlag, have %v", err)
	}

	st, err := g.State("BETA")
	if err != nil {
		t.Fatal(err)
	}
	if want, have := (toggle.FlagState{Group: "f", Name: "beta", Bit: uint64(beta), Enabled: true}), st; want != have {
		t.Errorf("want %+v, have %+v", want, have)
	}
	if _, err := g.State("delta"); !errors.Is(err, toggle.ErrUnknownFlag) {
		t.Errorf("State: want ErrUnknownFlag, have %v", err)
	}
}

func TestZeroGroup(t *testing.T) {
	var g toggle.Group[feature]
	g.Enable(alpha | beta)
	g.Toggle(gamma)
	g.Store(toggle.Set[feature]{})

	if g.IsEnabled(alpha) {
		t.Error("zero group: alpha reported as enabled")
	}
	if want, have := "none", g.Flags().String(); want != have {
		t.Errorf("want %q, have %q", want, have)
	}
	if want, have := "", g.Name(); want != have {
		t.Errorf("want %q, have %q", want, have)
	}
	if want, have := 0, len(g.Defs()); want != have {
		t.Errorf("want %d defs, have %d", want, have)
	}
	if _, ok := g.Lookup("alpha"); ok {
		t.Error("zero group: Lookup found a flag")
	}
	if err := g.Apply(map[string]bool{"alpha": true}); !errors.Is(err, toggle.ErrUnknownFlag) {
		t.Errorf("want ErrUnknownFlag, have %v", err)
	}
}
