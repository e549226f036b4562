// Package toggle provides runtime feature flags: named boolean switches that
// can be flipped while a program runs and read from any number of goroutines.
//
// Flags are declared in groups. A group is a fixed set of flags, each owning
// one bit of a single word of shared state. Enable and Disable update that
// word with a compare-and-swap loop, so concurrent writers never lose each
// other's updates. IsEnabled and Flags are a single atomic load and never
// block.
//
// # Declaring a group
//
// Each group gets its own unsigned integer type, which keeps flags of one
// group from being passed to another.
//
//	type UX uint8
//
//	const (
//		JSONOutput UX = 1 << iota
//		VerboseOutput
//	)
//
//	var ux = toggle.MustNew("ux",
//		toggle.Def("json_output", JSONOutput),
//		toggle.Def("verbose_output", VerboseOutput),
//	)
//
// Every bit value must be a distinct power of two. New rejects empty names,
// zero or multi-bit values, and flags sharing a bit or a name.
//
// # Passing groups around
//
// Groups are dependencies, and should be passed to the components that need
// them in the same way you'd construct and pass a database handle. A Registry
// indexes groups by name for the collaborators that work with flag names
// rather than typed values: the source package (CLI, environment, config
// files, signals), the admin HTTP service and the Prometheus collector.
//
// # Memory ordering
//
// State is kept in a sync/atomic word. Reads observe either the value before
// or after a concurrent write, never a mix. No ordering is promised relative
// to other memory; callers that publish data alongside a flag must
// synchronize that data themselves.
package toggle
