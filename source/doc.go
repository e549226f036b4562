// Package source translates external input into flag changes: command-line
// flags, environment variables, config files and OS signals. Every source
// resolves flags through a toggle.Registry, so names are "group.flag" pairs
// matched case-insensitively.
//
// Sources are usually applied in order of increasing precedence at startup,
// for example environment, then config file, then command line. A File can
// also be watched, and a SignalToggle flips one flag each time a signal
// arrives; both run until their context is cancelled.
package source
