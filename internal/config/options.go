// Package config holds the replay options and loads them from CUE files.
package config

// DefaultVerbosity echoes every call but dumps nothing.
const DefaultVerbosity = 1

// Options controls a replay.
type Options struct {
	// Quiet suppresses all echoing and dumping. It overrides Verbosity.
	Quiet bool

	// Verbosity gates diagnostics: 1 echoes calls, 2 dumps constant
	// buffers, vertices and indices, 3 prints every index.
	Verbosity int

	// Images saves presented frames as PNG files instead of showing them.
	Images bool

	// All also presents depth/stencil buffers, copy regions and transfers.
	All bool

	// Step presents after every draw instead of waiting for a frame flush.
	Step bool

	// Start suppresses presentation for calls numbered below it.
	Start uint64

	// Stop halts replay before the first call numbered above it.
	// Zero means no limit.
	Stop uint64

	// OutDir is where Images mode writes frames. Empty means the current
	// directory.
	OutDir string
}

// Default returns the options used when nothing is configured.
func Default() Options {
	return Options{Verbosity: DefaultVerbosity}
}

// Verbose reports whether diagnostics at level are enabled.
func (o Options) Verbose(level int) bool {
	if o.Quiet {
		return false
	}
	return o.Verbosity >= level
}
