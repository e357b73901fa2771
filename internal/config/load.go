package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource string

// LoadError reports a config file that cannot be read or does not match
// the schema.
type LoadError struct {
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// fileOptions mirrors #Options. Pointer fields distinguish absent from zero.
type fileOptions struct {
	Quiet     *bool   `json:"quiet"`
	Verbosity *int    `json:"verbosity"`
	Images    *bool   `json:"images"`
	All       *bool   `json:"all"`
	Step      *bool   `json:"step"`
	Start     *uint64 `json:"start"`
	Stop      *uint64 `json:"stop"`
	OutDir    *string `json:"out_dir"`
}

type fileConfig struct {
	Replay *fileOptions `json:"replay"`
}

// Load reads a CUE config file, validates it against the embedded schema
// and applies its replay block on top of Default().
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, &LoadError{Path: path, Message: fmt.Sprintf("reading config: %v", err)}
	}
	return Parse(path, data)
}

// Parse is Load for config source already in memory. filename is used in
// error positions.
func Parse(filename string, src []byte) (Options, error) {
	opts := Default()

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return opts, fmt.Errorf("config schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return opts, formatCUEError(filename, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return opts, formatCUEError(filename, err)
	}

	var fc fileConfig
	if err := unified.Decode(&fc); err != nil {
		return opts, formatCUEError(filename, err)
	}
	if fc.Replay != nil {
		fc.Replay.apply(&opts)
	}
	return opts, nil
}

func (f *fileOptions) apply(o *Options) {
	if f.Quiet != nil {
		o.Quiet = *f.Quiet
	}
	if f.Verbosity != nil {
		o.Verbosity = *f.Verbosity
	}
	if f.Images != nil {
		o.Images = *f.Images
	}
	if f.All != nil {
		o.All = *f.All
	}
	if f.Step != nil {
		o.Step = *f.Step
	}
	if f.Start != nil {
		o.Start = *f.Start
	}
	if f.Stop != nil {
		o.Stop = *f.Stop
	}
	if f.OutDir != nil {
		o.OutDir = *f.OutDir
	}
}

// formatCUEError keeps the first error and its position.
func formatCUEError(path string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Path: path, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Path: path, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
