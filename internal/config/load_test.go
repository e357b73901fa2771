package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retrace.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoad_FullReplayBlock(t *testing.T) {
	path := writeConfig(t, `
replay: {
	quiet:     false
	verbosity: 3
	images:    true
	all:       true
	step:      true
	start:     10
	stop:      200
	out_dir:   "frames"
}
`)

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Options{
		Verbosity: 3,
		Images:    true,
		All:       true,
		Step:      true,
		Start:     10,
		Stop:      200,
		OutDir:    "frames",
	}, opts)
}

func TestLoad_AbsentFieldsKeepDefaults(t *testing.T) {
	opts, err := Parse("partial.cue", []byte(`replay: step: true`))
	require.NoError(t, err)

	want := Default()
	want.Step = true
	assert.Equal(t, want, opts)
}

func TestLoad_EmptyFile(t *testing.T) {
	opts, err := Parse("empty.cue", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), opts)
}

func TestLoad_ExplicitZeroOverridesDefault(t *testing.T) {
	opts, err := Parse("zero.cue", []byte(`replay: verbosity: 0`))
	require.NoError(t, err)
	assert.Equal(t, 0, opts.Verbosity)
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"verbosity out of range", `replay: verbosity: 7`},
		{"negative start", `replay: start: -1`},
		{"wrong type", `replay: images: "yes"`},
		{"unknown option", `replay: colour: true`},
		{"unknown top-level block", `viewer: {}`},
		{"not concrete", `replay: verbosity: int`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.cue", []byte(tt.src))
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "got %T", err)
			assert.Equal(t, "bad.cue", le.Path)
		})
	}
}

func TestLoad_SyntaxErrorHasPosition(t *testing.T) {
	_, err := Parse("broken.cue", []byte("replay: {\n\tstep: true\n"))
	require.Error(t, err)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.True(t, le.Pos.IsValid())
	assert.Contains(t, err.Error(), "broken.cue:")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestOptions_Verbose(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		level int
		want  bool
	}{
		{"default echoes", Default(), 1, true},
		{"default does not dump", Default(), 2, false},
		{"quiet silences everything", Options{Quiet: true, Verbosity: 3}, 1, false},
		{"level 3 dumps", Options{Verbosity: 3}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Verbose(tt.level))
		})
	}
}
