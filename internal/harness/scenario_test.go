package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTrace creates a one-call trace file for testing.
func createTestTrace(t *testing.T, dir string) string {
	t.Helper()
	tracesDir := filepath.Join(dir, "traces")
	require.NoError(t, os.MkdirAll(tracesDir, 0755))
	path := filepath.Join(tracesDir, "one.jsonl")
	content := `{"no":1,"method":"pipe_screen_create","args":[],"ret":{"ptr":"0x1000"}}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	createTestTrace(t, dir)

	path := writeScenario(t, dir, `
name: test_scenario
description: "Test scenario for validation"
trace: traces/one.jsonl
options:
  verbosity: 2
  stop: 20
expect:
  dispatched: 1
assertions:
  - type: object_registered
    address: "0x1000"
  - type: frame
    call: 7
    description: cbuf
    pixel: {x: 1, y: 2, rgba: [255, 0, 0, 255]}
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, filepath.Join(dir, "traces", "one.jsonl"), scenario.Trace, "trace resolved against the scenario")
	require.NotNil(t, scenario.Options.Verbosity)
	assert.Equal(t, 2, *scenario.Options.Verbosity)
	assert.Equal(t, uint64(20), scenario.Options.Stop)
	require.NotNil(t, scenario.Expect.Dispatched)
	assert.Equal(t, 1, *scenario.Expect.Dispatched)
	require.Len(t, scenario.Assertions, 2)
	assert.Equal(t, AssertObjectRegistered, scenario.Assertions[0].Type)
	require.NotNil(t, scenario.Assertions[1].Pixel)
	assert.Equal(t, Pixel{X: 1, Y: 2, RGBA: [4]uint8{255, 0, 0, 255}}, *scenario.Assertions[1].Pixel)
}

func TestLoadScenario_AbsoluteTrace(t *testing.T) {
	dir := t.TempDir()
	tracePath := createTestTrace(t, dir)

	scenario, err := LoadScenario(writeScenario(t, t.TempDir(), `
name: absolute
description: "Absolute trace path"
trace: `+tracePath+`
`))
	require.NoError(t, err)
	assert.Equal(t, tracePath, scenario.Trace)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	dir := t.TempDir()
	createTestTrace(t, dir)

	_, err := LoadScenario(writeScenario(t, dir, `
name: typo
description: "Misspelled key"
trace: traces/one.jsonl
assertion:
  - type: object_count
    count: 1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\ntrace: traces/one.jsonl\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\ntrace: traces/one.jsonl\n",
			wantErr: "description is required",
		},
		{
			name:    "missing trace",
			content: "name: n\ndescription: d\n",
			wantErr: "trace is required",
		},
		{
			name:    "trace not found",
			content: "name: n\ndescription: d\ntrace: traces/none.jsonl\n",
			wantErr: "trace file not found",
		},
		{
			name:    "verbosity out of range",
			content: "name: n\ndescription: d\ntrace: traces/one.jsonl\noptions:\n  verbosity: 4\n",
			wantErr: "options.verbosity must be between 0 and 3",
		},
		{
			name:    "assertion without type",
			content: "name: n\ndescription: d\ntrace: traces/one.jsonl\nassertions:\n  - address: \"0x1\"\n",
			wantErr: "assertions[0]: type is required",
		},
		{
			name:    "unknown assertion",
			content: "name: n\ndescription: d\ntrace: traces/one.jsonl\nassertions:\n  - type: nope\n",
			wantErr: `unknown assertion type "nope"`,
		},
		{
			name:    "address required",
			content: "name: n\ndescription: d\ntrace: traces/one.jsonl\nassertions:\n  - type: context_clean\n",
			wantErr: "address is required for context_clean",
		},
		{
			name:    "bad address",
			content: "name: n\ndescription: d\ntrace: traces/one.jsonl\nassertions:\n  - type: object_registered\n    address: zero\n",
			wantErr: `invalid address "zero"`,
		},
		{
			name:    "screen required",
			content: "name: n\ndescription: d\ntrace: traces/one.jsonl\nassertions:\n  - type: context_of_screen\n    address: \"0x2000\"\n",
			wantErr: "screen is required for context_of_screen",
		},
		{
			name:    "count required",
			content: "name: n\ndescription: d\ntrace: traces/one.jsonl\nassertions:\n  - type: frame_count\n",
			wantErr: "count is required for frame_count",
		},
		{
			name:    "negative count",
			content: "name: n\ndescription: d\ntrace: traces/one.jsonl\nassertions:\n  - type: object_count\n    count: -1\n",
			wantErr: "count must be non-negative",
		},
		{
			name:    "frame without call",
			content: "name: n\ndescription: d\ntrace: traces/one.jsonl\nassertions:\n  - type: frame\n    description: cbuf\n",
			wantErr: "call and description are required for frame",
		},
		{
			name:    "output without text",
			content: "name: n\ndescription: d\ntrace: traces/one.jsonl\nassertions:\n  - type: output_contains\n",
			wantErr: "text is required for output_contains",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createTestTrace(t, dir)

			_, err := LoadScenario(writeScenario(t, dir, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScenarioOptions_Config(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts := ScenarioOptions{}.Config()
		assert.Equal(t, 1, opts.Verbosity)
		assert.False(t, opts.Quiet)
		assert.Zero(t, opts.Stop)
	})

	t.Run("explicit zero verbosity", func(t *testing.T) {
		zero := 0
		opts := ScenarioOptions{Verbosity: &zero, Step: true, Start: 3, Stop: 9}.Config()
		assert.Equal(t, 0, opts.Verbosity)
		assert.True(t, opts.Step)
		assert.Equal(t, uint64(3), opts.Start)
		assert.Equal(t, uint64(9), opts.Stop)
	})
}

func TestLoadScenario_Testdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, filepath.Base(path), scenario.Name+".yaml", "scenario name matches its file")
		})
	}
}
