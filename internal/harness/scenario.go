package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bitrig/bitrig-xenocara/internal/config"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// Scenario defines an end-to-end replay test.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Trace is the JSON-lines trace to replay. Relative paths are resolved
	// against the scenario file by LoadScenario.
	Trace string `yaml:"trace"`

	// Options are the replay options. Absent fields keep their defaults.
	Options ScenarioOptions `yaml:"options,omitempty"`

	// Expect describes how the replay ends.
	Expect Expect `yaml:"expect,omitempty"`

	// Assertions validate the replay.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunID is the journal ID of the run. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`
}

// ScenarioOptions mirrors config.Options.
type ScenarioOptions struct {
	Quiet     bool   `yaml:"quiet,omitempty"`
	Verbosity *int   `yaml:"verbosity,omitempty"`
	All       bool   `yaml:"all,omitempty"`
	Step      bool   `yaml:"step,omitempty"`
	Start     uint64 `yaml:"start,omitempty"`
	Stop      uint64 `yaml:"stop,omitempty"`
}

// Config converts the scenario options to replay options.
func (o ScenarioOptions) Config() config.Options {
	opts := config.Default()
	opts.Quiet = o.Quiet
	if o.Verbosity != nil {
		opts.Verbosity = *o.Verbosity
	}
	opts.All = o.All
	opts.Step = o.Step
	opts.Start = o.Start
	opts.Stop = o.Stop
	return opts
}

// Expect describes the end of a replay.
type Expect struct {
	// Error is the expected replay error code. Empty means the replay
	// must succeed.
	Error string `yaml:"error,omitempty"`

	// Stopped requires the replay to end at the stop threshold.
	Stopped bool `yaml:"stopped,omitempty"`

	// Dispatched, if set, is the exact number of interpreted calls.
	Dispatched *int `yaml:"dispatched,omitempty"`

	// LastCall, if set, is the number of the last call dispatched or skipped.
	LastCall *uint64 `yaml:"last_call,omitempty"`
}

// Pixel is an expected frame color.
type Pixel struct {
	X    int      `yaml:"x"`
	Y    int      `yaml:"y"`
	RGBA [4]uint8 `yaml:"rgba"`
}

// Assertion validates the replay.
type Assertion struct {
	// Type specifies the assertion type. See the package documentation.
	Type string `yaml:"type"`

	// Address is a trace address such as "0x2000" (object_registered,
	// context_of_screen, context_clean).
	Address string `yaml:"address,omitempty"`

	// Screen is the screen address (context_of_screen).
	Screen string `yaml:"screen,omitempty"`

	// Call and Description identify a frame (frame).
	Call        uint64 `yaml:"call,omitempty"`
	Description string `yaml:"description,omitempty"`

	// Pixel optionally checks one pixel of the frame (frame).
	Pixel *Pixel `yaml:"pixel,omitempty"`

	// Count is the expected number (object_count, frame_count).
	Count *int `yaml:"count,omitempty"`

	// Text is the expected log excerpt (output_contains).
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertObjectRegistered = "object_registered"
	AssertObjectCount      = "object_count"
	AssertContextOfScreen  = "context_of_screen"
	AssertContextClean     = "context_clean"
	AssertFrame            = "frame"
	AssertFrameCount       = "frame_count"
	AssertOutputContains   = "output_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the trace path relative to the scenario BEFORE validation
	if scenario.Trace != "" && !filepath.IsAbs(scenario.Trace) {
		scenario.Trace = filepath.Join(filepath.Dir(path), scenario.Trace)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Trace == "" {
		return fmt.Errorf("trace is required")
	}
	if _, err := os.Stat(s.Trace); os.IsNotExist(err) {
		return fmt.Errorf("trace file not found: %s", s.Trace)
	}

	if v := s.Options.Verbosity; v != nil && (*v < 0 || *v > 3) {
		return fmt.Errorf("options.verbosity must be between 0 and 3, got %d", *v)
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	requireAddress := func(field, value string) error {
		if value == "" {
			return fmt.Errorf("assertions[%d]: %s is required for %s", index, field, a.Type)
		}
		if _, err := trace.ParseAddress(value); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		return nil
	}
	requireCount := func() error {
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
		return nil
	}

	switch a.Type {
	case AssertObjectRegistered, AssertContextClean:
		return requireAddress("address", a.Address)
	case AssertContextOfScreen:
		if err := requireAddress("address", a.Address); err != nil {
			return err
		}
		return requireAddress("screen", a.Screen)
	case AssertObjectCount, AssertFrameCount:
		return requireCount()
	case AssertFrame:
		if a.Call == 0 || a.Description == "" {
			return fmt.Errorf("assertions[%d]: call and description are required for frame", index)
		}
	case AssertOutputContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for output_contains", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
