// Package harness runs end-to-end replay scenarios.
//
// A scenario names a JSON-lines trace, the replay options to use, the
// expected outcome and a list of assertions over the replay. Each scenario
// imports its trace into a fresh in-memory store, replays it from there
// against the memdev backend and journals the run, exactly as
// "retrace replay --db" does.
//
// # Scenario Format
//
//	name: draw_and_flush
//	description: "A drawn render target is presented at the frame flush"
//	trace: traces/draw_and_flush.jsonl
//	options:
//	  verbosity: 2
//	  step: true
//	  stop: 20
//	expect:
//	  error: ""          # replay error code, e.g. UNKNOWN_OBJECT
//	  stopped: false
//	  dispatched: 8
//	  last_call: 8
//	assertions:
//	  - type: object_registered
//	    address: "0x2000"
//	  - type: frame
//	    call: 8
//	    description: cbuf
//	    pixel: { x: 0, y: 0, rgba: [255, 0, 0, 255] }
//
// The trace path is relative to the scenario file.
//
// # Assertion Types
//
//   - object_registered: an object is registered at address
//   - object_count: the object table holds exactly count entries
//   - context_of_screen: the context at address was created by the
//     backend screen behind the wrapper at screen
//   - context_clean: the context at address has no unpresented rendering
//   - frame: a frame was presented at call with description, optionally
//     with a pixel of the given color
//   - frame_count: exactly count frames were presented
//   - output_contains: the echo and dump log contains text
//
// # Deterministic Testing
//
// Scenarios run with a testutil.DeterministicClock and a fixed run ID, so
// the journal is identical across runs. RunWithGolden compares the echo
// log and the journal of a scenario against testdata/golden/<name>.golden.
package harness
