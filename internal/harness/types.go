package harness

import (
	"github.com/bitrig/bitrig-xenocara/internal/engine"
	"github.com/bitrig/bitrig-xenocara/internal/present"
	"github.com/bitrig/bitrig-xenocara/internal/store"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success: the expected outcome was
	// reached and every assertion holds.
	Pass bool

	// Output is the echo and dump log of the replay.
	Output string

	// Replay summarizes the replay.
	Replay engine.Result

	// Err is the error that ended the replay, nil on success.
	Err error

	// Frames are the presented frames in presentation order.
	Frames []present.Frame

	// Run and Journal are the run as recorded in the store.
	Run     store.Run
	Journal []store.Frame

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string

	objects *engine.ObjectTable
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
