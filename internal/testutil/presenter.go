package testutil

import (
	"sync"

	"github.com/bitrig/bitrig-xenocara/internal/present"
)

// RecordingPresenter keeps every presented frame in memory.
type RecordingPresenter struct {
	mu     sync.Mutex
	frames []present.Frame
	err    error
}

// NewRecordingPresenter creates an empty recorder.
func NewRecordingPresenter() *RecordingPresenter {
	return &RecordingPresenter{}
}

// FailWith makes later Present calls record the frame and return err.
func (p *RecordingPresenter) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Present implements present.Presenter.
func (p *RecordingPresenter) Present(f present.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, f)
	return p.err
}

// Frames returns a copy of the recorded frames.
func (p *RecordingPresenter) Frames() []present.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]present.Frame(nil), p.frames...)
}

// Descriptions returns the title of each recorded frame, e.g. "7. cbuf".
func (p *RecordingPresenter) Descriptions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.frames))
	for i, f := range p.frames {
		out[i] = f.Title()
	}
	return out
}
