package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineSize bounds a single encoded call. Blob arguments (buffer and
// texture uploads) make lines much longer than bufio's 64 KiB default.
const maxLineSize = 64 << 20

// Source yields calls in trace order. Next returns io.EOF after the last call.
type Source interface {
	Next() (Call, error)
}

// Reader decodes a JSON-lines trace. Blank lines and lines starting with
// '#' are skipped.
//
// Reader enforces the ordering invariant: call numbers must be strictly
// increasing.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	last    uint64
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: sc}
}

// Next returns the next call, or io.EOF.
func (r *Reader) Next() (Call, error) {
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var call Call
		if err := json.Unmarshal(line, &call); err != nil {
			return Call{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		if call.No <= r.last {
			return Call{}, fmt.Errorf("line %d: call number %d is not greater than previous call %d", r.line, call.No, r.last)
		}
		r.last = call.No
		return call, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Call{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return Call{}, io.EOF
}

// ReadAll drains a source into a slice.
func ReadAll(src Source) ([]Call, error) {
	var calls []Call
	for {
		call, err := src.Next()
		if err == io.EOF {
			return calls, nil
		}
		if err != nil {
			return calls, err
		}
		calls = append(calls, call)
	}
}

// SliceSource replays an in-memory list of calls.
type SliceSource struct {
	calls []Call
	pos   int
}

// NewSliceSource creates a Source over calls. The slice is not copied.
func NewSliceSource(calls []Call) *SliceSource {
	return &SliceSource{calls: calls}
}

// Next implements Source.
func (s *SliceSource) Next() (Call, error) {
	if s.pos >= len(s.calls) {
		return Call{}, io.EOF
	}
	call := s.calls[s.pos]
	s.pos++
	return call, nil
}

// Writer encodes calls as JSON lines.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes one call followed by a newline.
func (w *Writer) Write(call Call) error {
	data, err := json.Marshal(call)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.w.Write(data)
	return err
}
