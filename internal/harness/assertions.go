package harness

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"

	"github.com/bitrig/bitrig-xenocara/internal/engine"
	"github.com/bitrig/bitrig-xenocara/internal/pipe/memdev"
	"github.com/bitrig/bitrig-xenocara/internal/present"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string          // Assertion type for categorization
	Expected string          // Human-readable expected outcome
	Actual   string          // Human-readable actual outcome
	Frames   []present.Frame // Presented frames for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Frames) > 0 {
		fmt.Fprintf(&buf, "\nPresented frames:\n")
		for _, f := range e.Frames {
			fmt.Fprintf(&buf, "  %s\n", f.Title())
		}
	}

	return buf.String()
}

// EvaluateAssertions runs all assertions against a result and returns
// the failure messages. Returns an empty slice if all pass.
func EvaluateAssertions(r *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(r, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertObjectRegistered:
		return assertObjectRegistered(r, a)
	case AssertObjectCount:
		return assertObjectCount(r, a)
	case AssertContextOfScreen:
		return assertContextOfScreen(r, a)
	case AssertContextClean:
		return assertContextClean(r, a)
	case AssertFrame:
		return assertFrame(r, a)
	case AssertFrameCount:
		return assertFrameCount(r, a)
	case AssertOutputContains:
		return assertOutputContains(r, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func lookup(r *Result, address string) (any, error) {
	addr, err := trace.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	return r.objects.Lookup(addr)
}

func assertObjectRegistered(r *Result, a Assertion) error {
	if _, err := lookup(r, a.Address); err != nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("object at %s", a.Address),
			Actual:   err.Error(),
		}
	}
	return nil
}

func assertObjectCount(r *Result, a Assertion) error {
	if got := r.objects.Len(); got != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d objects", *a.Count),
			Actual:   fmt.Sprintf("%d objects at %s", got, formatAddresses(r.objects.Addresses())),
		}
	}
	return nil
}

func formatAddresses(addrs []uint64) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = trace.FormatAddress(a)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func contextAt(r *Result, address string) (*engine.Context, error) {
	obj, err := lookup(r, address)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(*engine.Context)
	if !ok {
		return nil, fmt.Errorf("object at %s is %T, not a context", address, obj)
	}
	return c, nil
}

func assertContextOfScreen(r *Result, a Assertion) error {
	c, err := contextAt(r, a.Address)
	if err != nil {
		return err
	}
	obj, err := lookup(r, a.Screen)
	if err != nil {
		return err
	}
	s, ok := obj.(*engine.Screen)
	if !ok {
		return fmt.Errorf("object at %s is %T, not a screen", a.Screen, obj)
	}
	ms, ok := s.Real().(*memdev.Screen)
	if !ok {
		return fmt.Errorf("screen at %s is not a memdev screen", a.Screen)
	}

	for _, mc := range ms.Contexts() {
		if c.Real() == mc {
			return nil
		}
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("context %s created by screen %s", a.Address, a.Screen),
		Actual:   fmt.Sprintf("screen %s created %d other contexts", a.Screen, len(ms.Contexts())),
	}
}

func assertContextClean(r *Result, a Assertion) error {
	c, err := contextAt(r, a.Address)
	if err != nil {
		return err
	}
	if c.Dirty() {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("context %s has no unpresented rendering", a.Address),
			Actual:   "context is dirty",
			Frames:   r.Frames,
		}
	}
	return nil
}

func assertFrame(r *Result, a Assertion) error {
	idx := slices.IndexFunc(r.Frames, func(f present.Frame) bool {
		return f.CallNo == a.Call && f.Description == a.Description
	})
	if idx < 0 {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("frame %d. %s", a.Call, a.Description),
			Actual:   "not presented",
			Frames:   r.Frames,
		}
	}
	if a.Pixel == nil {
		return nil
	}

	f := r.Frames[idx]
	p := *a.Pixel
	if !image.Pt(p.X, p.Y).In(f.Image.Bounds()) {
		return fmt.Errorf("pixel (%d, %d) is outside the %s frame", p.X, p.Y, f.Title())
	}
	want := color.RGBA{p.RGBA[0], p.RGBA[1], p.RGBA[2], p.RGBA[3]}
	if got := f.Image.RGBAAt(p.X, p.Y); got != want {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s pixel (%d, %d) = %v", f.Title(), p.X, p.Y, want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

func assertFrameCount(r *Result, a Assertion) error {
	if got := len(r.Frames); got != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d frames", *a.Count),
			Actual:   fmt.Sprintf("%d frames", got),
			Frames:   r.Frames,
		}
	}
	return nil
}

func assertOutputContains(r *Result, a Assertion) error {
	if !strings.Contains(r.Output, a.Text) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("output containing %q", a.Text),
			Actual:   fmt.Sprintf("%d bytes of output without it", len(r.Output)),
		}
	}
	return nil
}
