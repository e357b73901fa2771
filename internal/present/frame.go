// Package present shows or saves frames read back from render targets.
//
// Presenters only ever receive pixels that were already read back; they
// never touch the backend.
package present

import (
	"fmt"
	"image"
)

// Frame is one presented image.
type Frame struct {
	// CallNo is the call during which the frame was presented.
	CallNo uint64

	// Description names what was presented: "cbuf", "zsbuf",
	// "resource_copy_src", "transf_inline_write0", ...
	Description string

	Image *image.RGBA
}

// FileName returns the PNG file name of the frame, e.g. "0042_cbuf.png".
func (f Frame) FileName() string {
	return fmt.Sprintf("%04d_%s.png", f.CallNo, f.Description)
}

// Title returns the interactive window title, e.g. "42. cbuf".
func (f Frame) Title() string {
	return fmt.Sprintf("%d. %s", f.CallNo, f.Description)
}

// Presenter receives frames.
type Presenter interface {
	Present(f Frame) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(f Frame) error

// Present implements Presenter.
func (fn PresenterFunc) Present(f Frame) error {
	return fn(f)
}
