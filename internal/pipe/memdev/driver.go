// Package memdev is an in-memory pipe backend.
//
// Resources are plain byte slices. Clears, region copies, transfers and
// buffer I/O operate on them exactly; draws are validated and counted but
// not rasterized. It is the default backend of the replay tool and the one
// every test replays against.
package memdev

import (
	"fmt"
	"log/slog"

	"github.com/bitrig/bitrig-xenocara/internal/pipe"
)

// Driver creates memdev screens.
type Driver struct {
	logger  *slog.Logger
	screens []*Screen
}

var _ pipe.Driver = (*Driver)(nil)

// New creates a Driver. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{logger: logger}
}

// CreateScreen implements pipe.Driver.
func (d *Driver) CreateScreen() (pipe.Screen, error) {
	s := &Screen{logger: d.logger}
	d.screens = append(d.screens, s)
	d.logger.Debug("screen created", "screen", len(d.screens))
	return s, nil
}

// Screens returns the screens created so far, in creation order.
func (d *Driver) Screens() []*Screen {
	return d.screens
}

// Screen is a memdev device.
type Screen struct {
	logger    *slog.Logger
	contexts  []*Context
	resources []*Resource
}

var _ pipe.Screen = (*Screen)(nil)

func (s *Screen) Name() string   { return "memdev" }
func (s *Screen) Vendor() string { return "retrace" }

// ContextCreate implements pipe.Screen.
func (s *Screen) ContextCreate() (pipe.Context, error) {
	c := &Context{screen: s}
	s.contexts = append(s.contexts, c)
	return c, nil
}

// Contexts returns the contexts created on this screen, in creation order.
func (s *Screen) Contexts() []*Context {
	return s.contexts
}

// IsFormatSupported implements pipe.Screen. memdev can store every format
// it knows about for any target.
func (s *Screen) IsFormatSupported(format pipe.Format, target, bind uint32) bool {
	return format.Valid()
}

// ResourceCreate implements pipe.Screen.
func (s *Screen) ResourceCreate(templ pipe.ResourceTemplate) (pipe.Resource, error) {
	r, err := newResource(templ)
	if err != nil {
		return nil, err
	}
	s.resources = append(s.resources, r)
	s.logger.Debug("resource created",
		"target", templ.Target,
		"format", templ.Format.String(),
		"width", templ.Width,
		"height", templ.Height)
	return r, nil
}

// Resources returns the resources created on this screen.
func (s *Screen) Resources() []*Resource {
	return s.resources
}

func asResource(r pipe.Resource) (*Resource, error) {
	if r == nil {
		return nil, fmt.Errorf("memdev: nil resource")
	}
	mr, ok := r.(*Resource)
	if !ok {
		return nil, fmt.Errorf("memdev: foreign resource %T", r)
	}
	return mr, nil
}
