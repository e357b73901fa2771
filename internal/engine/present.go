package engine

import (
	"image"

	"github.com/bitrig/bitrig-xenocara/internal/pipe"
	"github.com/bitrig/bitrig-xenocara/internal/present"
)

// region is a rectangle in surface coordinates. It may extend past the
// surface; present clips it.
type region struct {
	x, y, w, h int64
}

func boxRegion(b pipe.Box) *region {
	return &region{int64(b.X), int64(b.Y), int64(b.Width), int64(b.Height)}
}

// present reads back a region of s (the whole surface when rgn is nil)
// and hands it to the presenter. Nothing is presented before the start
// call. Failures are logged: presentation never stops a replay.
func (e *Engine) present(ctx pipe.Context, s *pipe.Surface, desc string, rgn *region) {
	if e.presenter == nil || s == nil || e.callNo < e.opts.Start {
		return
	}

	r := region{0, 0, int64(s.Width), int64(s.Height)}
	if rgn != nil {
		r = *rgn
	}
	x0, y0 := max(r.x, 0), max(r.y, 0)
	x1, y1 := min(r.x+r.w, int64(s.Width)), min(r.y+r.h, int64(s.Height))
	if x1 <= x0 || y1 <= y0 {
		e.logger.Debug("present: empty region", "call", e.callNo, "what", desc)
		return
	}
	w, h := uint32(x1-x0), uint32(y1-y0)

	data, err := ctx.SurfaceReadRGBA8(s, uint32(x0), uint32(y0), w, h)
	if err != nil {
		e.logger.Warn("present: read back failed", "call", e.callNo, "what", desc, "error", err)
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(img.Pix, data)

	frame := present.Frame{CallNo: e.callNo, Description: desc, Image: img}
	if err := e.presenter.Present(frame); err != nil {
		e.logger.Warn("present failed", "call", e.callNo, "what", desc, "error", err)
	}
}
