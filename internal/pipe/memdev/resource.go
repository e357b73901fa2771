package memdev

import (
	"fmt"

	"github.com/bitrig/bitrig-xenocara/internal/pipe"
)

// Resource is a buffer or texture backed by one byte slab per mip level.
//
// Texture level layout is slice-major: slice s, row y, column x lives at
// ((s*h)+y)*w*bpp + x*bpp. Slices are depth slices for 3D textures, faces
// for cube maps, and array layers otherwise.
type Resource struct {
	templ  pipe.ResourceTemplate
	levels [][]byte
}

var _ pipe.Resource = (*Resource)(nil)

// maxLevelBytes bounds the backing slab of a single mip level.
const maxLevelBytes = 1 << 30

func newResource(t pipe.ResourceTemplate) (*Resource, error) {
	if t.Target == pipe.Buffer {
		if t.Width > maxLevelBytes {
			return nil, fmt.Errorf("memdev: buffer of %d bytes, limit is %d", t.Width, maxLevelBytes)
		}
		return &Resource{templ: t, levels: [][]byte{make([]byte, t.Width)}}, nil
	}

	if !t.Format.Valid() {
		return nil, fmt.Errorf("memdev: unsupported texture format %d", t.Format)
	}
	if t.Width == 0 || t.Height == 0 {
		return nil, fmt.Errorf("memdev: empty texture %dx%d", t.Width, t.Height)
	}

	r := &Resource{templ: t}
	for level := uint32(0); level <= t.LastLevel; level++ {
		w, h, _ := t.LevelSize(level)
		size := uint64(w) * uint64(h) * uint64(r.slices(level)) * uint64(t.Format.BlockSize())
		if size > maxLevelBytes {
			return nil, fmt.Errorf("memdev: texture %dx%d level %d needs %d bytes, limit is %d",
				t.Width, t.Height, level, size, maxLevelBytes)
		}
		r.levels = append(r.levels, make([]byte, size))
	}
	return r, nil
}

// Template implements pipe.Resource.
func (r *Resource) Template() pipe.ResourceTemplate {
	return r.templ
}

// Level returns the backing bytes of a mip level. The slice aliases the
// resource storage.
func (r *Resource) Level(level uint32) []byte {
	if int(level) >= len(r.levels) {
		return nil
	}
	return r.levels[level]
}

func (r *Resource) isBuffer() bool {
	return r.templ.Target == pipe.Buffer
}

func (r *Resource) slices(level uint32) uint32 {
	switch r.templ.Target {
	case pipe.TextureCube:
		return 6
	case pipe.Texture3D:
		_, _, d := r.templ.LevelSize(level)
		return d
	}
	return max(r.templ.ArraySize, 1)
}

// region is a validated rectangle inside one slice of one level.
type region struct {
	data          []byte
	bpp           int
	rowPitch      int
	offset        int
	width, height int
}

func (r *Resource) region(level, slice, x, y, w, h uint32) (region, error) {
	if r.isBuffer() {
		return region{}, fmt.Errorf("memdev: buffer used as texture")
	}
	if int(level) >= len(r.levels) {
		return region{}, fmt.Errorf("memdev: level %d out of range (last %d)", level, r.templ.LastLevel)
	}
	lw, lh, _ := r.templ.LevelSize(level)
	if slice >= r.slices(level) {
		return region{}, fmt.Errorf("memdev: slice %d out of range (%d slices)", slice, r.slices(level))
	}
	if uint64(x)+uint64(w) > uint64(lw) || uint64(y)+uint64(h) > uint64(lh) {
		return region{}, fmt.Errorf("memdev: region %d,%d %dx%d outside level %d (%dx%d)", x, y, w, h, level, lw, lh)
	}
	bpp := r.templ.Format.BlockSize()
	pitch := int(lw) * bpp
	return region{
		data:     r.levels[level],
		bpp:      bpp,
		rowPitch: pitch,
		offset:   int(slice)*int(lh)*pitch + int(y)*pitch + int(x)*bpp,
		width:    int(w),
		height:   int(h),
	}, nil
}

// row returns row y of the region.
func (g region) row(y int) []byte {
	start := g.offset + y*g.rowPitch
	return g.data[start : start+g.width*g.bpp]
}

// surfaceSlice maps a surface to the slice index of its resource.
func surfaceSlice(s *pipe.Surface) uint32 {
	if s.Resource.Template().Target == pipe.TextureCube {
		return s.Face
	}
	return s.Layer
}
