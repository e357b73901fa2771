package memdev

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/bitrig/bitrig-xenocara/internal/pipe"
)

// layout describes where the color channels of an 8-bit-per-channel format
// live inside a texel. Index -1 reads as 0xff, -2 reads as 0.
type layout struct {
	class      gputypes.TextureFormat
	r, g, b, a int
}

const (
	one  = -1
	zero = -2
)

var layouts = map[pipe.Format]layout{
	pipe.FormatR8G8B8A8Unorm: {gputypes.TextureFormatRGBA8Unorm, 0, 1, 2, 3},
	pipe.FormatR8G8B8X8Unorm: {gputypes.TextureFormatRGBA8Unorm, 0, 1, 2, one},
	pipe.FormatB8G8R8A8Unorm: {gputypes.TextureFormatBGRA8Unorm, 2, 1, 0, 3},
	pipe.FormatB8G8R8X8Unorm: {gputypes.TextureFormatBGRA8Unorm, 2, 1, 0, one},
	pipe.FormatA8R8G8B8Unorm: {gputypes.TextureFormatBGRA8Unorm, 1, 2, 3, 0},
	pipe.FormatX8R8G8B8Unorm: {gputypes.TextureFormatBGRA8Unorm, 1, 2, 3, one},
	pipe.FormatL8Unorm:       {gputypes.TextureFormatR8Unorm, 0, 0, 0, one},
	pipe.FormatA8Unorm:       {gputypes.TextureFormatR8Unorm, zero, zero, zero, 0},
	pipe.FormatI8Unorm:       {gputypes.TextureFormatR8Unorm, 0, 0, 0, 0},
	pipe.FormatR8G8B8Unorm:   {gputypes.TextureFormatRGBA8Unorm, 0, 1, 2, one},
}

// storageClass groups formats by how memdev stores them. Formats with no
// counterpart (Z32_UNORM, B5G6R5, packed RGB floats) are Undefined and
// decoded case by case.
func storageClass(f pipe.Format) gputypes.TextureFormat {
	if l, ok := layouts[f]; ok {
		return l.class
	}
	switch f {
	case pipe.FormatZ24UnormS8Uscaled, pipe.FormatS8UscaledZ24Unorm:
		return gputypes.TextureFormatDepth24PlusStencil8
	case pipe.FormatZ24X8Unorm, pipe.FormatX8Z24Unorm:
		return gputypes.TextureFormatDepth24Plus
	case pipe.FormatZ16Unorm:
		return gputypes.TextureFormatDepth16Unorm
	case pipe.FormatZ32Float:
		return gputypes.TextureFormatDepth32Float
	case pipe.FormatR32Float:
		return gputypes.TextureFormatR32Float
	case pipe.FormatR32G32Float:
		return gputypes.TextureFormatRG32Float
	case pipe.FormatR32G32B32A32Float:
		return gputypes.TextureFormatRGBA32Float
	}
	return gputypes.TextureFormatUndefined
}

// packedZ24 reports whether texels hold 24-bit depth in a 32-bit word.
func packedZ24(class gputypes.TextureFormat) bool {
	return class == gputypes.TextureFormatDepth24Plus || class == gputypes.TextureFormatDepth24PlusStencil8
}

func pick(texel []byte, idx int) uint8 {
	switch idx {
	case one:
		return 0xff
	case zero:
		return 0
	}
	return texel[idx]
}

func unorm8(f float64) uint8 {
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	if f >= 1 {
		return 0xff
	}
	return uint8(math.Round(f * 255))
}

// z24 splits a packed 24-bit depth / 8-bit stencil texel.
func z24(f pipe.Format, texel []byte) (depth, stencil uint32) {
	v := binary.LittleEndian.Uint32(texel)
	switch f {
	case pipe.FormatZ24UnormS8Uscaled:
		return v & 0xffffff, v >> 24
	case pipe.FormatS8UscaledZ24Unorm:
		return v >> 8, v & 0xff
	case pipe.FormatZ24X8Unorm:
		return v & 0xffffff, 0
	default:
		return v >> 8, 0
	}
}

// decodeRGBA8 converts one texel to 8-bit RGBA. Depth formats decode to
// gray levels of the depth value.
func decodeRGBA8(f pipe.Format, texel []byte) ([4]uint8, error) {
	if l, ok := layouts[f]; ok {
		return [4]uint8{pick(texel, l.r), pick(texel, l.g), pick(texel, l.b), pick(texel, l.a)}, nil
	}

	gray := func(v uint8) [4]uint8 { return [4]uint8{v, v, v, 0xff} }
	if packedZ24(storageClass(f)) {
		d, _ := z24(f, texel)
		return gray(uint8(d >> 16)), nil
	}

	switch f {
	case pipe.FormatZ16Unorm:
		return gray(uint8(binary.LittleEndian.Uint16(texel) >> 8)), nil
	case pipe.FormatZ32Unorm:
		return gray(uint8(binary.LittleEndian.Uint32(texel) >> 24)), nil
	case pipe.FormatZ32Float:
		return gray(unorm8(float64(math.Float32frombits(binary.LittleEndian.Uint32(texel))))), nil
	case pipe.FormatB5G6R5Unorm:
		v := binary.LittleEndian.Uint16(texel)
		r := uint8((v >> 11) & 0x1f)
		g := uint8((v >> 5) & 0x3f)
		b := uint8(v & 0x1f)
		return [4]uint8{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2, 0xff}, nil
	case pipe.FormatR32Float, pipe.FormatR32G32Float, pipe.FormatR32G32B32Float, pipe.FormatR32G32B32A32Float:
		out := [4]uint8{0, 0, 0, 0xff}
		for i := 0; i < f.Channels(); i++ {
			out[i] = unorm8(float64(math.Float32frombits(binary.LittleEndian.Uint32(texel[i*4:]))))
		}
		return out, nil
	}
	return [4]uint8{}, fmt.Errorf("memdev: cannot read %s as rgba8", f)
}

// encodeColor packs a clear color into one texel of format f.
func encodeColor(f pipe.Format, rgba [4]float32) ([]byte, error) {
	texel := make([]byte, f.BlockSize())
	if l, ok := layouts[f]; ok {
		for ch, idx := range [4]int{l.r, l.g, l.b, l.a} {
			if idx >= 0 {
				texel[idx] = unorm8(float64(rgba[ch]))
			}
		}
		return texel, nil
	}

	switch f {
	case pipe.FormatB5G6R5Unorm:
		r := uint16(math.Round(clamp01(rgba[0]) * 31))
		g := uint16(math.Round(clamp01(rgba[1]) * 63))
		b := uint16(math.Round(clamp01(rgba[2]) * 31))
		binary.LittleEndian.PutUint16(texel, r<<11|g<<5|b)
		return texel, nil
	case pipe.FormatR32Float, pipe.FormatR32G32Float, pipe.FormatR32G32B32Float, pipe.FormatR32G32B32A32Float:
		for i := 0; i < f.Channels(); i++ {
			binary.LittleEndian.PutUint32(texel[i*4:], math.Float32bits(rgba[i]))
		}
		return texel, nil
	}
	return nil, fmt.Errorf("memdev: %s is not a color format", f)
}

func clamp01(v float32) float64 {
	return math.Min(math.Max(float64(v), 0), 1)
}

// writeDepthStencil updates the depth and/or stencil part of texel in place.
func writeDepthStencil(f pipe.Format, texel []byte, flags uint32, depth float64, stencil uint32) error {
	depth = math.Min(math.Max(depth, 0), 1)
	wantDepth := flags&pipe.ClearDepth != 0
	wantStencil := flags&pipe.ClearStencil != 0

	class := storageClass(f)
	if packedZ24(class) {
		d, s := z24(f, texel)
		if wantDepth {
			d = uint32(math.Round(depth * 0xffffff))
		}
		if wantStencil && class.HasStencil() {
			s = stencil & 0xff
		}
		var v uint32
		switch f {
		case pipe.FormatZ24UnormS8Uscaled:
			v = d | s<<24
		case pipe.FormatS8UscaledZ24Unorm:
			v = s | d<<8
		case pipe.FormatZ24X8Unorm:
			v = d
		default:
			v = d << 8
		}
		binary.LittleEndian.PutUint32(texel, v)
		return nil
	}

	if !wantDepth {
		return nil
	}
	switch f {
	case pipe.FormatZ16Unorm:
		binary.LittleEndian.PutUint16(texel, uint16(math.Round(depth*0xffff)))
	case pipe.FormatZ32Unorm:
		binary.LittleEndian.PutUint32(texel, uint32(math.Round(depth*0xffffffff)))
	case pipe.FormatZ32Float:
		binary.LittleEndian.PutUint32(texel, math.Float32bits(float32(depth)))
	default:
		return fmt.Errorf("memdev: %s is not a depth/stencil format", f)
	}
	return nil
}
