package engine

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bitrig/bitrig-xenocara/internal/pipe"
)

// maxDumped bounds the vertices and indices printed per draw.
const maxDumped = 16

// dumpConstantBuffer prints a constant buffer as float quadruples.
func (c *Context) dumpConstantBuffer(buf pipe.Resource) {
	e := c.engine
	if !e.opts.Verbose(2) {
		return
	}
	data, err := c.real.BufferRead(buf)
	if err != nil {
		e.logger.Warn("dump constant buffer", "call", e.callNo, "error", err)
		return
	}
	for i := 0; i+16 <= len(data); i += 16 {
		fmt.Fprintf(e.out, "\tCONST[%2d] = {%10.4f, %10.4f, %10.4f, %10.4f}\n", i/16,
			f32(data[i:]), f32(data[i+4:]), f32(data[i+8:]), f32(data[i+12:]))
	}
}

func f32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// unpackAttrib decodes one vertex attribute. ok is false for formats
// the dumper does not know and for reads past the end of the buffer.
func unpackAttrib(format pipe.Format, data []byte, offset uint32) (vals []string, ok bool) {
	var n, size int
	var read func(b []byte) string
	switch format {
	case pipe.FormatR32Float, pipe.FormatR32G32Float, pipe.FormatR32G32B32Float, pipe.FormatR32G32B32A32Float:
		n, size = format.Channels(), 4
		read = func(b []byte) string { return strconv.FormatFloat(float64(f32(b)), 'g', -1, 32) }
	case pipe.FormatA8R8G8B8Unorm, pipe.FormatR8G8B8A8Unorm, pipe.FormatB8G8R8A8Unorm:
		n, size = 4, 1
		read = func(b []byte) string { return strconv.Itoa(int(b[0])) }
	case pipe.FormatR16G16B16Snorm:
		n, size = 3, 2
		read = func(b []byte) string { return strconv.Itoa(int(int16(binary.LittleEndian.Uint16(b)))) }
	default:
		return nil, false
	}
	end := uint64(offset) + uint64(n*size)
	if end > uint64(len(data)) {
		return nil, false
	}
	vals = make([]string, n)
	for i := range vals {
		vals[i] = read(data[int(offset)+i*size:])
	}
	return vals, true
}

// dumpVertices prints the attributes of vertices start..start+count-1 by
// reading back the bound vertex buffers.
func (c *Context) dumpVertices(start, count uint32) {
	e := c.engine
	cache := make(map[pipe.Resource][]byte)
	read := func(res pipe.Resource) ([]byte, bool) {
		if d, ok := cache[res]; ok {
			return d, true
		}
		d, err := c.real.BufferRead(res)
		if err != nil {
			e.logger.Warn("dump vertices", "call", e.callNo, "error", err)
			return nil, false
		}
		cache[res] = d
		return d, true
	}

	for i := uint64(0); i < uint64(count); i++ {
		if i >= maxDumped {
			fmt.Fprint(e.out, "\t...\n")
			break
		}
		index := uint64(start) + i
		fmt.Fprint(e.out, "\t{\n")
		for _, ve := range c.velems {
			if ve == nil || int(ve.VertexBufferIndex) >= len(c.vbufs) {
				continue
			}
			vb := c.vbufs[ve.VertexBufferIndex]
			if vb.Buffer == nil {
				continue
			}
			data, ok := read(vb.Buffer)
			if !ok {
				continue
			}
			offset := uint64(vb.BufferOffset) + uint64(ve.SrcOffset) + uint64(vb.Stride)*index
			if offset > math.MaxUint32 {
				continue
			}
			vals, ok := unpackAttrib(ve.SrcFormat, data, uint32(offset))
			if !ok {
				fmt.Fprintf(e.out, "\t\t<%s>,\n", ve.SrcFormat)
				continue
			}
			fmt.Fprintf(e.out, "\t\t{%s},\n", strings.Join(vals, ", "))
		}
		fmt.Fprint(e.out, "\t},\n")
	}
}

// dumpIndices prints the indices of a draw and returns the range of
// vertices they reference, bias applied. Only the first maxDumped are
// printed below verbosity 3, but the range covers all of them. ok is
// false when the index buffer cannot be read.
func (c *Context) dumpIndices(ib pipe.IndexBuffer, bias int32, start, count uint32) (lo, hi uint32, ok bool) {
	e := c.engine
	size := uint64(ib.IndexSize)
	if size != 1 && size != 2 && size != 4 {
		e.logger.Warn("dump indices: bad index size", "call", e.callNo, "size", ib.IndexSize)
		return 0, 0, false
	}
	data, err := c.real.BufferRead(ib.Buffer)
	if err != nil {
		e.logger.Warn("dump indices", "call", e.callNo, "error", err)
		return 0, 0, false
	}

	minIndex, maxIndex := uint64(math.MaxUint32), uint64(0)
	fmt.Fprint(e.out, "\t{\n")
	for i := uint64(0); i < uint64(count); i++ {
		offset := uint64(ib.Offset) + (uint64(start)+i)*size
		if offset+size > uint64(len(data)) {
			e.logger.Warn("dump indices: read past end of index buffer", "call", e.callNo, "offset", offset)
			break
		}
		var index uint64
		switch size {
		case 1:
			index = uint64(data[offset])
		case 2:
			index = uint64(binary.LittleEndian.Uint16(data[offset:]))
		case 4:
			index = uint64(binary.LittleEndian.Uint32(data[offset:]))
		}
		if i < maxDumped || e.opts.Verbose(3) {
			fmt.Fprintf(e.out, "\t\t%d,\n", index)
		} else if i == maxDumped {
			fmt.Fprint(e.out, "\t...\n")
		}
		minIndex = min(minIndex, index)
		maxIndex = max(maxIndex, index)
	}
	fmt.Fprint(e.out, "\t},\n")

	if minIndex > maxIndex {
		return 0, 0, false
	}
	return biased(minIndex, bias), biased(maxIndex, bias), true
}

func biased(index uint64, bias int32) uint32 {
	v := int64(index) + int64(bias)
	switch {
	case v < 0:
		return 0
	case v > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(v)
}
