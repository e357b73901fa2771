package pipe

// Format is a pixel or vertex attribute format.
type Format uint32

const (
	FormatNone Format = iota
	FormatB8G8R8A8Unorm
	FormatB8G8R8X8Unorm
	FormatA8R8G8B8Unorm
	FormatX8R8G8B8Unorm
	FormatR8G8B8A8Unorm
	FormatR8G8B8X8Unorm
	FormatB5G6R5Unorm
	FormatL8Unorm
	FormatA8Unorm
	FormatI8Unorm
	FormatZ16Unorm
	FormatZ32Unorm
	FormatZ32Float
	FormatZ24UnormS8Uscaled
	FormatS8UscaledZ24Unorm
	FormatZ24X8Unorm
	FormatX8Z24Unorm
	FormatR32Float
	FormatR32G32Float
	FormatR32G32B32Float
	FormatR32G32B32A32Float
	FormatR16G16B16Snorm
	FormatR8G8B8Unorm
	formatCount
)

type formatDesc struct {
	name string
	// bytes per pixel (formats here are all 1x1 blocks)
	size int
	// number of channels, used when unpacking vertex attributes
	channels int
	depth    bool
	stencil  bool
}

var formats = [formatCount]formatDesc{
	FormatNone:              {"PIPE_FORMAT_NONE", 0, 0, false, false},
	FormatB8G8R8A8Unorm:     {"PIPE_FORMAT_B8G8R8A8_UNORM", 4, 4, false, false},
	FormatB8G8R8X8Unorm:     {"PIPE_FORMAT_B8G8R8X8_UNORM", 4, 4, false, false},
	FormatA8R8G8B8Unorm:     {"PIPE_FORMAT_A8R8G8B8_UNORM", 4, 4, false, false},
	FormatX8R8G8B8Unorm:     {"PIPE_FORMAT_X8R8G8B8_UNORM", 4, 4, false, false},
	FormatR8G8B8A8Unorm:     {"PIPE_FORMAT_R8G8B8A8_UNORM", 4, 4, false, false},
	FormatR8G8B8X8Unorm:     {"PIPE_FORMAT_R8G8B8X8_UNORM", 4, 4, false, false},
	FormatB5G6R5Unorm:       {"PIPE_FORMAT_B5G6R5_UNORM", 2, 3, false, false},
	FormatL8Unorm:           {"PIPE_FORMAT_L8_UNORM", 1, 1, false, false},
	FormatA8Unorm:           {"PIPE_FORMAT_A8_UNORM", 1, 1, false, false},
	FormatI8Unorm:           {"PIPE_FORMAT_I8_UNORM", 1, 1, false, false},
	FormatZ16Unorm:          {"PIPE_FORMAT_Z16_UNORM", 2, 1, true, false},
	FormatZ32Unorm:          {"PIPE_FORMAT_Z32_UNORM", 4, 1, true, false},
	FormatZ32Float:          {"PIPE_FORMAT_Z32_FLOAT", 4, 1, true, false},
	FormatZ24UnormS8Uscaled: {"PIPE_FORMAT_Z24_UNORM_S8_USCALED", 4, 2, true, true},
	FormatS8UscaledZ24Unorm: {"PIPE_FORMAT_S8_USCALED_Z24_UNORM", 4, 2, true, true},
	FormatZ24X8Unorm:        {"PIPE_FORMAT_Z24X8_UNORM", 4, 1, true, false},
	FormatX8Z24Unorm:        {"PIPE_FORMAT_X8Z24_UNORM", 4, 1, true, false},
	FormatR32Float:          {"PIPE_FORMAT_R32_FLOAT", 4, 1, false, false},
	FormatR32G32Float:       {"PIPE_FORMAT_R32G32_FLOAT", 8, 2, false, false},
	FormatR32G32B32Float:    {"PIPE_FORMAT_R32G32B32_FLOAT", 12, 3, false, false},
	FormatR32G32B32A32Float: {"PIPE_FORMAT_R32G32B32A32_FLOAT", 16, 4, false, false},
	FormatR16G16B16Snorm:    {"PIPE_FORMAT_R16G16B16_SNORM", 6, 3, false, false},
	FormatR8G8B8Unorm:       {"PIPE_FORMAT_R8G8B8_UNORM", 3, 3, false, false},
}

func (f Format) desc() formatDesc {
	if f >= formatCount {
		return formatDesc{}
	}
	return formats[f]
}

// String returns the trace name of the format, e.g. PIPE_FORMAT_Z16_UNORM.
func (f Format) String() string {
	if d := f.desc(); d.name != "" {
		return d.name
	}
	return "PIPE_FORMAT_UNKNOWN"
}

// BlockSize returns the size in bytes of one pixel (or vertex attribute).
// Unknown formats report 0.
func (f Format) BlockSize() int {
	return f.desc().size
}

// Channels returns the number of components the format stores.
func (f Format) Channels() int {
	return f.desc().channels
}

// IsDepthOrStencil reports whether the format has a depth or stencil channel.
func (f Format) IsDepthOrStencil() bool {
	d := f.desc()
	return d.depth || d.stencil
}

// HasStencil reports whether the format has a stencil channel.
func (f Format) HasStencil() bool {
	return f.desc().stencil
}

// Valid reports whether f is a known format other than FormatNone.
func (f Format) Valid() bool {
	return f > FormatNone && f < formatCount
}
