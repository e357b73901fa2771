package pipe

import "fmt"

// Struct is a typed backend structure that trace members can be assigned
// to by name.
type Struct interface {
	// StructName returns the trace type name, e.g. "pipe_box".
	StructName() string
	// SetMember assigns a translated value. Unknown names fail with
	// ErrUnknownMember; values of the wrong kind with ErrTypeMismatch.
	SetMember(name string, v any) error
}

var structFactories = map[string]func() Struct{
	"pipe_blend_color":               func() Struct { return &BlendColor{} },
	"pipe_rt_blend_state":            func() Struct { return &RTBlendState{} },
	"pipe_blend_state":               func() Struct { return &Blend{} },
	"pipe_depth_state":               func() Struct { return &DepthState{} },
	"pipe_stencil_state":             func() Struct { return &StencilState{} },
	"pipe_alpha_state":               func() Struct { return &AlphaState{} },
	"pipe_depth_stencil_alpha_state": func() Struct { return &DepthStencilAlpha{} },
	"pipe_poly_stipple":              func() Struct { return &PolyStipple{} },
	"pipe_rasterizer_state":          func() Struct { return &Rasterizer{} },
	"pipe_sampler_state":             func() Struct { return &Sampler{} },
	"pipe_scissor_state":             func() Struct { return &Scissor{} },
	"pipe_vertex_element":            func() Struct { return &VertexElement{} },
	"pipe_viewport_state":            func() Struct { return &Viewport{} },
	"pipe_subresource":               func() Struct { return &Subresource{} },
	"pipe_box":                       func() Struct { return &Box{} },
	"pipe_draw_info":                 func() Struct { return &DrawInfo{} },
}

// NewStruct instantiates the registered structure for a trace type name.
// ok is false for names without a factory.
func NewStruct(name string) (s Struct, ok bool) {
	f, ok := structFactories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// BlendColor is pipe_blend_color.
type BlendColor struct {
	Color [4]float32
}

func (*BlendColor) StructName() string { return "pipe_blend_color" }

func (s *BlendColor) SetMember(name string, v any) error {
	if name == "color" {
		return setFloats(s.Color[:], v)
	}
	return unknownMember(s, name)
}

// RTBlendState is the per render target part of pipe_blend_state.
type RTBlendState struct {
	BlendEnable    bool
	RGBFunc        uint32
	RGBSrcFactor   uint32
	RGBDstFactor   uint32
	AlphaFunc      uint32
	AlphaSrcFactor uint32
	AlphaDstFactor uint32
	ColorMask      uint32
}

func (*RTBlendState) StructName() string { return "pipe_rt_blend_state" }

func (s *RTBlendState) SetMember(name string, v any) error {
	switch name {
	case "blend_enable":
		return setBool(&s.BlendEnable, v)
	case "rgb_func":
		return setUint(&s.RGBFunc, v)
	case "rgb_src_factor":
		return setUint(&s.RGBSrcFactor, v)
	case "rgb_dst_factor":
		return setUint(&s.RGBDstFactor, v)
	case "alpha_func":
		return setUint(&s.AlphaFunc, v)
	case "alpha_src_factor":
		return setUint(&s.AlphaSrcFactor, v)
	case "alpha_dst_factor":
		return setUint(&s.AlphaDstFactor, v)
	case "colormask":
		return setUint(&s.ColorMask, v)
	}
	return unknownMember(s, name)
}

// Blend is pipe_blend_state.
type Blend struct {
	IndependentBlendEnable bool
	LogicOpEnable          bool
	LogicOpFunc            uint32
	Dither                 bool
	AlphaToCoverage        bool
	AlphaToOne             bool
	RT                     [MaxColorBufs]RTBlendState
}

func (*Blend) StructName() string { return "pipe_blend_state" }

func (s *Blend) SetMember(name string, v any) error {
	switch name {
	case "independent_blend_enable":
		return setBool(&s.IndependentBlendEnable, v)
	case "logicop_enable":
		return setBool(&s.LogicOpEnable, v)
	case "logicop_func":
		return setUint(&s.LogicOpFunc, v)
	case "dither":
		return setBool(&s.Dither, v)
	case "alpha_to_coverage":
		return setBool(&s.AlphaToCoverage, v)
	case "alpha_to_one":
		return setBool(&s.AlphaToOne, v)
	case "rt":
		list, ok := v.([]any)
		if !ok {
			return mismatch("pipe_rt_blend_state list", v)
		}
		if len(list) > len(s.RT) {
			return fmt.Errorf("%w: %d render targets, max %d", ErrTypeMismatch, len(list), len(s.RT))
		}
		for i, e := range list {
			rt, ok := e.(*RTBlendState)
			if !ok {
				return fmt.Errorf("rt[%d]: %w", i, mismatch("pipe_rt_blend_state", e))
			}
			s.RT[i] = *rt
		}
		return nil
	}
	return unknownMember(s, name)
}

// DepthState is pipe_depth_state.
type DepthState struct {
	Enabled   bool
	WriteMask bool
	Func      uint32
}

func (*DepthState) StructName() string { return "pipe_depth_state" }

func (s *DepthState) SetMember(name string, v any) error {
	switch name {
	case "enabled":
		return setBool(&s.Enabled, v)
	case "writemask":
		return setBool(&s.WriteMask, v)
	case "func":
		return setUint(&s.Func, v)
	}
	return unknownMember(s, name)
}

// StencilState is pipe_stencil_state.
type StencilState struct {
	Enabled   bool
	Func      uint32
	FailOp    uint32
	ZPassOp   uint32
	ZFailOp   uint32
	ValueMask uint32
	WriteMask uint32
}

func (*StencilState) StructName() string { return "pipe_stencil_state" }

func (s *StencilState) SetMember(name string, v any) error {
	switch name {
	case "enabled":
		return setBool(&s.Enabled, v)
	case "func":
		return setUint(&s.Func, v)
	case "fail_op":
		return setUint(&s.FailOp, v)
	case "zpass_op":
		return setUint(&s.ZPassOp, v)
	case "zfail_op":
		return setUint(&s.ZFailOp, v)
	case "valuemask":
		return setUint(&s.ValueMask, v)
	case "writemask":
		return setUint(&s.WriteMask, v)
	}
	return unknownMember(s, name)
}

// AlphaState is pipe_alpha_state.
type AlphaState struct {
	Enabled  bool
	Func     uint32
	RefValue float32
}

func (*AlphaState) StructName() string { return "pipe_alpha_state" }

func (s *AlphaState) SetMember(name string, v any) error {
	switch name {
	case "enabled":
		return setBool(&s.Enabled, v)
	case "func":
		return setUint(&s.Func, v)
	case "ref_value":
		return setFloat(&s.RefValue, v)
	}
	return unknownMember(s, name)
}

// DepthStencilAlpha is pipe_depth_stencil_alpha_state.
type DepthStencilAlpha struct {
	Depth   DepthState
	Stencil StencilArray
	Alpha   AlphaState
}

func (*DepthStencilAlpha) StructName() string { return "pipe_depth_stencil_alpha_state" }

func (s *DepthStencilAlpha) SetMember(name string, v any) error {
	switch name {
	case "depth":
		d, ok := v.(*DepthState)
		if !ok {
			return mismatch("pipe_depth_state", v)
		}
		s.Depth = *d
		return nil
	case "stencil":
		arr, ok := v.(StencilArray)
		if !ok {
			return mismatch("stencil array", v)
		}
		s.Stencil = arr
		return nil
	case "alpha":
		a, ok := v.(*AlphaState)
		if !ok {
			return mismatch("pipe_alpha_state", v)
		}
		s.Alpha = *a
		return nil
	}
	return unknownMember(s, name)
}

// PolyStipple is pipe_poly_stipple.
type PolyStipple struct {
	Stipple [32]uint32
}

func (*PolyStipple) StructName() string { return "pipe_poly_stipple" }

func (s *PolyStipple) SetMember(name string, v any) error {
	if name == "stipple" {
		return setUints(s.Stipple[:], v)
	}
	return unknownMember(s, name)
}

// Rasterizer is pipe_rasterizer_state.
type Rasterizer struct {
	Flatshade              bool
	LightTwoside           bool
	FrontCCW               bool
	CullFace               uint32
	FillFront              uint32
	FillBack               uint32
	OffsetPoint            bool
	OffsetLine             bool
	OffsetTri              bool
	Scissor                bool
	PolySmooth             bool
	PolyStippleEnable      bool
	PointSmooth            bool
	SpriteCoordMode        uint32
	SpriteCoordEnable      uint32
	PointQuadRasterization bool
	PointSizePerVertex     bool
	Multisample            bool
	LineSmooth             bool
	LineStippleEnable      bool
	LineStippleFactor      uint32
	LineStipplePattern     uint32
	LineLastPixel          bool
	FlatshadeFirst         bool
	GLRasterizationRules   bool
	LineWidth              float32
	PointSize              float32
	OffsetUnits            float32
	OffsetScale            float32
}

func (*Rasterizer) StructName() string { return "pipe_rasterizer_state" }

func (s *Rasterizer) SetMember(name string, v any) error {
	switch name {
	case "flatshade":
		return setBool(&s.Flatshade, v)
	case "light_twoside":
		return setBool(&s.LightTwoside, v)
	case "front_ccw":
		return setBool(&s.FrontCCW, v)
	case "cull_face":
		return setUint(&s.CullFace, v)
	case "fill_front":
		return setUint(&s.FillFront, v)
	case "fill_back":
		return setUint(&s.FillBack, v)
	case "offset_point":
		return setBool(&s.OffsetPoint, v)
	case "offset_line":
		return setBool(&s.OffsetLine, v)
	case "offset_tri":
		return setBool(&s.OffsetTri, v)
	case "scissor":
		return setBool(&s.Scissor, v)
	case "poly_smooth":
		return setBool(&s.PolySmooth, v)
	case "poly_stipple_enable":
		return setBool(&s.PolyStippleEnable, v)
	case "point_smooth":
		return setBool(&s.PointSmooth, v)
	case "sprite_coord_mode":
		return setUint(&s.SpriteCoordMode, v)
	case "sprite_coord_enable":
		return setUint(&s.SpriteCoordEnable, v)
	case "point_quad_rasterization":
		return setBool(&s.PointQuadRasterization, v)
	case "point_size_per_vertex":
		return setBool(&s.PointSizePerVertex, v)
	case "multisample":
		return setBool(&s.Multisample, v)
	case "line_smooth":
		return setBool(&s.LineSmooth, v)
	case "line_stipple_enable":
		return setBool(&s.LineStippleEnable, v)
	case "line_stipple_factor":
		return setUint(&s.LineStippleFactor, v)
	case "line_stipple_pattern":
		return setUint(&s.LineStipplePattern, v)
	case "line_last_pixel":
		return setBool(&s.LineLastPixel, v)
	case "flatshade_first":
		return setBool(&s.FlatshadeFirst, v)
	case "gl_rasterization_rules":
		return setBool(&s.GLRasterizationRules, v)
	case "line_width":
		return setFloat(&s.LineWidth, v)
	case "point_size":
		return setFloat(&s.PointSize, v)
	case "offset_units":
		return setFloat(&s.OffsetUnits, v)
	case "offset_scale":
		return setFloat(&s.OffsetScale, v)
	}
	return unknownMember(s, name)
}

// Sampler is pipe_sampler_state.
type Sampler struct {
	WrapS            uint32
	WrapT            uint32
	WrapR            uint32
	MinImgFilter     uint32
	MinMipFilter     uint32
	MagImgFilter     uint32
	CompareMode      uint32
	CompareFunc      uint32
	NormalizedCoords bool
	MaxAnisotropy    uint32
	SeamlessCubeMap  bool
	LodBias          float32
	MinLod           float32
	MaxLod           float32
	BorderColor      [4]float32
}

func (*Sampler) StructName() string { return "pipe_sampler_state" }

func (s *Sampler) SetMember(name string, v any) error {
	switch name {
	case "wrap_s":
		return setUint(&s.WrapS, v)
	case "wrap_t":
		return setUint(&s.WrapT, v)
	case "wrap_r":
		return setUint(&s.WrapR, v)
	case "min_img_filter":
		return setUint(&s.MinImgFilter, v)
	case "min_mip_filter":
		return setUint(&s.MinMipFilter, v)
	case "mag_img_filter":
		return setUint(&s.MagImgFilter, v)
	case "compare_mode":
		return setUint(&s.CompareMode, v)
	case "compare_func":
		return setUint(&s.CompareFunc, v)
	case "normalized_coords":
		return setBool(&s.NormalizedCoords, v)
	case "max_anisotropy":
		return setUint(&s.MaxAnisotropy, v)
	case "seamless_cube_map":
		return setBool(&s.SeamlessCubeMap, v)
	case "lod_bias":
		return setFloat(&s.LodBias, v)
	case "min_lod":
		return setFloat(&s.MinLod, v)
	case "max_lod":
		return setFloat(&s.MaxLod, v)
	case "border_color":
		return setFloats(s.BorderColor[:], v)
	}
	return unknownMember(s, name)
}

// Scissor is pipe_scissor_state.
type Scissor struct {
	MinX, MinY uint32
	MaxX, MaxY uint32
}

func (*Scissor) StructName() string { return "pipe_scissor_state" }

func (s *Scissor) SetMember(name string, v any) error {
	switch name {
	case "minx":
		return setUint(&s.MinX, v)
	case "miny":
		return setUint(&s.MinY, v)
	case "maxx":
		return setUint(&s.MaxX, v)
	case "maxy":
		return setUint(&s.MaxY, v)
	}
	return unknownMember(s, name)
}

// VertexElement is pipe_vertex_element.
type VertexElement struct {
	SrcOffset         uint32
	InstanceDivisor   uint32
	VertexBufferIndex uint32
	SrcFormat         Format
}

func (*VertexElement) StructName() string { return "pipe_vertex_element" }

func (s *VertexElement) SetMember(name string, v any) error {
	switch name {
	case "src_offset":
		return setUint(&s.SrcOffset, v)
	case "instance_divisor":
		return setUint(&s.InstanceDivisor, v)
	case "vertex_buffer_index":
		return setUint(&s.VertexBufferIndex, v)
	case "src_format":
		return setFormat(&s.SrcFormat, v)
	}
	return unknownMember(s, name)
}

// Viewport is pipe_viewport_state.
type Viewport struct {
	Scale     [4]float32
	Translate [4]float32
}

func (*Viewport) StructName() string { return "pipe_viewport_state" }

func (s *Viewport) SetMember(name string, v any) error {
	switch name {
	case "scale":
		return setFloats(s.Scale[:], v)
	case "translate":
		return setFloats(s.Translate[:], v)
	}
	return unknownMember(s, name)
}

// Subresource is pipe_subresource.
type Subresource struct {
	Face  uint32
	Level uint32
}

func (*Subresource) StructName() string { return "pipe_subresource" }

func (s *Subresource) SetMember(name string, v any) error {
	switch name {
	case "face":
		return setUint(&s.Face, v)
	case "level":
		return setUint(&s.Level, v)
	}
	return unknownMember(s, name)
}

// Box is pipe_box.
type Box struct {
	X, Y, Z              int32
	Width, Height, Depth int32
}

func (*Box) StructName() string { return "pipe_box" }

func (s *Box) SetMember(name string, v any) error {
	switch name {
	case "x":
		return setInt(&s.X, v)
	case "y":
		return setInt(&s.Y, v)
	case "z":
		return setInt(&s.Z, v)
	case "width":
		return setInt(&s.Width, v)
	case "height":
		return setInt(&s.Height, v)
	case "depth":
		return setInt(&s.Depth, v)
	}
	return unknownMember(s, name)
}

// DrawInfo is pipe_draw_info.
type DrawInfo struct {
	Indexed          bool
	Mode             uint32
	Start            uint32
	Count            uint32
	StartInstance    uint32
	InstanceCount    uint32
	IndexBias        int32
	MinIndex         uint32
	MaxIndex         uint32
	PrimitiveRestart bool
	RestartIndex     uint32
}

func (*DrawInfo) StructName() string { return "pipe_draw_info" }

func (s *DrawInfo) SetMember(name string, v any) error {
	switch name {
	case "indexed":
		return setBool(&s.Indexed, v)
	case "mode":
		return setUint(&s.Mode, v)
	case "start":
		return setUint(&s.Start, v)
	case "count":
		return setUint(&s.Count, v)
	case "start_instance":
		return setUint(&s.StartInstance, v)
	case "instance_count":
		return setUint(&s.InstanceCount, v)
	case "index_bias":
		return setInt(&s.IndexBias, v)
	case "min_index":
		return setUint(&s.MinIndex, v)
	case "max_index":
		return setUint(&s.MaxIndex, v)
	case "primitive_restart":
		return setBool(&s.PrimitiveRestart, v)
	case "restart_index":
		return setUint(&s.RestartIndex, v)
	}
	return unknownMember(s, name)
}
