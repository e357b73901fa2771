package pipe

import "fmt"

// FloatArray is a fixed-length backend float array.
type FloatArray []float32

// UnsignedArray is a fixed-length backend unsigned array.
type UnsignedArray []uint32

// StencilArray holds the front and back stencil states.
type StencilArray [2]StencilState

// ArrayFactory converts a translated list into a fixed backend array.
// Make zero-fills up to Len; callers reject lists longer than Len.
type ArrayFactory struct {
	Elem string
	Len  int
	Make func(elems []any, n int) (any, error)
}

var memberArrays = map[string]map[string]ArrayFactory{
	"pipe_poly_stipple": {
		"stipple": {Elem: "unsigned", Len: 32, Make: makeUnsignedArray},
	},
	"pipe_viewport_state": {
		"scale":     {Elem: "float", Len: 4, Make: makeFloatArray},
		"translate": {Elem: "float", Len: 4, Make: makeFloatArray},
	},
	"pipe_depth_stencil_alpha_state": {
		"stencil": {Elem: "pipe_stencil_state", Len: 2, Make: makeStencilArray},
	},
	"pipe_blend_color": {
		"color": {Elem: "float", Len: 4, Make: makeFloatArray},
	},
	"pipe_sampler_state": {
		"border_color": {Elem: "float", Len: 4, Make: makeFloatArray},
	},
}

// MemberArray reports whether member of the named structure is declared as
// a fixed backend array.
func MemberArray(structName, member string) (ArrayFactory, bool) {
	f, ok := memberArrays[structName][member]
	return f, ok
}

func makeFloatArray(elems []any, n int) (any, error) {
	if len(elems) > n {
		return nil, fmt.Errorf("%w: %d elements for float[%d]", ErrTypeMismatch, len(elems), n)
	}
	arr := make(FloatArray, n)
	for i, e := range elems {
		f, err := ToFloat(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		arr[i] = float32(f)
	}
	return arr, nil
}

func makeUnsignedArray(elems []any, n int) (any, error) {
	if len(elems) > n {
		return nil, fmt.Errorf("%w: %d elements for unsigned[%d]", ErrTypeMismatch, len(elems), n)
	}
	arr := make(UnsignedArray, n)
	for i, e := range elems {
		if err := setUint(&arr[i], e); err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return arr, nil
}

func makeStencilArray(elems []any, n int) (any, error) {
	var arr StencilArray
	if len(elems) > len(arr) || n != len(arr) {
		return nil, fmt.Errorf("%w: %d elements for stencil[%d]", ErrTypeMismatch, len(elems), len(arr))
	}
	for i, e := range elems {
		switch s := e.(type) {
		case *StencilState:
			arr[i] = *s
		case nil:
		default:
			return nil, fmt.Errorf("[%d]: %w", i, mismatch("pipe_stencil_state", e))
		}
	}
	return arr, nil
}
