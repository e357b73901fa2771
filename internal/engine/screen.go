package engine

import (
	"github.com/bitrig/bitrig-xenocara/internal/pipe"
)

// Screen wraps a backend screen.
//
// Each screen owns a private helper context, created lazily, which uploads
// the contents of user buffers.
type Screen struct {
	engine *Engine
	real   pipe.Screen
	helper pipe.Context
}

var screenMethods = map[string]func(*Screen, Args) (any, error){
	"destroy":             (*Screen).noop,
	"get_name":            (*Screen).getName,
	"get_vendor":          (*Screen).getVendor,
	"get_param":           (*Screen).noop,
	"get_paramf":          (*Screen).noop,
	"context_create":      (*Screen).contextCreate,
	"pipe_context_create": (*Screen).contextCreate,
	"is_format_supported": (*Screen).isFormatSupported,
	"resource_create":     (*Screen).resourceCreate,
	"texture_destroy":     (*Screen).textureDestroy,
	"texture_release":     (*Screen).noop,
	"tex_surface_release": (*Screen).noop,
	"user_buffer_create":  (*Screen).userBufferCreate,
	"buffer_create":       (*Screen).bufferCreate,
	"buffer_destroy":      (*Screen).noop,
	"fence_finish":        (*Screen).noop,
	"fence_reference":     (*Screen).noop,
	"flush_frontbuffer":   (*Screen).noop,
}

func newScreen(e *Engine, real pipe.Screen) *Screen {
	return &Screen{engine: e, real: real}
}

// Real returns the backend screen.
func (s *Screen) Real() pipe.Screen { return s.real }

// Class implements Target.
func (s *Screen) Class() string { return ClassScreen }

// Invoke implements Target.
func (s *Screen) Invoke(method string, args Args) (any, error) {
	return invoke(s, ClassScreen, screenMethods, method, args)
}

func (s *Screen) noop(Args) (any, error) { return nil, nil }

func (s *Screen) textureDestroy(args Args) (any, error) {
	if v, ok := args.Get("texture"); ok {
		s.engine.objects.Unregister(v)
	}
	return nil, nil
}

func (s *Screen) getName(Args) (any, error)   { return s.real.Name(), nil }
func (s *Screen) getVendor(Args) (any, error) { return s.real.Vendor(), nil }

func (s *Screen) contextCreate(Args) (any, error) {
	return s.createContext()
}

func (s *Screen) createContext() (*Context, error) {
	real, err := s.real.ContextCreate()
	if err != nil {
		return nil, backendFailure("create context", err)
	}
	return newContext(s.engine, real), nil
}

func (s *Screen) isFormatSupported(args Args) (any, error) {
	r := newReader(args, "is_format_supported")
	format := r.uint("format")
	target := r.uint("target")
	bind := r.uint("bind")
	if r.err != nil {
		return nil, r.err
	}
	return s.real.IsFormatSupported(pipe.Format(format), target, bind), nil
}

func (s *Screen) resourceCreate(args Args) (any, error) {
	templ := newReader(args, "resource_create").bag("templat")
	if templ == nil {
		return nil, badArgument("resource_create: templat is NULL")
	}

	r := newReader(templ, templ.Name)
	t := pipe.ResourceTemplate{
		Target:    r.uint("target"),
		Format:    pipe.Format(r.uint("format")),
		Width:     r.uintOr("width0", "width"),
		Height:    r.optUint("height0", r.optUint("height", 1)),
		Depth:     r.optUint("depth0", r.optUint("depth", 1)),
		ArraySize: r.optUint("array_size", 1),
		LastLevel: r.optUint("last_level", 0),
		Bind:      r.optUint("bind", 0),
		Usage:     r.optUint("usage", 0),
	}
	if r.err != nil {
		return nil, r.err
	}

	res, err := s.real.ResourceCreate(t)
	if err != nil {
		return nil, backendFailure("resource_create", err)
	}
	return res, nil
}

func (s *Screen) bufferCreate(args Args) (any, error) {
	r := newReader(args, "buffer_create")
	usage := r.uint("usage")
	size := r.uint("size")
	if r.err != nil {
		return nil, r.err
	}
	return s.createBuffer(size, usage)
}

func (s *Screen) userBufferCreate(args Args) (any, error) {
	r := newReader(args, "user_buffer_create")
	data := r.bytes("data")
	size := r.uint("size")
	usage := r.optUint("usage", 0)
	if r.err != nil {
		return nil, r.err
	}
	if int(size) != len(data) {
		return nil, badArgument("user_buffer_create: size %d but %d bytes of data", size, len(data))
	}

	buf, err := s.createBuffer(size, usage)
	if err != nil {
		return nil, err
	}
	helper, err := s.helperContext()
	if err != nil {
		return nil, err
	}
	if err := helper.BufferWrite(buf, data, 0); err != nil {
		return nil, backendFailure("user_buffer_create: upload", err)
	}
	return buf, nil
}

func (s *Screen) createBuffer(size, bind uint32) (pipe.Resource, error) {
	buf, err := s.real.ResourceCreate(pipe.ResourceTemplate{
		Target:    pipe.Buffer,
		Width:     size,
		Height:    1,
		Depth:     1,
		ArraySize: 1,
		Bind:      bind,
	})
	if err != nil {
		return nil, backendFailure("buffer_create", err)
	}
	return buf, nil
}

func (s *Screen) helperContext() (pipe.Context, error) {
	if s.helper != nil {
		return s.helper, nil
	}
	ctx, err := s.real.ContextCreate()
	if err != nil {
		return nil, backendFailure("create helper context", err)
	}
	s.helper = ctx
	return ctx, nil
}
