package engine

import (
	"fmt"
	"slices"
)

// Trace class names.
const (
	ClassGlobal  = ""
	ClassScreen  = "pipe_screen"
	ClassContext = "pipe_context"
)

// Target is an object calls can be dispatched to.
type Target interface {
	// Class returns the trace class the object stands for.
	Class() string
	// Invoke runs the named operation. Unknown names fail with
	// ErrCodeUnknownMethod.
	Invoke(method string, args Args) (any, error)
}

// vocabulary is the closed set of operations a trace may name, per class.
var vocabulary = map[string][]string{
	ClassGlobal: {
		"pipe_screen_create",
		"pipe_context_create",
	},
	ClassScreen: {
		"destroy",
		"get_name",
		"get_vendor",
		"get_param",
		"get_paramf",
		"context_create",
		"pipe_context_create",
		"is_format_supported",
		"resource_create",
		"texture_destroy",
		"texture_release",
		"tex_surface_release",
		"user_buffer_create",
		"buffer_create",
		"buffer_destroy",
		"fence_finish",
		"fence_reference",
		"flush_frontbuffer",
	},
	ClassContext: {
		"destroy",
		"create_blend_state",
		"bind_blend_state",
		"delete_blend_state",
		"create_sampler_state",
		"delete_sampler_state",
		"bind_vertex_sampler_states",
		"bind_fragment_sampler_states",
		"create_rasterizer_state",
		"bind_rasterizer_state",
		"delete_rasterizer_state",
		"create_depth_stencil_alpha_state",
		"bind_depth_stencil_alpha_state",
		"delete_depth_stencil_alpha_state",
		"create_fs_state",
		"create_vs_state",
		"bind_fs_state",
		"bind_vs_state",
		"delete_fs_state",
		"delete_vs_state",
		"set_blend_color",
		"set_stencil_ref",
		"set_clip_state",
		"set_constant_buffer",
		"set_framebuffer_state",
		"set_polygon_stipple",
		"set_scissor_state",
		"set_viewport_state",
		"create_sampler_view",
		"sampler_view_destroy",
		"set_fragment_sampler_views",
		"set_vertex_sampler_views",
		"set_vertex_buffers",
		"create_vertex_elements_state",
		"bind_vertex_elements_state",
		"delete_vertex_elements_state",
		"set_index_buffer",
		"draw_vbo",
		"resource_copy_region",
		"is_resource_referenced",
		"buffer_write",
		"surface_write",
		"get_transfer",
		"tex_transfer_destroy",
		"transfer_destroy",
		"transfer_inline_write",
		"flush",
		"clear",
		"clear_render_target",
		"clear_depth_stencil",
		"create_surface",
		"surface_destroy",
	},
}

// ignored calls are queries with no effect on replay. They are neither
// echoed nor dispatched.
var ignored = map[[2]string]bool{
	{ClassScreen, "is_format_supported"}: true,
	{ClassScreen, "get_param"}:           true,
	{ClassScreen, "get_paramf"}:          true,
}

// Methods returns the operations of a class in vocabulary order.
func Methods(class string) []string {
	return slices.Clone(vocabulary[class])
}

func init() {
	mustMatch(ClassGlobal, globalMethods)
	mustMatch(ClassScreen, screenMethods)
	mustMatch(ClassContext, contextMethods)
}

// mustMatch panics unless table implements exactly the vocabulary of class.
func mustMatch[F any](class string, table map[string]F) {
	if err := checkTable(class, table); err != nil {
		panic(err)
	}
}

func checkTable[F any](class string, table map[string]F) error {
	words := vocabulary[class]
	for _, w := range words {
		if _, ok := table[w]; !ok {
			return fmt.Errorf("engine: %q operation %s has no handler", class, w)
		}
	}
	for name := range table {
		if !slices.Contains(words, name) {
			return fmt.Errorf("engine: %q handler %s is not in the vocabulary", class, name)
		}
	}
	return nil
}

// invoke looks up and runs a handler from a method table.
func invoke[T any](self T, class string, table map[string]func(T, Args) (any, error), method string, args Args) (any, error) {
	fn, ok := table[method]
	if !ok {
		return nil, newError(ErrCodeUnknownMethod, "%q has no method %s", class, method)
	}
	return fn(self, args)
}
