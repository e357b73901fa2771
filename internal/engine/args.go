package engine

import (
	"fmt"
	"math"

	"github.com/bitrig/bitrig-xenocara/internal/pipe"
)

// NamedValue is one translated argument.
type NamedValue struct {
	Name  string
	Value any
}

// Args are the translated arguments of a call, minus the target object,
// in trace order.
type Args []NamedValue

// Get returns the argument called name.
func (a Args) Get(name string) (any, bool) {
	for _, nv := range a {
		if nv.Name == name {
			return nv.Value, true
		}
	}
	return nil, false
}

// valueSource is implemented by Args and *Bag.
type valueSource interface {
	Get(name string) (any, bool)
}

// reader pulls typed values out of a valueSource. The first failure is
// kept in err and later reads return zero values, so handlers can read all
// their arguments and check once.
type reader struct {
	src  valueSource
	what string
	err  error
}

func newReader(src valueSource, what string) *reader {
	return &reader{src: src, what: what}
}

func (r *reader) fail(name string, format string, args ...any) {
	if r.err == nil {
		r.err = badArgument("%s %s: %s", r.what, name, fmt.Sprintf(format, args...))
	}
}

func (r *reader) value(name string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.src.Get(name)
	if !ok {
		r.fail(name, "missing")
		return nil, false
	}
	return v, true
}

func (r *reader) has(name string) bool {
	_, ok := r.src.Get(name)
	return ok
}

func (r *reader) uint(name string) uint32 {
	v, ok := r.value(name)
	if !ok {
		return 0
	}
	u, err := pipe.ToUint(v)
	if err != nil {
		r.fail(name, "%v", err)
		return 0
	}
	if u > math.MaxUint32 {
		r.fail(name, "%d overflows uint32", u)
		return 0
	}
	return uint32(u)
}

// optUint reads name if present and returns def otherwise.
func (r *reader) optUint(name string, def uint32) uint32 {
	if !r.has(name) {
		return def
	}
	return r.uint(name)
}

// uintOr reads the first of names that is present. Traces from different
// driver versions spell some members differently (width0 vs width).
func (r *reader) uintOr(names ...string) uint32 {
	for _, n := range names {
		if r.has(n) {
			return r.uint(n)
		}
	}
	r.fail(names[0], "missing")
	return 0
}

func (r *reader) int(name string) int32 {
	v, ok := r.value(name)
	if !ok {
		return 0
	}
	i, err := pipe.ToInt(v)
	if err != nil {
		r.fail(name, "%v", err)
		return 0
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		r.fail(name, "%d overflows int32", i)
		return 0
	}
	return int32(i)
}

func (r *reader) float(name string) float64 {
	v, ok := r.value(name)
	if !ok {
		return 0
	}
	f, err := pipe.ToFloat(v)
	if err != nil {
		r.fail(name, "%v", err)
	}
	return f
}

// bytes accepts blobs and strings. nil reads as an empty blob.
func (r *reader) bytes(name string) []byte {
	v, ok := r.value(name)
	if !ok {
		return nil
	}
	switch b := v.(type) {
	case []byte:
		return b
	case string:
		return []byte(b)
	case nil:
		return nil
	}
	r.fail(name, "expected blob, got %T", v)
	return nil
}

func (r *reader) str(name string) string {
	v, ok := r.value(name)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	}
	r.fail(name, "expected string, got %T", v)
	return ""
}

func (r *reader) list(name string) []any {
	v, ok := r.value(name)
	if !ok || v == nil {
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		r.fail(name, "expected array, got %T", v)
		return nil
	}
	return l
}

// floats4 reads an array of up to four numbers, zero-filling the rest.
func (r *reader) floats4(name string) [4]float32 {
	var out [4]float32
	l := r.list(name)
	if len(l) > 4 {
		r.fail(name, "%d elements, want 4", len(l))
		return out
	}
	for i, e := range l {
		f, err := pipe.ToFloat(e)
		if err != nil {
			r.fail(name, "[%d]: %v", i, err)
			return out
		}
		out[i] = float32(f)
	}
	return out
}

// as reads an argument that must be a T or nil.
func as[T any](r *reader, name string) T {
	var zero T
	v, ok := r.value(name)
	if !ok || v == nil {
		return zero
	}
	t, ok := v.(T)
	if !ok {
		r.fail(name, "expected %T, got %T", zero, v)
		return zero
	}
	return t
}

// asAt converts a list element that must be a T or nil.
func asAt[T any](r *reader, name string, i int, v any) T {
	var zero T
	if v == nil || r.err != nil {
		return zero
	}
	t, ok := v.(T)
	if !ok {
		r.fail(name, "[%d]: expected %T, got %T", i, zero, v)
		return zero
	}
	return t
}

// resource reads a buffer or texture argument (possibly NULL).
func (r *reader) resource(name string) pipe.Resource {
	return as[pipe.Resource](r, name)
}

// bag reads a generic struct argument (possibly NULL).
func (r *reader) bag(name string) *Bag {
	return as[*Bag](r, name)
}
