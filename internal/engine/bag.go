package engine

import (
	"fmt"
	"strings"

	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// Bag is the translation of a struct node whose type has no registered
// factory (pipe_framebuffer_state, pipe_resource, ...). It accepts any
// member and keeps members in first-assignment order.
type Bag struct {
	Name   string
	names  []string
	values map[string]any
}

// NewBag creates an empty bag for the named struct type.
func NewBag(name string) *Bag {
	return &Bag{Name: name, values: make(map[string]any)}
}

// Set assigns a member. Reassigning keeps the original position.
func (b *Bag) Set(name string, v any) {
	if _, ok := b.values[name]; !ok {
		b.names = append(b.names, name)
	}
	b.values[name] = v
}

// Get returns a member value.
func (b *Bag) Get(name string) (any, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Names returns member names in order.
func (b *Bag) Names() []string {
	return b.names
}

// Len returns the number of members.
func (b *Bag) Len() int {
	return len(b.names)
}

// String renders the bag like the trace text form: {a = 1, b = 2}.
func (b *Bag) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, n := range b.names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(n)
		sb.WriteString(" = ")
		sb.WriteString(formatValue(b.values[n]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case *Bag:
		return x.String()
	case nil, bool, int64, uint64, float64, string, []byte:
		return trace.FormatNode(trace.Literal{Value: x})
	}
	return fmt.Sprintf("<%T>", v)
}
