package trace

// Node is a sealed interface over the argument-tree variants.
// Only Literal, NamedConstant, Array, Struct, and Pointer implement it.
type Node interface {
	node() // Sealed
}

// Literal holds a scalar recorded verbatim in the trace.
// Value is one of nil, bool, int64, uint64, float64, string or []byte.
type Literal struct {
	Value any
}

func (Literal) node() {}

// NamedConstant is a symbolic constant such as PIPE_FORMAT_B8G8R8A8_UNORM.
type NamedConstant struct {
	Name string
}

func (NamedConstant) node() {}

// Array is an ordered sequence of nodes.
type Array struct {
	Elements []Node
}

func (Array) node() {}

// Member is one named field of a Struct node.
type Member struct {
	Name  string
	Value Node
}

// Struct is a typed aggregate. Members keep their recorded order.
type Struct struct {
	Name    string
	Members []Member
}

func (Struct) node() {}

// Pointer references an object by the address recorded in the trace.
// Address 0 is the NULL pointer.
type Pointer struct {
	Address uint64
}

func (Pointer) node() {}

// Null returns the nil literal.
func Null() Literal {
	return Literal{}
}

// Int creates a signed integer literal.
func Int(v int64) Literal {
	return Literal{Value: v}
}

// Uint creates an unsigned integer literal.
func Uint(v uint64) Literal {
	return Literal{Value: v}
}

// Float creates a floating point literal.
func Float(v float64) Literal {
	return Literal{Value: v}
}

// Bool creates a boolean literal.
func Bool(v bool) Literal {
	return Literal{Value: v}
}

// String creates a string literal.
func String(v string) Literal {
	return Literal{Value: v}
}

// Bytes creates a blob literal.
func Bytes(v []byte) Literal {
	return Literal{Value: v}
}

// Const creates a named constant node.
func Const(name string) NamedConstant {
	return NamedConstant{Name: name}
}

// Arr creates an array node from elements.
func Arr(elems ...Node) Array {
	return Array{Elements: elems}
}

// NewStruct creates a struct node.
// Example: NewStruct("pipe_box", M("x", Uint(0)), M("width", Uint(64)))
func NewStruct(name string, members ...Member) Struct {
	return Struct{Name: name, Members: members}
}

// M is shorthand for a struct Member.
func M(name string, value Node) Member {
	return Member{Name: name, Value: value}
}

// Ptr creates a pointer node.
func Ptr(addr uint64) Pointer {
	return Pointer{Address: addr}
}
