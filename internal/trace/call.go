package trace

// Arg is one named argument of a call.
type Arg struct {
	Name  string
	Value Node
}

// A is shorthand for an Arg.
func A(name string, value Node) Arg {
	return Arg{Name: name, Value: value}
}

// Call is a single recorded invocation.
//
// No is the 1-based position in the trace. Class is empty for free
// functions; for methods the first argument is the object the method is
// invoked on. Ret is nil when the call returned nothing.
type Call struct {
	No     uint64
	Class  string
	Method string
	Args   []Arg
	Ret    Node
}

// QualifiedName returns "class::method", or just the method for free
// functions.
func (c Call) QualifiedName() string {
	if c.Class == "" {
		return c.Method
	}
	return c.Class + "::" + c.Method
}

// ReturnsPointer reports whether the recorded return value is an object
// pointer, and returns it.
func (c Call) ReturnsPointer() (Pointer, bool) {
	p, ok := c.Ret.(Pointer)
	return p, ok
}
