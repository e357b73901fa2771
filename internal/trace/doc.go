// Package trace provides the call and argument-tree model of a recorded
// driver trace.
//
// A trace is an ordered stream of calls. Each call names an optional owning
// class (empty for free functions), a method, its named arguments and an
// optional return value. Arguments are trees built from five node kinds:
//
//   - Literal: a scalar (nil, bool, int64, uint64, float64, string, []byte)
//   - NamedConstant: a symbolic backend constant, resolved at replay time
//   - Array: an ordered sequence of nodes
//   - Struct: a type name plus ordered (member, node) pairs
//   - Pointer: an opaque address identifying an object created earlier
//
// This package imports nothing internal. The engine, store, and CLI all
// build on it.
//
// Calls are carried on disk as JSON lines (one call per line, see json.go).
// Call numbers are 1-based and strictly increasing; Reader rejects streams
// that violate this.
package trace
