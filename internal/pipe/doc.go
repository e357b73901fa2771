// Package pipe defines the backend vocabulary a trace is replayed against.
//
// It contains three kinds of things:
//   - The named-constant table (PIPE_FORMAT_*, PIPE_FLUSH_*, ...) used to
//     resolve NamedConstant nodes
//   - Typed state structures with explicit member setters, plus the fixed
//     backend arrays some of their members are declared as
//   - The backend interfaces (Driver, Screen, Context, Resource) that a
//     concrete device implements; see pipe/memdev for the in-memory one
//
// pipe imports nothing internal. The engine translates trace nodes into
// the values defined here and calls the interfaces with them.
package pipe
