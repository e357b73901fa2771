// Package engine interprets recorded driver traces.
//
// A trace is a list of calls on screens and contexts whose arguments are
// trees of literals, named constants, arrays, structs and pointers to
// objects created by earlier calls. The engine replays it against a live
// backend (pipe.Driver):
//
//  1. Calls past the stop threshold end the replay.
//  2. Side-effect-free queries are skipped.
//  3. The call is echoed when verbosity is at least 1.
//  4. Every argument is translated into a native value (Translator).
//     Pointers resolve through the ObjectTable.
//  5. The target is the global object for free functions, the first
//     argument for methods.
//  6. The target's method table runs the operation by name.
//  7. A returned object is registered under the call's return address.
//
// Wrappers (Global, Screen, Context) adapt trace operations to the backend
// and shadow the state needed to present rendered frames: bound render
// targets, vertex buffers and elements, and a dirty flag set by draws and
// cleared by end-of-frame flushes.
//
// Every error aborts the replay. Object-table state and backend state are
// entangled across calls, so there is no safe way to skip a failing call.
// A call that returns NULL where an object was expected only logs a
// warning; a later use of that address fails instead.
//
// Replay is single-threaded. Presentation reads pixels back and never
// changes backend state.
package engine
