// Package store provides SQLite-backed storage for imported traces and the
// journal of their replays.
//
// The store holds:
//   - Traces: named imports
//   - Calls: the recorded calls of a trace, keyed by call number
//   - Runs: one row per replay, with dispatch counts and the final error
//   - Frames: what each run presented
//
// # Content Addressing
//
// Every call row carries trace.CallID of the call. Importing the same trace
// twice inserts nothing the second time; importing a different call under an
// existing number is rejected.
//
// # Deterministic Reads
//
// Calls are read ORDER BY no ASC, frames ORDER BY seq ASC, and traces and
// runs by name and start time, so two reads of the same database return
// identical results.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
