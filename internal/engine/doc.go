// Package engine drives a processing graph: it creates and wires blocks and
// re-evaluates everything downstream of a change.
//
// Propagation is eager, synchronous and depth-first. When a block is
// processed it gathers its inputs from the finalized connections on its input
// ports (in index order), runs its kind's process function and stores the
// result. It then processes, in turn, the target of every finalized
// connection on each of its output ports (output ports in index order, each
// port's connections in the order they were made). A block reachable along
// two paths is processed once per path; there is no deduplication.
//
// A block that cannot be processed (an input without an image, mismatched
// input shapes, a missing file) keeps whatever image it had, and nothing
// below it is visited by that cascade. Such failures never reach the caller
// that triggered the cascade; they are logged and reported to Observers.
//
// Cycles are not rejected. A depth limit (DefaultMaxDepth unless configured
// with WithMaxDepth) ends a cascade that runs around a cycle; graphs that
// are acyclic and shallower than the limit never notice it.
//
// What triggers a cascade:
//   - finalizing a connection processes its target block,
//   - editing a block's parameters processes that block,
//   - removing blocks or connections and restoring documents process nothing.
//
// An Engine is not safe for concurrent use.
package engine
