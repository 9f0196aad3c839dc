// Package graph holds the blocks and connections of one processing graph and
// enforces the structural rules of connecting ports.
//
// # Rules
//
// A connection always leaves an output port and, once finalized, always
// enters an input port. An input port accepts at most one finalized
// connection; output ports fan out freely. Violations are reported as a
// *ConnectionError wrapping ErrInvalidConnection, and the graph is left
// exactly as it was before the call.
//
// Acyclicity is not verified. Cycles are structurally permitted; runaway
// propagation through them is the engine's concern.
//
// # Two-phase connections
//
// Interactive editors draw a connection from an output port before they know
// where it ends. BeginConnection registers such a pending connection on its
// source port; FinalizeConnection gives it a target, and RemoveConnection
// discards it. Pending connections are invisible to Connections, Incoming
// and Outgoing.
//
// # Ordering
//
// Blocks, connections and the connections on each port are kept in insertion
// order so that traversal and serialization are deterministic.
//
// # Thread-Safety
//
// A Graph is not safe for concurrent use. Callers serialize access (see the
// session package).
package graph
