// Package node defines the vertices and edges of a processing graph: blocks,
// their ports, and the connections between ports.
//
// Ownership runs strictly Graph -> Block -> Port. Ports and connections refer
// to each other by handle (BlockID, PortRef, ConnectionID) rather than by
// pointer, so removing a block never leaves a dangling back-reference.
package node
