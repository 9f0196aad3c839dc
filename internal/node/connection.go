package node

// Connection is a directed edge from an output port to an input port. While
// a connection is being drawn its Target is nil (pending).
type Connection struct {
	ID     ConnectionID
	Source PortRef
	Target *PortRef
}

// Finalized reports whether the connection has a target.
func (c *Connection) Finalized() bool {
	return c.Target != nil
}

// Touches reports whether either endpoint belongs to block id.
func (c *Connection) Touches(id BlockID) bool {
	return c.Source.Block == id || (c.Target != nil && c.Target.Block == id)
}
