package node

import (
	"fmt"

	"github.com/google/uuid"
)

// BlockID identifies a block within a graph.
type BlockID string

// NewBlockID returns a fresh random block id.
func NewBlockID() BlockID {
	return BlockID(uuid.NewString())
}

// ConnectionID identifies a connection within a graph.
type ConnectionID string

// NewConnectionID returns a fresh random connection id.
func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.NewString())
}

// Direction tells input ports from output ports.
type Direction int

const (
	// Input ports receive at most one finalized connection.
	Input Direction = iota
	// Output ports fan out to any number of connections.
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// PortRef addresses one port of one block.
type PortRef struct {
	Block     BlockID
	Direction Direction
	Index     int
}

// InputRef is shorthand for the input port at index i of block b.
func InputRef(b BlockID, i int) PortRef {
	return PortRef{Block: b, Direction: Input, Index: i}
}

// OutputRef is shorthand for the output port at index i of block b.
func OutputRef(b BlockID, i int) PortRef {
	return PortRef{Block: b, Direction: Output, Index: i}
}

func (r PortRef) String() string {
	return fmt.Sprintf("%s.%s[%d]", r.Block, r.Direction, r.Index)
}
