package graph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/rawgridgo/internal/node"
)

// Graph owns a set of blocks and the connections between their ports.
type Graph struct {
	blocks    map[node.BlockID]*node.Block
	order     []node.BlockID
	conns     map[node.ConnectionID]*node.Connection
	connOrder []node.ConnectionID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		blocks: make(map[node.BlockID]*node.Block),
		conns:  make(map[node.ConnectionID]*node.Connection),
	}
}

// AddBlock inserts b.
func (g *Graph) AddBlock(b *node.Block) error {
	if _, exists := g.blocks[b.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBlock, b.ID())
	}
	g.blocks[b.ID()] = b
	g.order = append(g.order, b.ID())
	return nil
}

// Block looks up a block by id.
func (g *Graph) Block(id node.BlockID) (*node.Block, bool) {
	b, ok := g.blocks[id]
	return b, ok
}

// Blocks returns every block in insertion order.
func (g *Graph) Blocks() []*node.Block {
	out := make([]*node.Block, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.blocks[id])
	}
	return out
}

// Len returns the number of blocks.
func (g *Graph) Len() int {
	return len(g.order)
}

// Port resolves a port reference.
func (g *Graph) Port(ref node.PortRef) (*node.Port, error) {
	b, ok := g.blocks[ref.Block]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, ref.Block)
	}
	p, ok := b.Port(ref.Direction, ref.Index)
	if !ok {
		return nil, invalidf("block %s (%s) has no %s port %d", ref.Block, b.Kind, ref.Direction, ref.Index)
	}
	return p, nil
}

// Connection looks up a connection by id, pending or finalized.
func (g *Graph) Connection(id node.ConnectionID) (*node.Connection, bool) {
	c, ok := g.conns[id]
	return c, ok
}

// Connections returns every finalized connection in insertion order.
func (g *Graph) Connections() []*node.Connection {
	out := make([]*node.Connection, 0, len(g.connOrder))
	for _, id := range g.connOrder {
		if c := g.conns[id]; c.Finalized() {
			out = append(out, c)
		}
	}
	return out
}

// Incoming returns the finalized connection entering an input port, if any.
func (g *Graph) Incoming(ref node.PortRef) (*node.Connection, bool) {
	p, err := g.Port(ref)
	if err != nil || ref.Direction != node.Input {
		return nil, false
	}
	for _, id := range p.Connections() {
		if c := g.conns[id]; c != nil && c.Finalized() {
			return c, true
		}
	}
	return nil, false
}

// Outgoing returns the finalized connections leaving a block, output port by
// output port in index order, each port's connections in the order they were
// attached.
func (g *Graph) Outgoing(id node.BlockID) []*node.Connection {
	b, ok := g.blocks[id]
	if !ok {
		return nil
	}
	var out []*node.Connection
	for _, p := range b.Outputs() {
		for _, cid := range p.Connections() {
			if c := g.conns[cid]; c != nil && c.Finalized() {
				out = append(out, c)
			}
		}
	}
	return out
}

// BeginConnection starts a pending connection from an output port.
func (g *Graph) BeginConnection(src node.PortRef) (*node.Connection, error) {
	p, err := g.Port(src)
	if err != nil {
		return nil, err
	}
	if src.Direction != node.Output {
		return nil, invalidf("source %s is not an output port", src)
	}
	c := &node.Connection{ID: node.NewConnectionID(), Source: src}
	g.conns[c.ID] = c
	g.connOrder = append(g.connOrder, c.ID)
	p.Attach(c.ID)
	return c, nil
}

// FinalizeConnection attaches a pending connection to an input port. When the
// target is rejected the pending connection is discarded.
func (g *Graph) FinalizeConnection(id node.ConnectionID, dst node.PortRef) (*node.Connection, error) {
	c, ok := g.conns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
	}
	if c.Finalized() {
		return nil, invalidf("connection %s is already finalized", id)
	}
	p, err := g.checkTarget(dst)
	if err != nil {
		g.drop(c)
		return nil, err
	}
	target := dst
	c.Target = &target
	p.Attach(c.ID)
	return c, nil
}

// AddConnection connects an output port to an input port in one step.
func (g *Graph) AddConnection(src, dst node.PortRef) (*node.Connection, error) {
	if _, err := g.checkTarget(dst); err != nil {
		return nil, err
	}
	c, err := g.BeginConnection(src)
	if err != nil {
		return nil, err
	}
	return g.FinalizeConnection(c.ID, dst)
}

// RemoveConnection detaches a connection, pending or finalized, from its ports.
func (g *Graph) RemoveConnection(id node.ConnectionID) error {
	c, ok := g.conns[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
	}
	g.drop(c)
	return nil
}

// RemoveBlock removes a block and every connection touching it, returning the
// removed connections. Neighbors are left untouched, including any image
// they computed from this block.
func (g *Graph) RemoveBlock(id node.BlockID) ([]*node.Connection, error) {
	if _, ok := g.blocks[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	var removed []*node.Connection
	for _, cid := range slices.Clone(g.connOrder) {
		if c := g.conns[cid]; c.Touches(id) {
			g.drop(c)
			removed = append(removed, c)
		}
	}
	delete(g.blocks, id)
	g.order = slices.DeleteFunc(g.order, func(b node.BlockID) bool { return b == id })
	return removed, nil
}

func (g *Graph) checkTarget(dst node.PortRef) (*node.Port, error) {
	p, err := g.Port(dst)
	if err != nil {
		return nil, err
	}
	if dst.Direction != node.Input {
		return nil, invalidf("target %s is not an input port", dst)
	}
	if existing, ok := g.Incoming(dst); ok {
		return nil, invalidf("input %s already connected by %s", dst, existing.ID)
	}
	return p, nil
}

// drop detaches c from whichever of its ports still exist and forgets it.
func (g *Graph) drop(c *node.Connection) {
	if p, err := g.Port(c.Source); err == nil {
		p.Detach(c.ID)
	}
	if c.Target != nil {
		if p, err := g.Port(*c.Target); err == nil {
			p.Detach(c.ID)
		}
	}
	delete(g.conns, c.ID)
	g.connOrder = slices.DeleteFunc(g.connOrder, func(id node.ConnectionID) bool { return id == c.ID })
}
