package engine

import (
	"context"
	"fmt"

	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/graph"
	"github.com/specialistvlad/rawgridgo/internal/node"
)

// BeginConnection starts drawing a connection from an output port.
func (e *Engine) BeginConnection(ctx context.Context, src node.PortRef) (*node.Connection, error) {
	c, err := e.graph.BeginConnection(src)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Connection pending.", "connection", c.ID, "source", src)
	return c, nil
}

// FinalizeConnection completes a pending connection and processes its target.
// A rejected target discards the pending connection.
func (e *Engine) FinalizeConnection(ctx context.Context, id node.ConnectionID, dst node.PortRef) (*node.Connection, error) {
	c, err := e.graph.FinalizeConnection(id, dst)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Connection rejected.", "connection", id, "target", dst, "error", err)
		return nil, err
	}
	e.connected(ctx, c)
	return c, nil
}

// CancelConnection discards a pending connection.
func (e *Engine) CancelConnection(ctx context.Context, id node.ConnectionID) error {
	c, ok := e.graph.Connection(id)
	if !ok {
		return fmt.Errorf("%w: %s", graph.ErrConnectionNotFound, id)
	}
	if c.Finalized() {
		return &graph.ConnectionError{Kind: graph.ErrInvalidConnection, Msg: fmt.Sprintf("connection %s is not pending", id)}
	}
	ctxlog.FromContext(ctx).Debug("Connection cancelled.", "connection", id)
	return e.graph.RemoveConnection(id)
}

// Connect links an output port to an input port and processes the target.
func (e *Engine) Connect(ctx context.Context, src, dst node.PortRef) (*node.Connection, error) {
	c, err := e.graph.AddConnection(src, dst)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Connection rejected.", "source", src, "target", dst, "error", err)
		return nil, err
	}
	e.connected(ctx, c)
	return c, nil
}

// Disconnect removes a connection. The former target keeps its image.
func (e *Engine) Disconnect(ctx context.Context, id node.ConnectionID) error {
	if err := e.graph.RemoveConnection(id); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Connection removed.", "connection", id)
	return nil
}

func (e *Engine) connected(ctx context.Context, c *node.Connection) {
	ctxlog.FromContext(ctx).Debug("Connection finalized.", "connection", c.ID, "source", c.Source, "target", *c.Target)
	if target, ok := e.graph.Block(c.Target.Block); ok {
		e.cascade(ctx, target, 0)
	}
}
