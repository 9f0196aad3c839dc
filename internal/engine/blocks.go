package engine

import (
	"context"
	"fmt"
	"maps"

	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/rawio"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/specialistvlad/rawgridgo/modules/load"
	"github.com/zclconf/go-cty/cty"
)

// CreateBlock adds a block of the named kind at (x, y). It starts without an
// image.
func (e *Engine) CreateBlock(ctx context.Context, kind string, x, y float64) (*node.Block, error) {
	b, err := e.reg.NewBlock(kind, x, y)
	if err != nil {
		return nil, err
	}
	if err := e.graph.AddBlock(b); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Block created.", "block", b.ID(), "kind", kind, "x", x, "y", y)
	return b, nil
}

// MoveBlock updates a block's position.
func (e *Engine) MoveBlock(id node.BlockID, x, y float64) error {
	b, err := e.block(id)
	if err != nil {
		return err
	}
	b.X, b.Y = x, y
	return nil
}

// RemoveBlock deletes a block and its connections. Downstream blocks keep the
// images they computed from it.
func (e *Engine) RemoveBlock(ctx context.Context, id node.BlockID) error {
	removed, err := e.graph.RemoveBlock(id)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Block removed.", "block", id, "connections_removed", len(removed))
	return nil
}

// SetParams merges edits into a block's parameters and processes the block.
// Edits that fail validation are rejected and leave the block unchanged.
func (e *Engine) SetParams(ctx context.Context, id node.BlockID, edits node.Params) error {
	b, err := e.block(id)
	if err != nil {
		return err
	}
	kind, ok := e.reg.Kind(b.Kind)
	if !ok {
		return fmt.Errorf("%w: %q", registry.ErrUnknownKind, b.Kind)
	}

	merged := b.Params.Clone()
	maps.Copy(merged, edits)
	if _, err := e.reg.DecodeParams(kind, merged); err != nil {
		return err
	}
	norm, err := e.reg.Normalize(kind, merged)
	if err != nil {
		return err
	}
	b.Params = norm
	ctxlog.FromContext(ctx).Debug("Block parameters updated.", "block", id, "keys", edits.Keys())

	return e.Process(ctx, id)
}

// LoadFile points a load block at a RAW file and processes it. A zero width or
// height is inferred from the file size. Unreadable files are reported and
// leave the block unchanged.
func (e *Engine) LoadFile(ctx context.Context, id node.BlockID, path string, width, height int) error {
	b, err := e.block(id)
	if err != nil {
		return err
	}
	if b.Kind != load.Kind {
		return fmt.Errorf("%w: block %s is a %q block, not %q", registry.ErrInvalidParams, id, b.Kind, load.Kind)
	}

	if width < 0 || height < 0 || width > load.MaxDimension || height > load.MaxDimension {
		return fmt.Errorf("%w: dimensions %dx%d outside 0..%d", registry.ErrInvalidParams, width, height, load.MaxDimension)
	}
	if width == 0 || height == 0 {
		width, height, err = rawio.DetectFile(path)
		if err != nil {
			ctxlog.FromContext(ctx).Error("Failed to detect RAW dimensions.", "path", path, "error", err)
			return err
		}
	}
	if _, err := rawio.Read(path, width, height); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to load RAW file.", "path", path, "error", err)
		return err
	}

	return e.SetParams(ctx, id, node.Params{
		"file_path": cty.StringVal(path),
		"width":     cty.NumberIntVal(int64(width)),
		"height":    cty.NumberIntVal(int64(height)),
	})
}
