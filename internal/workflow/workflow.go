package workflow

import (
	"context"
	"fmt"

	"github.com/specialistvlad/rawgridgo/internal/config"
	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/graph"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/registry"
)

// Snapshot captures the blocks and finalized connections of g. Document ids
// are the blocks' runtime ids.
func Snapshot(g *graph.Graph) *config.Document {
	doc := &config.Document{
		Blocks:      []config.BlockSpec{},
		Connections: []config.ConnectionSpec{},
	}
	for _, b := range g.Blocks() {
		doc.Blocks = append(doc.Blocks, config.BlockSpec{
			ID:     string(b.ID()),
			Kind:   b.Kind,
			X:      b.X,
			Y:      b.Y,
			Params: b.Params.Clone(),
		})
	}
	for _, c := range g.Connections() {
		doc.Connections = append(doc.Connections, config.ConnectionSpec{
			SourceBlock: string(c.Source.Block),
			SourcePort:  c.Source.Index,
			TargetBlock: string(c.Target.Block),
			TargetPort:  c.Target.Index,
		})
	}
	return doc
}

// Restore builds a new graph from doc. Blocks get fresh ids. The returned
// messages describe every skipped entry.
func Restore(ctx context.Context, reg *registry.Registry, doc *config.Document) (*graph.Graph, []string) {
	logger := ctxlog.FromContext(ctx)
	g := graph.New()
	var skipped []string
	skip := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		logger.Warn("Skipping malformed workflow entry.", "reason", msg)
		skipped = append(skipped, msg)
	}

	ids := make(map[string]node.BlockID, len(doc.Blocks))
	for i, spec := range doc.Blocks {
		if _, dup := ids[spec.ID]; dup {
			skip("block %d: duplicate block_id %q", i, spec.ID)
			continue
		}
		kind, ok := reg.Kind(spec.Kind)
		if !ok {
			skip("block %d (%q): unknown block_type %q", i, spec.ID, spec.Kind)
			continue
		}

		params := spec.Params.Clone()
		for _, name := range registry.Unknown(kind, params) {
			logger.Warn("Ignoring unknown parameter.", "block", spec.ID, "kind", spec.Kind, "parameter", name)
			delete(params, name)
		}
		if _, err := reg.DecodeParams(kind, params); err != nil {
			skip("block %d (%q): %v", i, spec.ID, err)
			continue
		}
		norm, err := reg.Normalize(kind, params)
		if err != nil {
			skip("block %d (%q): %v", i, spec.ID, err)
			continue
		}

		b, err := reg.NewBlock(spec.Kind, spec.X, spec.Y)
		if err != nil {
			skip("block %d (%q): %v", i, spec.ID, err)
			continue
		}
		b.Params = norm
		if err := g.AddBlock(b); err != nil {
			skip("block %d (%q): %v", i, spec.ID, err)
			continue
		}
		ids[spec.ID] = b.ID()
	}

	for i, c := range doc.Connections {
		src, ok := ids[c.SourceBlock]
		if !ok {
			skip("connection %d: unknown source_block %q", i, c.SourceBlock)
			continue
		}
		dst, ok := ids[c.TargetBlock]
		if !ok {
			skip("connection %d: unknown target_block %q", i, c.TargetBlock)
			continue
		}
		if _, err := g.AddConnection(node.OutputRef(src, c.SourcePort), node.InputRef(dst, c.TargetPort)); err != nil {
			skip("connection %d: %v", i, err)
		}
	}

	logger.Info("Workflow restored.", "blocks", g.Len(), "connections", len(g.Connections()), "skipped", len(skipped))
	return g, skipped
}
