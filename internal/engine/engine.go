package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/graph"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/registry"
)

// DefaultMaxDepth bounds the recursion of a single cascade.
const DefaultMaxDepth = 4096

// ErrCascadeTooDeep is reported for the block at which a cascade hit the
// depth limit.
var ErrCascadeTooDeep = errors.New("cascade exceeded maximum depth")

// Observer is notified about every block a cascade visits.
type Observer interface {
	BlockProcessed(ctx context.Context, b *node.Block, elapsed time.Duration)
	BlockSkipped(ctx context.Context, b *node.Block, reason error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver adds an observer. Observers are called in the order added.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithMaxDepth sets the cascade depth limit. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// Engine owns one graph and propagates changes through it.
type Engine struct {
	reg       *registry.Registry
	graph     *graph.Graph
	observers []Observer
	maxDepth  int
}

// New creates an engine with an empty graph.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:      reg,
		graph:    graph.New(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddObserver appends an observer after construction, for observers that
// themselves need the engine.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// Graph returns the graph being driven.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Registry returns the kinds the engine instantiates blocks from.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Replace swaps in another graph, typically one restored from a document.
// Nothing is processed.
func (e *Engine) Replace(g *graph.Graph) {
	e.graph = g
}

// Process re-evaluates a block and everything downstream of it. Only an
// unknown block id is returned as an error.
func (e *Engine) Process(ctx context.Context, id node.BlockID) error {
	b, err := e.block(id)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Cascade started.", "block", id, "kind", b.Kind)
	e.cascade(ctx, b, 0)
	return nil
}

func (e *Engine) cascade(ctx context.Context, b *node.Block, depth int) {
	if depth > e.maxDepth {
		e.skipped(ctx, b, fmt.Errorf("%w (%d)", ErrCascadeTooDeep, e.maxDepth))
		return
	}

	start := time.Now()
	img, err := e.run(ctx, b)
	if err != nil {
		e.skipped(ctx, b, err)
		return
	}
	b.SetImage(img)
	e.processed(ctx, b, time.Since(start))

	for _, c := range e.graph.Outgoing(b.ID()) {
		target, ok := e.graph.Block(c.Target.Block)
		if !ok {
			continue
		}
		e.cascade(ctx, target, depth+1)
	}
}

// run computes a block's new image without storing it.
func (e *Engine) run(ctx context.Context, b *node.Block) (*pixel.Image, error) {
	kind, ok := e.reg.Kind(b.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", registry.ErrUnknownKind, b.Kind)
	}

	inputs, err := e.gather(b)
	if err != nil {
		return nil, err
	}

	params, err := e.reg.DecodeParams(kind, b.Params)
	if err != nil {
		return nil, err
	}

	img, err := kind.Fn(ctx, inputs, params)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("kind %q produced no image", b.Kind)
	}
	return img, nil
}

// gather resolves the upstream image of every input port in index order and
// checks that multi-input blocks receive images of one shape.
func (e *Engine) gather(b *node.Block) ([]*pixel.Image, error) {
	inputs := make([]*pixel.Image, len(b.Inputs()))
	for i, p := range b.Inputs() {
		c, ok := e.graph.Incoming(p.Ref())
		if !ok {
			return nil, fmt.Errorf("%w: %q is not connected", registry.ErrInputNotReady, p.Name)
		}
		upstream, ok := e.graph.Block(c.Source.Block)
		if !ok || upstream.Image() == nil {
			return nil, fmt.Errorf("%w: %q has no upstream image", registry.ErrInputNotReady, p.Name)
		}
		inputs[i] = upstream.Image()
	}
	for i := 1; i < len(inputs); i++ {
		if !inputs[0].SameShape(inputs[i]) {
			return nil, fmt.Errorf("%w: %s vs %s", pixel.ErrShapeMismatch, inputs[0], inputs[i])
		}
	}
	return inputs, nil
}

func (e *Engine) processed(ctx context.Context, b *node.Block, elapsed time.Duration) {
	ctxlog.FromContext(ctx).Debug("Block processed.", "block", b.ID(), "kind", b.Kind, "image", b.Image(), "elapsed", elapsed)
	for _, o := range e.observers {
		o.BlockProcessed(ctx, b, elapsed)
	}
}

func (e *Engine) skipped(ctx context.Context, b *node.Block, reason error) {
	logger := ctxlog.FromContext(ctx)
	if errors.Is(reason, registry.ErrInputNotReady) {
		logger.Debug("Block not ready, cascade stops here.", "block", b.ID(), "kind", b.Kind, "reason", reason)
	} else {
		logger.Warn("Block processing failed, cascade stops here.", "block", b.ID(), "kind", b.Kind, "error", reason)
	}
	for _, o := range e.observers {
		o.BlockSkipped(ctx, b, reason)
	}
}

func (e *Engine) block(id node.BlockID) (*node.Block, error) {
	b, ok := e.graph.Block(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", graph.ErrBlockNotFound, id)
	}
	return b, nil
}
