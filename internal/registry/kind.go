package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/zclconf/go-cty/cty"
)

// ProcessFunc computes a block's new image from its inputs, given in input
// port index order, and its decoded parameters.
type ProcessFunc func(ctx context.Context, inputs []*pixel.Image, params any) (*pixel.Image, error)

// RegisteredKind holds everything needed to create and run blocks of one kind.
type RegisteredKind struct {
	// Name is the identifier used in documents and the API, e.g. "threshold".
	Name string
	// Title is the human-readable palette label, e.g. "Display/Save".
	Title   string
	Inputs  []string
	Outputs []string
	// Schema declares every parameter and its type.
	Schema map[string]cty.Type
	// Defaults seeds new blocks. Parameters missing here default to null.
	Defaults node.Params
	// NewParams returns a pointer to the struct parameters decode into. Its
	// fields carry `cty` tags matching Schema and `validate` tags.
	NewParams func() any
	Fn        ProcessFunc
}

// Typed adapts a process function that takes its concrete parameter struct.
func Typed[P any](fn func(ctx context.Context, inputs []*pixel.Image, params *P) (*pixel.Image, error)) ProcessFunc {
	return func(ctx context.Context, inputs []*pixel.Image, params any) (*pixel.Image, error) {
		p, ok := params.(*P)
		if !ok {
			return nil, fmt.Errorf("%w: got %T, want %T", ErrInvalidParams, params, new(P))
		}
		return fn(ctx, inputs, p)
	}
}

// NoParams is the parameter struct for kinds without parameters.
type NoParams struct{}

// NewNoParams is a NewParams implementation for kinds without parameters.
func NewNoParams() any { return &NoParams{} }

// Input returns the i-th input image, or ErrInputNotReady when the port is
// unconnected or its upstream block holds no image.
func Input(inputs []*pixel.Image, i int) (*pixel.Image, error) {
	if i < 0 || i >= len(inputs) || inputs[i] == nil {
		return nil, fmt.Errorf("%w: input %d", ErrInputNotReady, i)
	}
	return inputs[i], nil
}
