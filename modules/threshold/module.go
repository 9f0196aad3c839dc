package threshold

import (
	"context"

	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the registry name of this block kind.
const Kind = "threshold"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the parameters of a threshold block.
type Params struct {
	Threshold int `cty:"threshold" validate:"gte=0,lte=255"`
}

// OnProcess binarizes the input.
func OnProcess(_ context.Context, inputs []*pixel.Image, p *Params) (*pixel.Image, error) {
	in, err := registry.Input(inputs, 0)
	if err != nil {
		return nil, err
	}
	return pixel.Threshold(in, p.Threshold), nil
}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(&registry.RegisteredKind{
		Name:      Kind,
		Title:     "Threshold",
		Inputs:    []string{"Input"},
		Outputs:   []string{"Output"},
		Schema:    map[string]cty.Type{"threshold": cty.Number},
		Defaults:  node.Params{"threshold": cty.NumberIntVal(128)},
		NewParams: func() any { return new(Params) },
		Fn:        registry.Typed(OnProcess),
	})
}
