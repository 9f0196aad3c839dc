package brightness

import (
	"context"

	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the registry name of this block kind.
const Kind = "brightness"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the parameters of a brightness block.
type Params struct {
	Brightness int `cty:"brightness" validate:"gte=-255,lte=255"`
}

// OnProcess shifts every sample by the configured delta.
func OnProcess(_ context.Context, inputs []*pixel.Image, p *Params) (*pixel.Image, error) {
	in, err := registry.Input(inputs, 0)
	if err != nil {
		return nil, err
	}
	return pixel.Brightness(in, p.Brightness), nil
}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(&registry.RegisteredKind{
		Name:      Kind,
		Title:     "Brightness",
		Inputs:    []string{"Input"},
		Outputs:   []string{"Output"},
		Schema:    map[string]cty.Type{"brightness": cty.Number},
		Defaults:  node.Params{"brightness": cty.NumberIntVal(0)},
		NewParams: func() any { return new(Params) },
		Fn:        registry.Typed(OnProcess),
	})
}
