package difference

import (
	"context"

	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/registry"
)

// Kind is the registry name of this block kind.
const Kind = "difference"

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnProcess computes |A-B|. Inputs of different shapes are rejected with
// pixel.ErrShapeMismatch.
func OnProcess(_ context.Context, inputs []*pixel.Image, _ *registry.NoParams) (*pixel.Image, error) {
	a, err := registry.Input(inputs, 0)
	if err != nil {
		return nil, err
	}
	b, err := registry.Input(inputs, 1)
	if err != nil {
		return nil, err
	}
	return pixel.Difference(a, b)
}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(&registry.RegisteredKind{
		Name:      Kind,
		Title:     "Difference",
		Inputs:    []string{"Image A", "Image B"},
		Outputs:   []string{"Output"},
		NewParams: registry.NewNoParams,
		Fn:        registry.Typed(OnProcess),
	})
}
