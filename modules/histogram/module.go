// Package histogram implements the "histogram" block kind. It passes its
// input through unchanged; the histogram itself is a display side channel
// computed from the block's image on demand.
package histogram

import (
	"context"

	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/registry"
)

// Kind is the registry name of this block kind.
const Kind = "histogram"

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnProcess copies the input.
func OnProcess(_ context.Context, inputs []*pixel.Image, _ *registry.NoParams) (*pixel.Image, error) {
	in, err := registry.Input(inputs, 0)
	if err != nil {
		return nil, err
	}
	return in.Clone(), nil
}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(&registry.RegisteredKind{
		Name:      Kind,
		Title:     "Histogram",
		Inputs:    []string{"Input"},
		Outputs:   []string{"Output"},
		NewParams: registry.NewNoParams,
		Fn:        registry.Typed(OnProcess),
	})
}
