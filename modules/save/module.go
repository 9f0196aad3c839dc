// Package save implements the "save" block kind: a sink that keeps a copy of
// its input for display and for writing to disk.
package save

import (
	"context"

	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/registry"
)

// Kind is the registry name of this block kind.
const Kind = "save"

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
		Title:     "Display/Save",
		Inputs:    []string{"Input"},
		NewParams: registry.NewNoParams,
		Fn:        registry.Typed(OnProcess),
	})
}
