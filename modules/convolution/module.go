package convolution

import (
	"context"
	"fmt"

	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the registry name of this block kind.
const Kind = "convolution"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the parameters of a convolution block. Kernel is only read
// when MaskName is "custom", but a malformed one is rejected either way.
type Params struct {
	MaskName string      `cty:"mask_name" validate:"required,oneof=mean_3x3 mean_5x5 laplacian laplacian_8 sobel_x sobel_y sharpen gaussian_3x3 custom"`
	Kernel   [][]float64 `cty:"kernel" validate:"required_if=MaskName custom,kernel_shape"`
}

// kernel resolves the weights to apply.
func (p *Params) kernel() (pixel.Kernel, error) {
	if p.MaskName == pixel.CustomMask {
		k := pixel.Kernel(p.Kernel)
		if err := k.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", registry.ErrInvalidParams, err)
		}
		return k, nil
	}
	k, ok := pixel.Mask(p.MaskName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown mask %q", registry.ErrInvalidParams, p.MaskName)
	}
	return k, nil
}

// OnProcess convolves the input with the selected mask.
func OnProcess(_ context.Context, inputs []*pixel.Image, p *Params) (*pixel.Image, error) {
	in, err := registry.Input(inputs, 0)
	if err != nil {
		return nil, err
	}
	k, err := p.kernel()
	if err != nil {
		return nil, err
	}
	return pixel.Convolve(in, k)
}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(&registry.RegisteredKind{
		Name:    Kind,
		Title:   "Convolution",
		Inputs:  []string{"Input"},
		Outputs: []string{"Output"},
		Schema: map[string]cty.Type{
			"mask_name": cty.String,
			"kernel":    cty.List(cty.List(cty.Number)),
		},
		Defaults:  node.Params{"mask_name": cty.StringVal("mean_3x3")},
		NewParams: func() any { return new(Params) },
		Fn:        registry.Typed(OnProcess),
	})
}
