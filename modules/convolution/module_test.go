package convolution

import (
	"context"
	"testing"

	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestOnProcess_NamedMask(t *testing.T) {
	in := pixel.Uniform(5, 5, 80)
	out, err := OnProcess(context.Background(), []*pixel.Image{in}, &Params{MaskName: "gaussian_3x3"})
	require.NoError(t, err)
	assert.True(t, out.Equal(in))
}

func TestOnProcess_CustomKernel(t *testing.T) {
	in := pixel.Uniform(3, 3, 40)
	out, err := OnProcess(context.Background(), []*pixel.Image{in}, &Params{MaskName: pixel.CustomMask, Kernel: [][]float64{{2}}})
	require.NoError(t, err)
	assert.True(t, out.Equal(pixel.Uniform(3, 3, 80)))

	_, err = OnProcess(context.Background(), []*pixel.Image{in}, &Params{MaskName: pixel.CustomMask, Kernel: [][]float64{{1, 1}, {1, 1}}})
	assert.ErrorIs(t, err, registry.ErrInvalidParams)
	assert.ErrorIs(t, err, pixel.ErrInvalidKernel)

	_, err = OnProcess(context.Background(), []*pixel.Image{in}, &Params{MaskName: "blur"})
	assert.ErrorIs(t, err, registry.ErrInvalidParams)
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))

	k, _ := r.Kind(Kind)
	p, err := r.DecodeParams(k, nil)
	require.NoError(t, err)
	assert.Equal(t, "mean_3x3", p.(*Params).MaskName)
	assert.Nil(t, p.(*Params).Kernel)

	// The JSON form of a matrix is a tuple of tuples; it converts to the
	// declared list type.
	custom := node.Params{
		"mask_name": cty.StringVal("custom"),
		"kernel": cty.TupleVal([]cty.Value{
			cty.TupleVal([]cty.Value{cty.NumberIntVal(0), cty.NumberIntVal(1), cty.NumberIntVal(0)}),
			cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(-4), cty.NumberIntVal(1)}),
			cty.TupleVal([]cty.Value{cty.NumberIntVal(0), cty.NumberIntVal(1), cty.NumberIntVal(0)}),
		}),
	}
	p, err = r.DecodeParams(k, custom)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1, 0}, {1, -4, 1}, {0, 1, 0}}, p.(*Params).Kernel)

	_, err = r.DecodeParams(k, node.Params{"mask_name": cty.StringVal("custom")})
	assert.ErrorIs(t, err, registry.ErrInvalidParams, "custom without a kernel")

	_, err = r.DecodeParams(k, node.Params{"mask_name": cty.StringVal("blur")})
	assert.ErrorIs(t, err, registry.ErrInvalidParams)
}

func TestRegister_RejectsMalformedKernels(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	k, _ := r.Kind(Kind)

	row := func(ws ...float64) cty.Value {
		vals := make([]cty.Value, len(ws))
		for i, w := range ws {
			vals[i] = cty.NumberFloatVal(w)
		}
		return cty.ListVal(vals)
	}
	kernels := map[string]cty.Value{
		"even":       cty.ListVal([]cty.Value{row(1, 1), row(1, 1)}),
		"not square": cty.ListVal([]cty.Value{row(1, 1, 1)}),
		"ragged":     cty.ListVal([]cty.Value{row(1, 1, 1), row(1, 1), row(1, 1, 1)}),
	}
	for name, kernel := range kernels {
		t.Run(name, func(t *testing.T) {
			for _, mask := range []string{pixel.CustomMask, "mean_3x3"} {
				_, err := r.DecodeParams(k, node.Params{"mask_name": cty.StringVal(mask), "kernel": kernel})
				assert.ErrorIs(t, err, registry.ErrInvalidParams, mask)
			}
		})
	}
}
