package difference

import (
	"context"
	"testing"

	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnProcess(t *testing.T) {
	a := pixel.Uniform(2, 2, 10)
	b := pixel.Uniform(2, 2, 30)

	out, err := OnProcess(context.Background(), []*pixel.Image{a, b}, &registry.NoParams{})
	require.NoError(t, err)
	assert.True(t, out.Equal(pixel.Uniform(2, 2, 20)))

	_, err = OnProcess(context.Background(), []*pixel.Image{a, pixel.Uniform(3, 2, 0)}, &registry.NoParams{})
	assert.ErrorIs(t, err, pixel.ErrShapeMismatch)

	_, err = OnProcess(context.Background(), []*pixel.Image{a, nil}, &registry.NoParams{})
	assert.ErrorIs(t, err, registry.ErrInputNotReady)
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))

	b, err := r.NewBlock(Kind, 0, 0)
	require.NoError(t, err)
	require.Len(t, b.Inputs(), 2)
	assert.Equal(t, "Image A", b.Inputs()[0].Name)
	assert.Equal(t, "Image B", b.Inputs()[1].Name)
	assert.Empty(t, b.Params)
}
