package save

import (
	"context"
	"testing"

	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnProcess_Copies(t *testing.T) {
	in := pixel.Uniform(3, 3, 42)
	out, err := OnProcess(context.Background(), []*pixel.Image{in}, &registry.NoParams{})
	require.NoError(t, err)
	assert.True(t, out.Equal(in))
	assert.NotSame(t, in, out)

	_, err = OnProcess(context.Background(), []*pixel.Image{nil}, &registry.NoParams{})
	assert.ErrorIs(t, err, registry.ErrInputNotReady)
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))
}
