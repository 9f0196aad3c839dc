package load

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/rawio"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeRaw(t *testing.T, n int, v byte) string {
	t.Helper()
	data := make([]byte, n)
	for i := range data {
		data[i] = v
	}
	path := filepath.Join(t.TempDir(), "in.raw")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOnProcess(t *testing.T) {
	path := writeRaw(t, 6, 9)

	img, err := OnProcess(context.Background(), nil, &Params{FilePath: &path, Width: 3, Height: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width())
	assert.Equal(t, 2, img.Height())
	assert.Equal(t, uint8(9), img.At(2, 1))
}

func TestOnProcess_DetectsShape(t *testing.T) {
	path := writeRaw(t, 16, 1)

	img, err := OnProcess(context.Background(), nil, &Params{FilePath: &path})
	require.NoError(t, err)
	assert.Equal(t, "4x4", img.String())
}

func TestOnProcess_Errors(t *testing.T) {
	_, err := OnProcess(context.Background(), nil, &Params{Width: 1, Height: 1})
	assert.ErrorIs(t, err, registry.ErrInputNotReady)

	empty := ""
	_, err = OnProcess(context.Background(), nil, &Params{FilePath: &empty, Width: 1, Height: 1})
	assert.ErrorIs(t, err, registry.ErrInputNotReady)

	missing := filepath.Join(t.TempDir(), "missing.raw")
	_, err = OnProcess(context.Background(), nil, &Params{FilePath: &missing, Width: 2, Height: 2})
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := writeRaw(t, 7, 0)
	_, err = OnProcess(context.Background(), nil, &Params{FilePath: &path})
	assert.ErrorIs(t, err, rawio.ErrUnknownShape)

	_, err = OnProcess(context.Background(), nil, &Params{FilePath: &path, Width: 2, Height: 2})
	assert.ErrorContains(t, err, "failed to decode RAW file")
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))

	b, err := r.NewBlock(Kind, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, b.Inputs())
	require.Len(t, b.Outputs(), 1)
	assert.Equal(t, "Image", b.Outputs()[0].Name)
	assert.True(t, b.Params["file_path"].IsNull())
	assert.True(t, b.Params["width"].RawEquals(cty.NumberIntVal(256)))
	assert.True(t, b.Params["height"].RawEquals(cty.NumberIntVal(256)))

	k, _ := r.Kind(Kind)
	_, err = r.DecodeParams(k, node.Params{"width": cty.NumberIntVal(-1)})
	assert.ErrorIs(t, err, registry.ErrInvalidParams)
}
