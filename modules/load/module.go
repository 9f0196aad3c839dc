// Package load implements the "load" block kind, the source of every
// processing chain: it reads a RAW file from disk.
package load

import (
	"context"
	"fmt"

	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/rawio"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the registry name of this block kind.
const Kind = "load"

// Module implements the registry.Module interface for this package.
type Module struct{}

// MaxDimension bounds an explicit width or height.
const MaxDimension = 4096

// Params defines the parameters of a load block. A zero width or height is
// inferred from the file size.
type Params struct {
	FilePath *string `cty:"file_path"`
	Width    int     `cty:"width" validate:"gte=0,lte=4096"`
	Height   int     `cty:"height" validate:"gte=0,lte=4096"`
}

// OnProcess reads the configured RAW file. Without a path the block stays
// uninitialized.
func OnProcess(ctx context.Context, _ []*pixel.Image, p *Params) (*pixel.Image, error) {
	if p.FilePath == nil || *p.FilePath == "" {
		return nil, fmt.Errorf("%w: no file selected", registry.ErrInputNotReady)
	}
	path := *p.FilePath

	width, height := p.Width, p.Height
	if width == 0 || height == 0 {
		var err error
		width, height, err = rawio.DetectFile(path)
		if err != nil {
			return nil, err
		}
	}

	img, err := rawio.Read(path, width, height)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Loaded RAW file.", "path", path, "width", width, "height", height)
	return img, nil
}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(&registry.RegisteredKind{
		Name:    Kind,
		Title:   "Load Image",
		Outputs: []string{"Image"},
		Schema: map[string]cty.Type{
			"file_path": cty.String,
			"width":     cty.Number,
			"height":    cty.Number,
		},
		Defaults: node.Params{
			"width":  cty.NumberIntVal(256),
			"height": cty.NumberIntVal(256),
		},
		NewParams: func() any { return new(Params) },
		Fn:        registry.Typed(OnProcess),
	})
}
