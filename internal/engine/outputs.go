package engine

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/preview"
	"github.com/specialistvlad/rawgridgo/internal/rawio"
)

// ErrNoImage is returned when a block's image is requested before the block
// has been processed successfully.
var ErrNoImage = errors.New("block has no image")

// Image returns a block's cached image.
func (e *Engine) Image(id node.BlockID) (*pixel.Image, error) {
	b, err := e.block(id)
	if err != nil {
		return nil, err
	}
	if b.Image() == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoImage, id)
	}
	return b.Image(), nil
}

// SaveImage writes a block's image to path. The extension picks the format:
// .tif/.tiff, .bmp and .png, anything else is written as RAW.
func (e *Engine) SaveImage(ctx context.Context, id node.BlockID, path string) error {
	img, err := e.Image(id)
	if err != nil {
		return err
	}
	if err := rawio.Export(path, img); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to save image.", "block", id, "path", path, "error", err)
		return err
	}
	ctxlog.FromContext(ctx).Info("Image saved.", "block", id, "path", path, "image", img)
	return nil
}

// Histogram counts the sample values of a block's image.
func (e *Engine) Histogram(id node.BlockID) ([256]int, error) {
	img, err := e.Image(id)
	if err != nil {
		return [256]int{}, err
	}
	return pixel.Histogram(img), nil
}

// Thumbnail renders a block's image to fit maxW×maxH. Blocks without an image
// get a placeholder.
func (e *Engine) Thumbnail(id node.BlockID, maxW, maxH int) (*image.Gray, error) {
	b, err := e.block(id)
	if err != nil {
		return nil, err
	}
	return preview.Thumbnail(b.Image(), maxW, maxH), nil
}
