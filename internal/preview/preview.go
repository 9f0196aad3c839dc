// Package preview renders block thumbnails for the presentation layer.
package preview

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/specialistvlad/rawgridgo/internal/pixel"
	xdraw "golang.org/x/image/draw"
)

// Default thumbnail bounds, matching the block tile in the editor. Requested
// bounds are capped at MaxSide on each axis.
const (
	DefaultWidth  = 160
	DefaultHeight = 120
	MaxSide       = 1024
)

// placeholderGray fills thumbnails of blocks that have no image yet.
var placeholderGray = color.Gray{Y: 40}

// Thumbnail scales img to fit within maxW×maxH keeping its aspect ratio.
// A nil image yields a maxW×maxH placeholder.
func Thumbnail(img *pixel.Image, maxW, maxH int) *image.Gray {
	if maxW <= 0 {
		maxW = DefaultWidth
	}
	if maxH <= 0 {
		maxH = DefaultHeight
	}
	maxW, maxH = min(maxW, MaxSide), min(maxH, MaxSide)
	if img == nil || img.Width() == 0 || img.Height() == 0 {
		dst := image.NewGray(image.Rect(0, 0, maxW, maxH))
		xdraw.Draw(dst, dst.Bounds(), image.NewUniform(placeholderGray), image.Point{}, xdraw.Src)
		return dst
	}

	w, h := fit(img.Width(), img.Height(), maxW, maxH)
	dst := image.NewGray(image.Rect(0, 0, w, h))
	src := img.Gray()
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// fit returns the largest size with the source aspect ratio inside the bounds.
func fit(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW*maxH > srcH*maxW {
		h := srcH * maxW / srcW
		return maxW, max(h, 1)
	}
	w := srcW * maxH / srcH
	return max(w, 1), maxH
}

// EncodePNG writes a thumbnail as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
