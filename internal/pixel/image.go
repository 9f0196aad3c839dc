package pixel

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrShapeMismatch is returned when two images that must share dimensions do not.
var ErrShapeMismatch = errors.New("image shapes differ")

// Image is an immutable width×height grid of 8-bit grayscale samples stored
// row-major.
type Image struct {
	width  int
	height int
	pix    []uint8
}

// newImage allocates a zeroed image. Package kernels fill it before handing
// it out, after which it is never written again.
func newImage(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height),
	}
}

// FromBytes builds an image from row-major samples. The data is copied.
func FromBytes(width, height int, data []byte) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	if width > math.MaxInt/height {
		return nil, fmt.Errorf("image dimensions %dx%d overflow", width, height)
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("got %d samples, want %d for a %dx%d image", len(data), width*height, width, height)
	}
	img := newImage(width, height)
	copy(img.pix, data)
	return img, nil
}

// Uniform returns an image with every sample set to v.
func Uniform(width, height int, v uint8) *Image {
	img := newImage(width, height)
	for i := range img.pix {
		img.pix[i] = v
	}
	return img
}

// FromGray copies a standard library grayscale image.
func FromGray(g *image.Gray) *Image {
	b := g.Bounds()
	img := newImage(b.Dx(), b.Dy())
	for y := 0; y < img.height; y++ {
		off := g.PixOffset(b.Min.X, b.Min.Y+y)
		row := g.Pix[off : off+img.width]
		copy(img.pix[y*img.width:], row)
	}
	return img
}

// Width returns the number of columns.
func (m *Image) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *Image) Height() int {
	return m.height
}

// At returns the sample at column x, row y. Out-of-range coordinates read 0.
func (m *Image) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.pix[y*m.width+x]
}

// Bytes returns a copy of the row-major samples.
func (m *Image) Bytes() []byte {
	out := make([]byte, len(m.pix))
	copy(out, m.pix)
	return out
}

// Clone returns an independent copy of the image.
func (m *Image) Clone() *Image {
	c := newImage(m.width, m.height)
	copy(c.pix, m.pix)
	return c
}

// SameShape reports whether both images have identical dimensions.
func (m *Image) SameShape(o *Image) bool {
	return o != nil && m.width == o.width && m.height == o.height
}

// Equal reports whether both images have the same shape and samples.
func (m *Image) Equal(o *Image) bool {
	if !m.SameShape(o) {
		return false
	}
	for i := range m.pix {
		if m.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// Gray converts the image to a standard library *image.Gray (copied).
func (m *Image) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.width, m.height))
	copy(g.Pix, m.pix)
	return g
}

// String implements fmt.Stringer for log output.
func (m *Image) String() string {
	return fmt.Sprintf("%dx%d", m.width, m.height)
}
