package pixel

import (
	"errors"
	"fmt"
)

// ErrInvalidKernel is returned for kernels that are empty, not square, or of
// even size.
var ErrInvalidKernel = errors.New("invalid convolution kernel")

// Kernel is a square, odd-sized matrix of weights indexed [row][column].
type Kernel [][]float64

// Size returns the side length of the kernel.
func (k Kernel) Size() int {
	return len(k)
}

// Validate checks that the kernel is square with an odd side of at least 1.
func (k Kernel) Validate() error {
	n := len(k)
	if n == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidKernel)
	}
	if n%2 == 0 {
		return fmt.Errorf("%w: size %d is even", ErrInvalidKernel, n)
	}
	for i, row := range k {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d weights, want %d", ErrInvalidKernel, i, len(row), n)
		}
	}
	return nil
}

// Scale returns a copy of the kernel with every weight multiplied by f.
func (k Kernel) Scale(f float64) Kernel {
	out := make(Kernel, len(k))
	for i, row := range k {
		out[i] = make([]float64, len(row))
		for j, w := range row {
			out[i][j] = w * f
		}
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Convolve applies k to img with edge-replication padding: samples outside the
// image take the value of the nearest edge sample. Each output pixel is the
// weighted sum of its neighbourhood, stored as float32, clamped to [0, 255]
// and truncated toward zero.
func Convolve(img *Image, k Kernel) (*Image, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	out := newImage(img.width, img.height)
	n := k.Size()
	r := n / 2
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			var sum float64
			for dy := 0; dy < n; dy++ {
				sy := clampIndex(y+dy-r, img.height)
				row := img.pix[sy*img.width : (sy+1)*img.width]
				for dx := 0; dx < n; dx++ {
					sx := clampIndex(x+dx-r, img.width)
					sum += float64(row[sx]) * k[dy][dx]
				}
			}
			v := float32(sum)
			switch {
			case v < 0:
				v = 0
			case v > 255:
				v = 255
			}
			out.pix[y*img.width+x] = uint8(v)
		}
	}
	return out, nil
}
