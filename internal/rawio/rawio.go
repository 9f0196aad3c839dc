// Package rawio reads and writes headerless 8-bit grayscale RAW files and
// exports images to common container formats.
package rawio

import (
	"errors"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownShape is returned when a RAW file's dimensions cannot be inferred
// from its size.
var ErrUnknownShape = errors.New("unable to detect RAW image dimensions")

// CandidateWidths are tried in order when a file's size is not a perfect square.
var CandidateWidths = []int{64, 128, 256, 512, 1024, 2048, 4096}

// Read loads a width×height RAW file. The file size must match exactly.
func Read(path string, width, height int) (*pixel.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read RAW file: %w", err)
	}
	img, err := pixel.FromBytes(width, height, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode RAW file %s: %w", path, err)
	}
	return img, nil
}

// Write stores img as a headerless RAW file.
func Write(path string, img *pixel.Image) error {
	if err := os.WriteFile(path, img.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write RAW file: %w", err)
	}
	return nil
}

// DetectShape infers image dimensions from a RAW payload size: a perfect
// square wins, otherwise the first candidate width that divides the size.
func DetectShape(size int64) (width, height int, err error) {
	if size <= 0 {
		return 0, 0, ErrUnknownShape
	}
	side := int64(math.Sqrt(float64(size)))
	for _, s := range []int64{side - 1, side, side + 1} {
		if s > 0 && s*s == size {
			return int(s), int(s), nil
		}
	}
	for _, w := range CandidateWidths {
		if size%int64(w) == 0 {
			return w, int(size / int64(w)), nil
		}
	}
	return 0, 0, ErrUnknownShape
}

// DetectFile runs DetectShape on the size of the file at path.
func DetectFile(path string) (width, height int, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to stat RAW file: %w", err)
	}
	w, h, err := DetectShape(info.Size())
	if err != nil {
		return 0, 0, fmt.Errorf("%s (%d bytes): %w", path, info.Size(), err)
	}
	return w, h, nil
}

// Export writes img in the format implied by the file extension: .tif/.tiff,
// .bmp and .png use their container formats, anything else is written as RAW.
func Export(path string, img *pixel.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".tif", ".tiff", ".bmp", ".png":
	default:
		return Write(path, img)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	gray := img.Gray()
	switch ext {
	case ".tif", ".tiff":
		err = tiff.Encode(f, gray, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		err = bmp.Encode(f, gray)
	case ".png":
		err = png.Encode(f, gray)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
