// Package pixel holds the 8-bit grayscale Image type and the pure kernels that
// processing blocks apply to it.
//
// Every kernel returns a freshly allocated Image and never mutates its inputs,
// so a block can hand its cached image to any number of downstream blocks
// without copying it first.
//
// # Rounding
//
// Convolution accumulates in float64, stores the per-pixel sum as float32,
// clamps it to [0, 255] and then truncates toward zero when converting to
// uint8. Truncation is kept for reproducibility with previously saved outputs;
// it is not the numerically nearest result.
package pixel
