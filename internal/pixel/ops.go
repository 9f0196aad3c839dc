package pixel

// clamp255 clips an integer sample into the 8-bit range.
func clamp255(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Brightness adds delta to every sample, clamping to [0, 255].
// The useful range of delta is [-255, 255]; larger magnitudes saturate.
func Brightness(img *Image, delta int) *Image {
	out := newImage(img.width, img.height)
	for i, s := range img.pix {
		out.pix[i] = clamp255(int(s) + delta)
	}
	return out
}

// Threshold maps samples >= t to 255 and everything else to 0.
func Threshold(img *Image, t int) *Image {
	out := newImage(img.width, img.height)
	for i, s := range img.pix {
		if int(s) >= t {
			out.pix[i] = 255
		}
	}
	return out
}

// Difference returns |a - b| per sample. Both images must share a shape;
// callers check SameShape first and get ErrShapeMismatch otherwise.
func Difference(a, b *Image) (*Image, error) {
	if !a.SameShape(b) {
		return nil, ErrShapeMismatch
	}
	out := newImage(a.width, a.height)
	for i := range a.pix {
		d := int(a.pix[i]) - int(b.pix[i])
		if d < 0 {
			d = -d
		}
		out.pix[i] = uint8(d)
	}
	return out, nil
}

// Histogram counts how many samples take each of the 256 values.
func Histogram(img *Image) [256]int {
	var h [256]int
	for _, s := range img.pix {
		h[s]++
	}
	return h
}
