package pixel

import "sort"

// CustomMask is the mask name that selects a user-supplied kernel.
const CustomMask = "custom"

func ones(n int) Kernel {
	k := make(Kernel, n)
	for i := range k {
		k[i] = make([]float64, n)
		for j := range k[i] {
			k[i][j] = 1
		}
	}
	return k
}

var masks = map[string]Kernel{
	"mean_3x3": ones(3).Scale(1.0 / 9),
	"mean_5x5": ones(5).Scale(1.0 / 25),
	"laplacian": {
		{0, -1, 0},
		{-1, 4, -1},
		{0, -1, 0},
	},
	"laplacian_8": {
		{-1, -1, -1},
		{-1, 8, -1},
		{-1, -1, -1},
	},
	"sobel_x": {
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	},
	"sobel_y": {
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	},
	"sharpen": {
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	},
	"gaussian_3x3": Kernel{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}.Scale(1.0 / 16),
}

// Mask returns a copy of the named preset kernel.
func Mask(name string) (Kernel, bool) {
	k, ok := masks[name]
	if !ok {
		return nil, false
	}
	return k.Scale(1), true
}

// MaskNames lists the preset kernel names in lexical order.
func MaskNames() []string {
	names := make([]string, 0, len(masks))
	for name := range masks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
