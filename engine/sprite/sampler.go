package sprite

import (
	"image"
	"image/color"
	"math"
)

// FilterMode selects how texels are combined when sampling.
type FilterMode int

const (
	// FilterNearest returns the single texel containing the coordinate.
	FilterNearest FilterMode = iota
	// FilterLinear blends the four texels around the coordinate.
	FilterLinear
)

// AddressMode decides what a coordinate outside [0, 1] reads.
type AddressMode int

const (
	// AddressClampToEdge repeats the border texel.
	AddressClampToEdge AddressMode = iota
	// AddressRepeat wraps the coordinate around.
	AddressRepeat
)

// Sampler mirrors the subset of a GPU sampler the sprite pipeline uses.
// The zero value is nearest filtering with clamp-to-edge addressing, which is what the atlas is bound with.
type Sampler struct {
	Filter   FilterMode
	AddressU AddressMode
	AddressV AddressMode
}

// FragmentStage is the CPU rendition of fs_main in sprite.wgsl: a single texture sample, returned unmodified.
//
// Parameters:
//   - tex: the diffuse texture bound at group 0 binding 0
//   - s: the sampler bound at group 0 binding 1
//   - uv: the interpolated texture coordinate
//
// Returns:
//   - color.RGBA: the sampled color
func FragmentStage(tex *image.RGBA, s Sampler, uv [2]float32) color.RGBA {
	return s.Sample(tex, uv[0], uv[1])
}

// Sample reads tex at normalized coordinates (u, v), v pointing down the image rows.
//
// Parameters:
//   - tex: the texture to read
//   - u, v: normalized texture coordinates
//
// Returns:
//   - color.RGBA: the filtered texel value
func (s Sampler) Sample(tex *image.RGBA, u, v float32) color.RGBA {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return color.RGBA{}
	}

	if s.Filter == FilterNearest {
		x := address(int(math.Floor(float64(u)*float64(w))), w, s.AddressU)
		y := address(int(math.Floor(float64(v)*float64(h))), h, s.AddressV)
		return texel(tex, x, y)
	}

	fx := float64(u)*float64(w) - 0.5
	fy := float64(v)*float64(h) - 0.5
	x0f := math.Floor(fx)
	y0f := math.Floor(fy)
	dx := fx - x0f
	dy := fy - y0f

	x0 := address(int(x0f), w, s.AddressU)
	x1 := address(int(x0f)+1, w, s.AddressU)
	y0 := address(int(y0f), h, s.AddressV)
	y1 := address(int(y0f)+1, h, s.AddressV)

	c00 := texel(tex, x0, y0)
	c10 := texel(tex, x1, y0)
	c01 := texel(tex, x0, y1)
	c11 := texel(tex, x1, y1)

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	blend := func(a, b, c, d uint8) uint8 {
		f := float64(a)*w00 + float64(b)*w10 + float64(c)*w01 + float64(d)*w11
		return uint8(math.Min(255, f+0.5))
	}

	return color.RGBA{
		R: blend(c00.R, c10.R, c01.R, c11.R),
		G: blend(c00.G, c10.G, c01.G, c11.G),
		B: blend(c00.B, c10.B, c01.B, c11.B),
		A: blend(c00.A, c10.A, c01.A, c11.A),
	}
}

// address maps an integer texel coordinate into [0, n) according to mode.
func address(i, n int, mode AddressMode) int {
	switch mode {
	case AddressRepeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	default:
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
}

func texel(tex *image.RGBA, x, y int) color.RGBA {
	off := tex.PixOffset(tex.Rect.Min.X+x, tex.Rect.Min.Y+y)
	p := tex.Pix[off : off+4 : off+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}
