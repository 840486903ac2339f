package sprite

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFragmentStageSolidColor(t *testing.T) {
	want := color.RGBA{R: 12, G: 200, B: 77, A: 255}
	tex := solid(7, 5, want)
	samplers := map[string]Sampler{
		"nearest clamp":  {},
		"linear clamp":   {Filter: FilterLinear},
		"nearest repeat": {AddressU: AddressRepeat, AddressV: AddressRepeat},
		"linear repeat":  {Filter: FilterLinear, AddressU: AddressRepeat, AddressV: AddressRepeat},
	}
	coords := [][2]float32{{0, 0}, {1, 1}, {0.5, 0.5}, {0.013, 0.987}, {-0.4, 1.7}, {3.25, -2.5}}

	for name, s := range samplers {
		t.Run(name, func(t *testing.T) {
			for _, uv := range coords {
				if got := FragmentStage(tex, s, uv); got != want {
					t.Fatalf("sample at %v = %v, want %v", uv, got, want)
				}
			}
		})
	}
}

func TestNearestSamplerSelectsTexel(t *testing.T) {
	left := color.RGBA{R: 255, A: 255}
	right := color.RGBA{B: 255, A: 255}
	tex := image.NewRGBA(image.Rect(0, 0, 2, 1))
	tex.SetRGBA(0, 0, left)
	tex.SetRGBA(1, 0, right)

	s := Sampler{}
	if got := s.Sample(tex, 0.25, 0.5); got != left {
		t.Errorf("u=0.25 -> %v, want left texel", got)
	}
	if got := s.Sample(tex, 0.75, 0.5); got != right {
		t.Errorf("u=0.75 -> %v, want right texel", got)
	}
	if got := s.Sample(tex, 1.0, 0.5); got != right {
		t.Errorf("u=1.0 clamps -> %v, want right texel", got)
	}

	wrap := Sampler{AddressU: AddressRepeat}
	if got := wrap.Sample(tex, 1.25, 0.5); got != left {
		t.Errorf("repeat u=1.25 -> %v, want left texel", got)
	}
}

func TestLinearSamplerBlends(t *testing.T) {
	tex := image.NewRGBA(image.Rect(0, 0, 2, 1))
	tex.SetRGBA(0, 0, color.RGBA{R: 0, A: 255})
	tex.SetRGBA(1, 0, color.RGBA{R: 200, A: 255})

	got := Sampler{Filter: FilterLinear}.Sample(tex, 0.5, 0.5)
	if got.R != 100 || got.A != 255 {
		t.Fatalf("midpoint = %v, want R=100", got)
	}
}

func TestSampleRespectsSubImageOrigin(t *testing.T) {
	base := solid(4, 4, color.RGBA{A: 255})
	base.SetRGBA(2, 2, color.RGBA{G: 255, A: 255})
	sub := base.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)

	if got := (Sampler{}).Sample(sub, 0, 0); got.G != 255 {
		t.Fatalf("sub-image origin sample = %v, want green", got)
	}
}
