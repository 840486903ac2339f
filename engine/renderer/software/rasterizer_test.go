package software

import (
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/sprite"
)

var (
	black = color.RGBA{A: 255}
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

func identity() [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

// fullScreen places the unit quad over the whole clip square.
func fullScreen() sprite.GPUInstance {
	inst := sprite.IdentityInstance()
	inst.VertexTranslation = [2]float32{-1, -1}
	inst.VertexScale = [2]float32{2, 2}
	return inst
}

func TestDrawIdentityInstanceCoversUpperRightQuadrant(t *testing.T) {
	r := NewRasterizer(4, 4, WithWorkers(2), WithBandHeight(1))
	verts, idx := sprite.UnitQuad()
	r.Draw(identity(), solid(red), sprite.Sampler{}, verts, idx, []sprite.GPUInstance{sprite.IdentityInstance()})

	img := r.Image()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := black
			if x >= 2 && y < 2 {
				want = red
			}
			if got := img.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawKeepsImageUpright(t *testing.T) {
	tex := image.NewRGBA(image.Rect(0, 0, 1, 2))
	tex.SetRGBA(0, 0, red)
	tex.SetRGBA(0, 1, blue)

	r := NewRasterizer(2, 4)
	verts, idx := sprite.UnitQuad()
	r.Draw(identity(), tex, sprite.Sampler{}, verts, idx, []sprite.GPUInstance{fullScreen()})

	img := r.Image()
	if got := img.RGBAAt(0, 0); got != red {
		t.Errorf("top row = %v, want texture row 0 (red)", got)
	}
	if got := img.RGBAAt(1, 3); got != blue {
		t.Errorf("bottom row = %v, want texture row 1 (blue)", got)
	}
}

func TestDrawLaterInstancesReplaceEarlier(t *testing.T) {
	atlas := image.NewRGBA(image.Rect(0, 0, 2, 1))
	atlas.SetRGBA(0, 0, red)
	atlas.SetRGBA(1, 0, blue)

	left := fullScreen()
	left.TexScale = [2]float32{0.5, 1}

	right := fullScreen()
	right.VertexTranslation = [2]float32{0, -1}
	right.VertexScale = [2]float32{1, 2}
	right.TexTranslation = [2]float32{0.5, 0}
	right.TexScale = [2]float32{0.5, 1}

	r := NewRasterizer(8, 8, WithBandHeight(3))
	verts, idx := sprite.UnitQuad()
	r.Draw(identity(), atlas, sprite.Sampler{}, verts, idx, []sprite.GPUInstance{left, right})

	img := r.Image()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := red
			if x >= 4 {
				want = blue
			}
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawZeroScaleEmitsNothing(t *testing.T) {
	r := NewRasterizer(4, 4, WithClearColor(white))
	verts, idx := sprite.UnitQuad()
	inst := sprite.IdentityInstance()
	inst.VertexScale = [2]float32{0, 0}
	r.Draw(identity(), solid(red), sprite.Sampler{}, verts, idx, []sprite.GPUInstance{inst})

	img := r.Image()
	for i := 0; i < len(img.Pix); i += 4 {
		if got := (color.RGBA{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}); got != white {
			t.Fatalf("pixel %d = %v, want clear color", i/4, got)
		}
	}
}

func TestDrawAppliesCamera(t *testing.T) {
	// halving x squeezes the full-screen quad into the middle columns
	var cam [16]float32
	common.Scale4(cam[:], 0.5, 1, 1, 1)
	r := NewRasterizer(8, 2)
	verts, idx := sprite.UnitQuad()
	r.Draw(cam, solid(green), sprite.Sampler{}, verts, idx, []sprite.GPUInstance{fullScreen()})

	img := r.Image()
	for x := 0; x < 8; x++ {
		want := black
		if x >= 2 && x < 6 {
			want = green
		}
		if got := img.RGBAAt(x, 1); got != want {
			t.Errorf("column %d = %v, want %v", x, got, want)
		}
	}
}

func TestSharedEdgesCoverEachPixelOnce(t *testing.T) {
	const w, h = 13, 7
	verts, idx := sprite.UnitQuad()
	// two quads meeting at x = 0, which lands on the pixel centers of column 6
	a := sprite.IdentityInstance()
	a.VertexTranslation = [2]float32{-1, -1}
	a.VertexScale = [2]float32{1, 2}
	b := sprite.IdentityInstance()
	b.VertexTranslation = [2]float32{0, -1}
	b.VertexScale = [2]float32{1, 2}

	tris := assemble(identity(), verts, idx, []sprite.GPUInstance{a, b}, w, h)
	if len(tris) != 4 {
		t.Fatalf("assembled %d triangles, want 4", len(tris))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			hits := 0
			for _, tri := range tris {
				inside := true
				for _, e := range tri.edges {
					if !e.covers(e.eval(px, py)) {
						inside = false
						break
					}
				}
				if inside {
					hits++
				}
			}
			if hits != 1 {
				t.Errorf("pixel (%d,%d) covered %d times, want 1", x, y, hits)
			}
		}
	}
}

func TestResizeClears(t *testing.T) {
	r := NewRasterizer(2, 2, WithClearColor(blue))
	verts, idx := sprite.UnitQuad()
	r.Draw(identity(), solid(red), sprite.Sampler{}, verts, idx, []sprite.GPUInstance{fullScreen()})
	r.Resize(3, 0)

	img := r.Image()
	if img.Rect.Dx() != 3 || img.Rect.Dy() != 1 {
		t.Fatalf("size = %v, want 3x1", img.Rect)
	}
	if got := img.RGBAAt(2, 0); got != blue {
		t.Errorf("pixel = %v, want clear color", got)
	}
}
