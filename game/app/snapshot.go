package app

import (
	"image"

	"github.com/Carmen-Shannon/oxy-sweeper/engine/camera"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/renderer/software"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/sprite"
	xdraw "golang.org/x/image/draw"
)

// Snapshot renders the board on the CPU at its native pixel size, then enlarges it by an integer
// factor with nearest-neighbour scaling so the pixel art stays sharp.
//
// Parameters:
//   - ctrl: the controller whose board is drawn
//   - atlas: the sprite atlas
//   - scale: the enlargement factor, values below 1 mean 1
//
// Returns:
//   - *image.RGBA: a new image the caller owns
func Snapshot(ctrl Controller, atlas *image.RGBA, scale int) *image.RGBA {
	b := ctrl.Board()
	pw, ph := b.PixelSize()

	cam := camera.NewCamera(
		camera.WithAspectRatio(float32(pw), float32(ph)),
		camera.WithWindowSize(pw, ph),
	)

	batch := b.Batch()
	instances := make([]sprite.GPUInstance, batch.Len())
	for i := range instances {
		instances[i] = batch.Instance(i)
	}

	r := software.NewRasterizer(pw, ph)
	verts, idx := sprite.UnitQuad()
	r.Draw(cam.Matrix(), atlas, sprite.Sampler{}, verts, idx, instances)

	scale = max(scale, 1)
	dst := image.NewRGBA(image.Rect(0, 0, pw*scale, ph*scale))
	src := r.Image()
	xdraw.NearestNeighbor.Scale(dst, dst.Rect, src, src.Rect, xdraw.Src, nil)
	return dst
}
