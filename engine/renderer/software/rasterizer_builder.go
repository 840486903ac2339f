package software

import "image/color"

// RasterizerBuilderOption is a functional option applied to a rasterizer during construction via NewRasterizer.
type RasterizerBuilderOption func(*rasterizer)

// WithWorkers sets how many pool workers rasterize bands concurrently.
// Defaults to runtime.NumCPU()-1, minimum 1.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - RasterizerBuilderOption: option function to apply
func WithWorkers(n int) RasterizerBuilderOption {
	return func(r *rasterizer) {
		r.workers = max(n, 1)
	}
}

// WithBandHeight sets the number of rows each rasterization task owns.
//
// Parameters:
//   - rows: rows per band, minimum 1
//
// Returns:
//   - RasterizerBuilderOption: option function to apply
func WithBandHeight(rows int) RasterizerBuilderOption {
	return func(r *rasterizer) {
		r.bandHeight = max(rows, 1)
	}
}

// WithClearColor sets the color Clear and Resize fill the framebuffer with. Defaults to opaque black.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RasterizerBuilderOption: option function to apply
func WithClearColor(c color.RGBA) RasterizerBuilderOption {
	return func(r *rasterizer) {
		r.clearColor = c
	}
}
