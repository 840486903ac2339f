package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/renderer/bind_group_provider"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

type cameraImpl struct {
	mu *sync.Mutex

	aspectWidth  float32
	aspectHeight float32

	windowWidth  int
	windowHeight int

	scaleX float32
	scaleY float32

	matrix        [16]float32
	inverseMatrix [16]float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is an aspect-preserving 2D camera. Content authored in clip space for a fixed
// aspect ratio (the game's pixel width by height) is letterboxed into whatever window
// size is current: one axis always spans the full window and the other is shrunk.
type Camera interface {
	// Rescale recomputes the scale factors for a new window size or content aspect ratio.
	// Zero-sized windows (minimized) are ignored and leave the previous scale in place.
	//
	// Parameters:
	//   - windowWidth, windowHeight: the framebuffer size in pixels
	//   - aspectWidth, aspectHeight: the content aspect ratio to preserve
	Rescale(windowWidth, windowHeight int, aspectWidth, aspectHeight float32)

	// Resize recomputes the scale factors for a new window size, keeping the current aspect ratio.
	//
	// Parameters:
	//   - windowWidth, windowHeight: the framebuffer size in pixels
	Resize(windowWidth, windowHeight int)

	// Scale returns the current x and y scale factors. Both lie in (0, 1] and at least one is 1.
	//
	// Returns:
	//   - x, y: the scale factors
	Scale() (x, y float32)

	// Matrix returns diag(x, y, 1, 1) as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the scaling matrix
	Matrix() [16]float32

	// Uniform returns the GPU representation of Matrix.
	//
	// Returns:
	//   - GPUScalingUniform: the uniform data
	Uniform() GPUScalingUniform

	// CursorToClip converts a cursor position in window pixels (origin top-left, y down)
	// into unscaled content clip space (y up), undoing the current scale.
	//
	// Parameters:
	//   - px, py: cursor position in pixels
	//   - width, height: the window size in pixels
	//
	// Returns:
	//   - x, y: the content clip-space position
	CursorToClip(px, py float64, width, height int) (x, y float32)

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider or nil
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the camera's bind group provider.
	//
	// Parameters:
	//   - provider: the bind group provider to set
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera. Without options the camera is square (1:1) in a
// 1x1 window, which yields the identity matrix.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:           &sync.Mutex{},
		aspectWidth:  1,
		aspectHeight: 1,
		windowWidth:  1,
		windowHeight: 1,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Load(), 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrix()
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) Rescale(windowWidth, windowHeight int, aspectWidth, aspectHeight float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspectWidth > 0 && aspectHeight > 0 {
		c.aspectWidth = aspectWidth
		c.aspectHeight = aspectHeight
	}
	if windowWidth > 0 && windowHeight > 0 {
		c.windowWidth = windowWidth
		c.windowHeight = windowHeight
	}
	c.updateMatrix()
}

func (c *cameraImpl) Resize(windowWidth, windowHeight int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if windowWidth <= 0 || windowHeight <= 0 {
		return
	}
	c.windowWidth = windowWidth
	c.windowHeight = windowHeight
	c.updateMatrix()
}

func (c *cameraImpl) Scale() (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scaleX, c.scaleY
}

func (c *cameraImpl) Matrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrix
}

func (c *cameraImpl) Uniform() GPUScalingUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUScalingUniform{ViewProj: c.matrix}
}

func (c *cameraImpl) CursorToClip(px, py float64, width, height int) (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	ndcX := (float32(px)/float32(width) - 0.5) * 2
	ndcY := (float32(py)/float32(height) - 0.5) * -2
	p := common.MulVec4(c.inverseMatrix[:], [4]float32{ndcX, ndcY, 0, 1})
	return p[0], p[1]
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindGroupProvider = provider
}

// updateMatrix recalculates the scale factors, the scaling matrix and its inverse.
// A window too tall for the aspect ratio fills x and shrinks y; otherwise it fills y and shrinks x.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrix() {
	ratio := (float32(c.windowWidth) * c.aspectHeight) / (float32(c.windowHeight) * c.aspectWidth)
	if ratio <= 1 {
		c.scaleX = 1
		c.scaleY = ratio
	} else {
		c.scaleX = 1 / ratio
		c.scaleY = 1
	}
	common.Scale4(c.matrix[:], c.scaleX, c.scaleY, 1, 1)
	common.Invert4(c.inverseMatrix[:], c.matrix[:])
}
