package camera

import (
	"github.com/Carmen-Shannon/oxy-sweeper/engine/renderer/bind_group_provider"
)

type CameraBuilderOption func(*cameraImpl)

// WithAspectRatio sets the content aspect ratio the camera preserves.
// Non-positive values are ignored.
//
// Parameters:
//   - width, height: the content aspect ratio, usually the content size in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspectRatio(width, height float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width > 0 && height > 0 {
			c.aspectWidth = width
			c.aspectHeight = height
		}
	}
}

// WithWindowSize sets the initial window size in pixels.
// Non-positive values are ignored.
//
// Parameters:
//   - width, height: the framebuffer size
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's window size
func WithWindowSize(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width > 0 && height > 0 {
			c.windowWidth = width
			c.windowHeight = height
		}
	}
}

// WithBindGroupProvider attaches a bind group provider to the camera.
// The provider describes the GPU binding requirements for the scaling uniform.
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the bind group provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}
