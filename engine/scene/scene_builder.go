package scene

import (
	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/sprite"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithBatches adds initial batches to the scene in draw order.
//
// Parameters:
//   - batches: the batches to draw
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBatches(batches ...sprite.Batch) SceneBuilderOption {
	return func(s *scene) {
		for _, b := range batches {
			if _, exists := s.batchBGPs[b]; exists {
				continue
			}
			s.batches = append(s.batches, b)
			s.batchBGPs[b] = newBatchProvider(s.name, b)
		}
	}
}

// WithWorkers sets the number of worker goroutines used to marshal dirty batches
// during PrepareFrame. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithShaderSource replaces the built-in sprite shader. The source must declare the
// atlas group 0 and camera group 1 the way the built-in shader does.
//
// Parameters:
//   - source: the annotated WGSL source
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShaderSource(source string) SceneBuilderOption {
	return func(s *scene) {
		s.source = source
	}
}

// WithSampler sets the sampler used for the atlas. Defaults to nearest filtering with clamped addressing.
func WithSampler(sampler common.SamplerStagingData) SceneBuilderOption {
	return func(s *scene) {
		s.sampler = sampler
	}
}

// WithStrictShaderValidation makes Init fail when the shader does not pass offline validation.
// Without it a validation failure is logged and the driver gets the final say.
func WithStrictShaderValidation(strict bool) SceneBuilderOption {
	return func(s *scene) {
		s.strictValidation = strict
	}
}
