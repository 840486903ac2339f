package sprite

// BatchBuilderOption is a functional option applied to a batch during construction via NewBatch.
type BatchBuilderOption func(*batch)

// WithInstances seeds the batch with a copy of the given instances.
//
// Parameters:
//   - instances: the initial instances in draw order
//
// Returns:
//   - BatchBuilderOption: a function that applies the option to a batch
func WithInstances(instances []GPUInstance) BatchBuilderOption {
	return func(b *batch) {
		b.instances = append(b.instances[:0], instances...)
	}
}

// WithCapacity preallocates room for n instances.
//
// Parameters:
//   - n: the expected instance count
//
// Returns:
//   - BatchBuilderOption: a function that applies the option to a batch
func WithCapacity(n int) BatchBuilderOption {
	return func(b *batch) {
		if cap(b.instances) < n {
			grown := make([]GPUInstance, len(b.instances), n)
			copy(grown, b.instances)
			b.instances = grown
		}
	}
}

// WithVisible sets the initial visibility of the batch.
func WithVisible(visible bool) BatchBuilderOption {
	return func(b *batch) {
		b.visible = visible
	}
}
