package sprite

import (
	"sync"
)

// batch is the implementation of the Batch interface.
type batch struct {
	mu *sync.Mutex

	label     string
	instances []GPUInstance
	dirty     bool
	visible   bool
}

// Batch is an ordered list of sprite instances drawn with a single instanced draw call.
// Instance order is draw order: later instances are drawn over earlier ones.
// All methods are safe for concurrent use, so game logic may edit instances while the
// render loop snapshots them.
type Batch interface {
	// Label returns the debug label for this batch.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Len returns the number of instances in the batch.
	//
	// Returns:
	//   - int: the instance count
	Len() int

	// Instance returns a copy of the instance at index i.
	//
	// Parameters:
	//   - i: the instance index
	//
	// Returns:
	//   - GPUInstance: the instance data
	Instance(i int) GPUInstance

	// SetInstance replaces the instance at index i and marks the batch dirty.
	//
	// Parameters:
	//   - i: the instance index
	//   - inst: the new instance data
	SetInstance(i int, inst GPUInstance)

	// UpdateInstance applies fn to the instance at index i and marks the batch dirty.
	//
	// Parameters:
	//   - i: the instance index
	//   - fn: mutation applied in place while the batch is locked
	UpdateInstance(i int, fn func(inst *GPUInstance))

	// Append adds an instance to the end of the batch.
	//
	// Parameters:
	//   - inst: the instance to add
	//
	// Returns:
	//   - int: the index the instance was stored at
	Append(inst GPUInstance) int

	// Truncate shrinks the batch to n instances. Larger n is ignored.
	//
	// Parameters:
	//   - n: the new length
	Truncate(n int)

	// Visible reports whether the batch should be drawn.
	Visible() bool

	// SetVisible toggles drawing of the batch without discarding its instances.
	SetVisible(visible bool)

	// Dirty reports whether instances changed since the last Snapshot.
	Dirty() bool

	// Snapshot copies the instances out and clears the dirty flag.
	//
	// Returns:
	//   - []GPUInstance: a copy of the current instances
	Snapshot() []GPUInstance

	// MarkDirty flags the batch for upload on the next frame, e.g. after a failed
	// write of a snapshot.
	MarkDirty()
}

var _ Batch = &batch{}

// NewBatch creates a Batch with the provided options applied.
//
// Parameters:
//   - label: debug label used for GPU buffers created for this batch
//   - options: variadic BatchBuilderOption functions
//
// Returns:
//   - Batch: the new batch, initially dirty and visible
func NewBatch(label string, options ...BatchBuilderOption) Batch {
	b := &batch{
		mu:      &sync.Mutex{},
		label:   label,
		dirty:   true,
		visible: true,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *batch) Label() string {
	return b.label
}

func (b *batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.instances)
}

func (b *batch) Instance(i int) GPUInstance {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.instances[i]
}

func (b *batch) SetInstance(i int, inst GPUInstance) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.instances[i] = inst
	b.dirty = true
}

func (b *batch) UpdateInstance(i int, fn func(inst *GPUInstance)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.instances[i])
	b.dirty = true
}

func (b *batch) Append(inst GPUInstance) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.instances = append(b.instances, inst)
	b.dirty = true
	return len(b.instances) - 1
}

func (b *batch) Truncate(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n < 0 || n >= len(b.instances) {
		return
	}
	b.instances = b.instances[:n]
	b.dirty = true
}

func (b *batch) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

func (b *batch) SetVisible(visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = visible
}

func (b *batch) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

func (b *batch) Snapshot() []GPUInstance {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]GPUInstance, len(b.instances))
	copy(out, b.instances)
	b.dirty = false
	return out
}

func (b *batch) MarkDirty() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirty = true
}
