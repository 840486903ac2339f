package sprite

import (
	"encoding/binary"
	"math"
	"sync"
	"testing"
)

func TestGPUTypeSizes(t *testing.T) {
	var v GPUVertex
	var inst GPUInstance
	if v.Size() != 16 {
		t.Errorf("GPUVertex size = %d, want 16", v.Size())
	}
	if inst.Size() != 32 {
		t.Errorf("GPUInstance size = %d, want 32", inst.Size())
	}
}

func TestGPUInstanceMarshalLayout(t *testing.T) {
	inst := GPUInstance{
		VertexTranslation: [2]float32{1, 2},
		VertexScale:       [2]float32{3, 4},
		TexTranslation:    [2]float32{5, 6},
		TexScale:          [2]float32{7, 8},
	}
	buf := inst.Marshal()
	for i := 0; i < 8; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != float32(i+1) {
			t.Fatalf("float %d = %v, want %v", i, got, i+1)
		}
	}
}

func TestMarshalMesh(t *testing.T) {
	verts, indices := UnitQuad()
	vb := MarshalVertices(verts)
	ib := MarshalIndices(indices)
	if len(vb) != 64 || len(ib) != 24 {
		t.Fatalf("vertex bytes %d, index bytes %d", len(vb), len(ib))
	}
	// vertex 3 tex coord u at offset 3*16+8
	if u := math.Float32frombits(binary.LittleEndian.Uint32(vb[56:])); u != 1 {
		t.Fatalf("vertex 3 u = %v", u)
	}
	if idx := binary.LittleEndian.Uint32(ib[20:]); idx != 3 {
		t.Fatalf("last index = %d", idx)
	}
}

func TestBatchDirtyTracking(t *testing.T) {
	b := NewBatch("cells", WithInstances([]GPUInstance{IdentityInstance(), IdentityInstance()}), WithCapacity(8))
	if !b.Dirty() {
		t.Fatal("new batch should be dirty")
	}
	if got := b.Snapshot(); len(got) != 2 {
		t.Fatalf("snapshot len = %d", len(got))
	}
	if b.Dirty() {
		t.Fatal("snapshot should clear dirty flag")
	}

	b.UpdateInstance(1, func(inst *GPUInstance) { inst.TexTranslation = [2]float32{0.5, 0.25} })
	if !b.Dirty() {
		t.Fatal("update should mark dirty")
	}
	if got := b.Instance(1).TexTranslation; got != [2]float32{0.5, 0.25} {
		t.Fatalf("instance 1 tex translation = %v", got)
	}

	idx := b.Append(GPUInstance{})
	if idx != 2 || b.Len() != 3 {
		t.Fatalf("append index %d len %d", idx, b.Len())
	}
	b.Truncate(1)
	if b.Len() != 1 {
		t.Fatalf("len after truncate = %d", b.Len())
	}
	b.Truncate(5)
	if b.Len() != 1 {
		t.Fatal("truncate to larger length should be ignored")
	}
}

func TestBatchMarkDirty(t *testing.T) {
	b := NewBatch("retry", WithInstances([]GPUInstance{IdentityInstance()}))
	_ = b.Snapshot()
	b.MarkDirty()
	if !b.Dirty() {
		t.Fatal("MarkDirty should set the dirty flag")
	}
	if got := b.Snapshot(); len(got) != 1 {
		t.Fatalf("snapshot len = %d", len(got))
	}
	if b.Dirty() {
		t.Fatal("snapshot should clear the flag set by MarkDirty")
	}
}

func TestBatchSnapshotIsCopy(t *testing.T) {
	b := NewBatch("copy", WithInstances([]GPUInstance{IdentityInstance()}))
	snap := b.Snapshot()
	snap[0].VertexScale = [2]float32{9, 9}
	if b.Instance(0).VertexScale != [2]float32{1, 1} {
		t.Fatal("mutating snapshot changed the batch")
	}
}

func TestBatchConcurrentWriters(t *testing.T) {
	const n = 64
	b := NewBatch("race", WithInstances(make([]GPUInstance, n)))
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.SetInstance(i, GPUInstance{VertexTranslation: [2]float32{float32(i), 0}})
			_ = b.Snapshot()
		}(i)
	}
	wg.Wait()
	for i := 0; i < n; i++ {
		if b.Instance(i).VertexTranslation[0] != float32(i) {
			t.Fatalf("instance %d lost its write", i)
		}
	}
}
