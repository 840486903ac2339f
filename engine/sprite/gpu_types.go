package sprite

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches GPUVertex layout exactly (16 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUInstanceSource is the canonical WGSL definition of the InstanceInput struct.
// Matches GPUInstance layout exactly (32 bytes, locations 5 through 8).
//
//go:embed assets/instance.wgsl
var GPUInstanceSource string

// ShaderSource is the sprite vertex/fragment shader pair, still carrying its @oxy annotations.
//
//go:embed assets/sprite.wgsl
var ShaderSource string

// GPUVertex is one corner of the sprite mesh.
// Size: 16 bytes.
type GPUVertex struct {
	Position  [2]float32 // offset 0: local-space position (location 0)
	TexCoords [2]float32 // offset 8: texture coordinate before remapping (location 1)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	putVec2(buf[0:], g.Position)
	putVec2(buf[8:], g.TexCoords)
	return buf
}

// GPUInstance is the per-sprite data consumed at vertex locations 5 to 8.
// The first pair places the quad, the second pair selects the atlas sub-rectangle.
// Size: 32 bytes.
type GPUInstance struct {
	VertexTranslation [2]float32 // offset  0: location 5
	VertexScale       [2]float32 // offset  8: location 6
	TexTranslation    [2]float32 // offset 16: location 7
	TexScale          [2]float32 // offset 24: location 8
}

// IdentityInstance returns an instance that leaves both position and texture coordinates unchanged.
//
// Returns:
//   - GPUInstance: unit scale and zero translation for geometry and texture
func IdentityInstance() GPUInstance {
	return GPUInstance{
		VertexScale: [2]float32{1, 1},
		TexScale:    [2]float32{1, 1},
	}
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstance into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo serializes the GPUInstance into buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: destination buffer
func (g *GPUInstance) MarshalTo(buf []byte) {
	putVec2(buf[0:], g.VertexTranslation)
	putVec2(buf[8:], g.VertexScale)
	putVec2(buf[16:], g.TexTranslation)
	putVec2(buf[24:], g.TexScale)
}

// MarshalVertices serializes a vertex slice back to back.
func MarshalVertices(vs []GPUVertex) []byte {
	out := make([]byte, 0, len(vs)*16)
	for i := range vs {
		out = append(out, vs[i].Marshal()...)
	}
	return out
}

// MarshalInstances serializes an instance slice into the slot 1 buffer layout, 32 bytes per instance.
func MarshalInstances(instances []GPUInstance) []byte {
	const stride = 32
	out := make([]byte, len(instances)*stride)
	for i := range instances {
		instances[i].MarshalTo(out[i*stride:])
	}
	return out
}

// MarshalIndices serializes indices as little-endian uint32 values.
func MarshalIndices(indices []uint32) []byte {
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out
}

func putVec2(buf []byte, v [2]float32) {
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v[1]))
}
