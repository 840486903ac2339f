package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUScalingUniformSource is the canonical WGSL definition of the ScalingUniform struct.
// Matches GPUScalingUniform layout exactly (64 bytes).
//
//go:embed assets/scaling_uniform.wgsl
var GPUScalingUniformSource string

// GPUScalingUniform is the GPU-aligned representation of the scaling uniform buffer.
// Size: 64 bytes.
type GPUScalingUniform struct {
	ViewProj [16]float32 // offset 0: aspect-preserving scale matrix (mat4x4<f32>)
}

// Size returns the size of the GPUScalingUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUScalingUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUScalingUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUScalingUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	return buf
}
