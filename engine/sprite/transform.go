package sprite

import "github.com/Carmen-Shannon/oxy-sweeper/common"

// VertexOutput is what the vertex stage hands to the rasterizer: a clip-space position
// and the remapped texture coordinate that gets interpolated across the triangle.
type VertexOutput struct {
	ClipPosition [4]float32
	TexCoords    [2]float32
}

// PlacementMatrix builds the column-major scale-then-translate matrix that positions an instance's quad.
//
// Parameters:
//   - inst: the instance supplying VertexTranslation and VertexScale
//
// Returns:
//   - [16]float32: the placement matrix (z = 0, w = 1)
func PlacementMatrix(inst GPUInstance) [16]float32 {
	var m [16]float32
	common.ScaleTranslate2D(m[:], inst.VertexTranslation[0], inst.VertexTranslation[1], inst.VertexScale[0], inst.VertexScale[1])
	return m
}

// TexRemapMatrix builds the matrix that maps the quad's [0,1] texture coordinates onto an atlas sub-rectangle.
//
// Parameters:
//   - inst: the instance supplying TexTranslation and TexScale
//
// Returns:
//   - [16]float32: the texture remap matrix
func TexRemapMatrix(inst GPUInstance) [16]float32 {
	var m [16]float32
	common.ScaleTranslate2D(m[:], inst.TexTranslation[0], inst.TexTranslation[1], inst.TexScale[0], inst.TexScale[1])
	return m
}

// VertexStage is the CPU rendition of vs_main in sprite.wgsl.
// clip = camera * placement * (pos, 0, 1) and uv = (remap * (uv, 0, 1)).xy with no divide.
//
// Parameters:
//   - camera: the scaling/camera matrix bound at group 1
//   - v: the mesh vertex
//   - inst: the per-instance data
//
// Returns:
//   - VertexOutput: clip position and remapped texture coordinate
func VertexStage(camera [16]float32, v GPUVertex, inst GPUInstance) VertexOutput {
	placement := PlacementMatrix(inst)
	remap := TexRemapMatrix(inst)

	var mvp [16]float32
	common.Mul4(mvp[:], camera[:], placement[:])

	clip := common.MulVec4(mvp[:], [4]float32{v.Position[0], v.Position[1], 0, 1})
	uv := common.MulVec4(remap[:], [4]float32{v.TexCoords[0], v.TexCoords[1], 0, 1})

	return VertexOutput{
		ClipPosition: clip,
		TexCoords:    [2]float32{uv[0], uv[1]},
	}
}
