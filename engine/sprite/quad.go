package sprite

// UnitQuad returns the four corners of the unit square and the two triangles that cover it.
// Texture coordinates are flipped vertically so that image row 0 lands at the top of the quad.
//
// Returns:
//   - []GPUVertex: the four vertices
//   - []uint32: six indices forming two triangles
func UnitQuad() ([]GPUVertex, []uint32) {
	vertices := []GPUVertex{
		{Position: [2]float32{0, 0}, TexCoords: [2]float32{0, 1}},
		{Position: [2]float32{0, 1}, TexCoords: [2]float32{0, 0}},
		{Position: [2]float32{1, 0}, TexCoords: [2]float32{1, 1}},
		{Position: [2]float32{1, 1}, TexCoords: [2]float32{1, 0}},
	}
	indices := []uint32{0, 2, 1, 1, 2, 3}
	return vertices, indices
}
