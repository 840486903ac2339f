package sprite

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sweeper/common"
)

const eps = 1e-6

func approxVec(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !common.ApproxEqual(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

func testCamera() [16]float32 {
	var cam [16]float32
	common.Scale4(cam[:], 0.5, 0.75, 1, 1)
	cam[12] = 0.1
	cam[13] = -0.2
	return cam
}

func TestVertexStageIdentityInstance(t *testing.T) {
	cam := testCamera()
	verts, _ := UnitQuad()
	extra := GPUVertex{Position: [2]float32{-3.5, 2.25}, TexCoords: [2]float32{0.3, 0.7}}

	for _, v := range append(verts, extra) {
		out := VertexStage(cam, v, IdentityInstance())

		want := common.MulVec4(cam[:], [4]float32{v.Position[0], v.Position[1], 0, 1})
		if !approxVec(out.ClipPosition[:], want[:]) {
			t.Errorf("clip for %v = %v, want %v", v.Position, out.ClipPosition, want)
		}
		if out.TexCoords != v.TexCoords {
			t.Errorf("uv for %v = %v, want unchanged", v.TexCoords, out.TexCoords)
		}
	}
}

func TestPlacementMapsOriginToTranslation(t *testing.T) {
	tests := []struct {
		name   string
		tx, ty float32
		sx, sy float32
	}{
		{"unit scale", 0.25, -0.5, 1, 1},
		{"non-uniform scale", -0.9, 0.4, 0.125, 3},
		{"zero scale", 0.3, 0.3, 0, 0},
	}
	var id [16]float32
	common.Identity(id[:])

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := GPUInstance{
				VertexTranslation: [2]float32{tt.tx, tt.ty},
				VertexScale:       [2]float32{tt.sx, tt.sy},
				TexScale:          [2]float32{1, 1},
			}
			out := VertexStage(id, GPUVertex{}, inst)
			want := [4]float32{tt.tx, tt.ty, 0, 1}
			if out.ClipPosition != want {
				t.Fatalf("origin mapped to %v, want %v", out.ClipPosition, want)
			}

			far := VertexStage(id, GPUVertex{Position: [2]float32{1, 1}}, inst)
			wantFar := [4]float32{tt.tx + tt.sx, tt.ty + tt.sy, 0, 1}
			if !approxVec(far.ClipPosition[:], wantFar[:]) {
				t.Fatalf("(1,1) mapped to %v, want %v", far.ClipPosition, wantFar)
			}
		})
	}
}

func TestTexRemapSelectsRightHalf(t *testing.T) {
	inst := GPUInstance{
		VertexScale:    [2]float32{1, 1},
		TexTranslation: [2]float32{0.5, 0},
		TexScale:       [2]float32{0.5, 0.5},
	}
	var id [16]float32
	common.Identity(id[:])

	cases := []struct {
		in, want [2]float32
	}{
		{[2]float32{0, 0}, [2]float32{0.5, 0}},
		{[2]float32{1, 1}, [2]float32{1, 0.5}},
		{[2]float32{0.5, 0.5}, [2]float32{0.75, 0.25}},
	}
	for _, c := range cases {
		out := VertexStage(id, GPUVertex{TexCoords: c.in}, inst)
		if !approxVec(out.TexCoords[:], c.want[:]) {
			t.Errorf("uv %v -> %v, want %v", c.in, out.TexCoords, c.want)
		}
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	cam := testCamera()
	a := GPUInstance{VertexTranslation: [2]float32{-0.5, 0}, VertexScale: [2]float32{0.25, 0.25}, TexScale: [2]float32{1, 1}}
	b := GPUInstance{VertexTranslation: [2]float32{0.5, 0.5}, VertexScale: [2]float32{0.1, 0.2}, TexScale: [2]float32{0.5, 0.5}}
	verts, _ := UnitQuad()

	for _, v := range verts {
		aliceAlone := VertexStage(cam, v, a)
		bobAlone := VertexStage(cam, v, b)

		// interleave evaluations; results must not depend on what else was transformed
		_ = VertexStage(cam, v, b)
		aliceAgain := VertexStage(cam, v, a)
		_ = VertexStage(cam, v, a)
		bobAgain := VertexStage(cam, v, b)

		if aliceAlone != aliceAgain || bobAlone != bobAgain {
			t.Fatalf("vertex %v: transforms interfered", v.Position)
		}
		if aliceAlone.ClipPosition == bobAlone.ClipPosition {
			t.Fatalf("vertex %v: distinct instances landed on the same position", v.Position)
		}
	}
}

func TestUnitQuad(t *testing.T) {
	verts, indices := UnitQuad()
	if len(verts) != 4 || len(indices) != 6 {
		t.Fatalf("got %d vertices and %d indices", len(verts), len(indices))
	}
	for _, v := range verts {
		if v.TexCoords[0] != v.Position[0] || v.TexCoords[1] != 1-v.Position[1] {
			t.Errorf("vertex %v has tex %v, want flipped v", v.Position, v.TexCoords)
		}
	}
	want := []uint32{0, 2, 1, 1, 2, 3}
	for i := range want {
		if indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", indices, want)
		}
	}
}
