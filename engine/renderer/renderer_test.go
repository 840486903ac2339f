package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		1: {
			Label: "camera",
			Entries: []wgpu.BindGroupLayoutEntry{
				{Binding: 0, Visibility: wgpu.ShaderStageVertex, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 64}},
			},
		},
		0: {
			Label: "atlas",
			Entries: []wgpu.BindGroupLayoutEntry{
				{Binding: 1, Visibility: wgpu.ShaderStageVertex},
			},
		},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {
			Label: "atlas_fs",
			Entries: []wgpu.BindGroupLayoutEntry{
				{Binding: 1, Visibility: wgpu.ShaderStageFragment},
				{Binding: 0, Visibility: wgpu.ShaderStageFragment},
			},
		},
	}

	merged := MergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 2 {
		t.Fatalf("merged groups = %d, want 2", len(merged))
	}

	camera := merged[1]
	if camera.Label != "camera" || len(camera.Entries) != 1 {
		t.Fatalf("group 1 = %+v, want the vertex-only camera group unchanged", camera)
	}
	if camera.Entries[0].Buffer.MinBindingSize != 64 {
		t.Errorf("camera MinBindingSize = %d, want 64", camera.Entries[0].Buffer.MinBindingSize)
	}

	atlas := merged[0]
	if atlas.Label != "atlas" {
		t.Errorf("group 0 label = %q, want the vertex label", atlas.Label)
	}
	if len(atlas.Entries) != 2 {
		t.Fatalf("group 0 entries = %d, want 2", len(atlas.Entries))
	}
	if atlas.Entries[0].Binding != 0 || atlas.Entries[1].Binding != 1 {
		t.Errorf("group 0 bindings = %d,%d, want sorted 0,1", atlas.Entries[0].Binding, atlas.Entries[1].Binding)
	}
	if atlas.Entries[0].Visibility != wgpu.ShaderStageFragment {
		t.Errorf("binding 0 visibility = %v, want fragment only", atlas.Entries[0].Visibility)
	}
	if want := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment; atlas.Entries[1].Visibility != want {
		t.Errorf("binding 1 visibility = %v, want %v", atlas.Entries[1].Visibility, want)
	}
}

func TestMergeBindGroupLayoutsEmpty(t *testing.T) {
	if merged := MergeBindGroupLayouts(nil, nil); len(merged) != 0 {
		t.Errorf("merged = %v, want empty", merged)
	}
}

func TestGrowInstanceCapacity(t *testing.T) {
	tests := []struct {
		name          string
		current, need int
		want          int
	}{
		{"empty buffer starts at minimum", 0, 1, minInstanceCapacity},
		{"exact fit keeps capacity", 128, 128, 128},
		{"doubles until it fits", 64, 65, 128},
		{"board sized growth", 64, 30*16 + 40, 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := growInstanceCapacity(tt.current, tt.need); got != tt.want {
				t.Errorf("growInstanceCapacity(%d, %d) = %d, want %d", tt.current, tt.need, got, tt.want)
			}
		})
	}
}
