package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sweeper/common"
)

func TestRescale(t *testing.T) {
	tests := []struct {
		name         string
		winW, winH   int
		aspW, aspH   float32
		wantX, wantY float32
	}{
		{"exact fit", 200, 100, 2, 1, 1, 1},
		{"too tall", 100, 200, 1, 1, 1, 0.5},
		{"too wide", 400, 100, 1, 1, 0.25, 1},
		{"board aspect", 360, 448, 180, 224, 1, 1},
		{"board in wide window", 800, 448, 180, 224, 0.45, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			c.Rescale(tt.winW, tt.winH, tt.aspW, tt.aspH)
			x, y := c.Scale()
			if !common.ApproxEqual(x, tt.wantX, 1e-5) || !common.ApproxEqual(y, tt.wantY, 1e-5) {
				t.Fatalf("Scale() = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
			m := c.Matrix()
			if m[0] != x || m[5] != y || m[10] != 1 || m[15] != 1 {
				t.Fatalf("Matrix() diagonal = %v %v %v %v", m[0], m[5], m[10], m[15])
			}
		})
	}
}

func TestRescaleIgnoresMinimizedWindow(t *testing.T) {
	c := NewCamera(WithAspectRatio(1, 1), WithWindowSize(100, 200))
	c.Resize(0, 0)
	if x, y := c.Scale(); x != 1 || y != 0.5 {
		t.Fatalf("Scale() after zero resize = (%v, %v), want (1, 0.5)", x, y)
	}
}

func TestDefaultCameraIsIdentity(t *testing.T) {
	c := NewCamera()
	var id [16]float32
	common.Identity(id[:])
	if c.Matrix() != id {
		t.Fatalf("Matrix() = %v, want identity", c.Matrix())
	}
}

func TestCursorToClip(t *testing.T) {
	c := NewCamera(WithAspectRatio(1, 1), WithWindowSize(100, 200))

	cases := []struct {
		px, py       float64
		wantX, wantY float32
	}{
		{50, 100, 0, 0},
		{0, 0, -1, 2},
		{100, 200, 1, -2},
		{75, 150, 0.5, -1},
	}
	for _, cc := range cases {
		x, y := c.CursorToClip(cc.px, cc.py, 100, 200)
		if !common.ApproxEqual(x, cc.wantX, 1e-5) || !common.ApproxEqual(y, cc.wantY, 1e-5) {
			t.Errorf("CursorToClip(%v, %v) = (%v, %v), want (%v, %v)", cc.px, cc.py, x, y, cc.wantX, cc.wantY)
		}
	}
}

func TestCursorToClipRoundTrip(t *testing.T) {
	c := NewCamera(WithAspectRatio(180, 224), WithWindowSize(640, 300))
	m := c.Matrix()
	x, y := c.CursorToClip(400, 90, 640, 300)

	// scaling the content point back must land on the cursor's NDC
	ndc := common.MulVec4(m[:], [4]float32{x, y, 0, 1})
	wantX := float32(400.0/640.0-0.5) * 2
	wantY := float32(90.0/300.0-0.5) * -2
	if !common.ApproxEqual(ndc[0], wantX, 1e-5) || !common.ApproxEqual(ndc[1], wantY, 1e-5) {
		t.Fatalf("round trip = (%v, %v), want (%v, %v)", ndc[0], ndc[1], wantX, wantY)
	}
}

func TestUniformMarshal(t *testing.T) {
	c := NewCamera(WithWindowSize(100, 200))
	u := c.Uniform()
	if u.Size() != 64 {
		t.Fatalf("Size() = %d, want 64", u.Size())
	}
	if len(u.Marshal()) != 64 {
		t.Fatalf("Marshal() length = %d, want 64", len(u.Marshal()))
	}
}

func TestBindGroupProviderNamesAreUnique(t *testing.T) {
	a := NewCamera()
	b := NewCamera()
	if a.BindGroupProvider().Label() == b.BindGroupProvider().Label() {
		t.Fatalf("two cameras share provider label %q", a.BindGroupProvider().Label())
	}
}
