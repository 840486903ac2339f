package sevensegment

import "testing"

func TestImages(t *testing.T) {
	b, n := Blank, Negative
	tests := []struct {
		val  int
		want [3]Image
	}{
		{0, [3]Image{b, b, Zero}},
		{7, [3]Image{b, b, Seven}},
		{10, [3]Image{b, One, Zero}},
		{99, [3]Image{b, Nine, Nine}},
		{100, [3]Image{One, Zero, Zero}},
		{998, [3]Image{Nine, Nine, Eight}},
		{999, [3]Image{Nine, Nine, Nine}},
		{12345, [3]Image{Nine, Nine, Nine}},
		{-1, [3]Image{b, n, One}},
		{-9, [3]Image{b, n, Nine}},
		{-10, [3]Image{n, One, Zero}},
		{-98, [3]Image{n, Nine, Eight}},
		{-99, [3]Image{n, Nine, Nine}},
		{-500, [3]Image{n, Nine, Nine}},
	}
	for _, tt := range tests {
		if got := Images(tt.val); got != tt.want {
			t.Errorf("Images(%d) = %v, want %v", tt.val, got, tt.want)
		}
	}
}

func TestAtlasOrigin(t *testing.T) {
	tests := []struct {
		img  Image
		x, y int
	}{
		{Zero, 64, 0},
		{Three, 64 + 3*13, 0},
		{Four, 64, 23},
		{Seven, 64 + 3*13, 23},
		{Eight, 64, 46},
		{Nine, 64 + 13, 46},
		{Blank, 64 + 2*13, 46},
		{Negative, 64 + 3*13, 46},
	}
	for _, tt := range tests {
		t.Run(tt.img.String(), func(t *testing.T) {
			if x, y := AtlasOrigin(tt.img); x != tt.x || y != tt.y {
				t.Errorf("AtlasOrigin(%v) = (%d, %d), want (%d, %d)", tt.img, x, y, tt.x, tt.y)
			}
		})
	}
}
