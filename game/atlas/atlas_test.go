package atlas

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-sweeper/game/board"
	"github.com/Carmen-Shannon/oxy-sweeper/game/minesweeper"
	"github.com/Carmen-Shannon/oxy-sweeper/game/sevensegment"
)

func TestGenerateLayout(t *testing.T) {
	img := Generate()
	if img.Rect != image.Rect(0, 0, Size, Size) {
		t.Fatalf("atlas bounds = %v, want %dx%d", img.Rect, Size, Size)
	}
	if need := board.MinAtlasSize(); Size < need.X || Size < need.Y {
		t.Fatalf("atlas size %d smaller than the board needs (%v)", Size, need)
	}

	hx, hy := board.CellAtlasOrigin(minesweeper.Hidden)
	zx, zy := board.CellAtlasOrigin(minesweeper.Zero)
	sx, sy := board.CellAtlasOrigin(minesweeper.SelectedMine)
	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"hidden bevel highlight", hx, hy, highlight},
		{"hidden bevel shadow", hx + 15, hy + 15, shadow},
		{"hidden face", hx + 8, hy + 8, face},
		{"zero face", zx + 8, zy + 8, face},
		{"zero edge", zx, zy + 8, shadow},
		{"selected mine background", sx + 15, sy + 15, red},
		{"selected mine body", sx + 8, sy + 10, black},
		{"frame corner", board.FrameAtlasX, board.FrameAtlasY, highlight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestNumbersUseClassicColors(t *testing.T) {
	img := Generate()
	for n := 1; n <= 8; n++ {
		x, y := board.CellAtlasOrigin(minesweeper.NumberImage(n))
		found := false
		for py := y; py < y+board.CellSize && !found; py++ {
			for px := x; px < x+board.CellSize; px++ {
				if img.RGBAAt(px, py) == numberColors[n] {
					found = true
					break
				}
			}
		}
		if !found {
			t.Errorf("tile %d has no %v pixels", n, numberColors[n])
		}
	}
}

func TestSevenSegmentDigits(t *testing.T) {
	img := Generate()
	middle := func(d sevensegment.Image) (int, int) {
		x, y := sevensegment.AtlasOrigin(d)
		return x + sevensegment.DigitWidth/2, y + sevensegment.DigitHeight/2
	}
	top := func(d sevensegment.Image) (int, int) {
		x, y := sevensegment.AtlasOrigin(d)
		return x + sevensegment.DigitWidth/2, y + 1
	}

	tests := []struct {
		name  string
		d     sevensegment.Image
		at    func(sevensegment.Image) (int, int)
		isLit bool
	}{
		{"eight middle", sevensegment.Eight, middle, true},
		{"zero middle", sevensegment.Zero, middle, false},
		{"zero top", sevensegment.Zero, top, true},
		{"negative middle", sevensegment.Negative, middle, true},
		{"negative top", sevensegment.Negative, top, false},
		{"blank middle", sevensegment.Blank, middle, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.at(tt.d)
			want := segmentOff
			if tt.isLit {
				want = segmentOn
			}
			if got := img.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		})
	}
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atlas.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRoundTrip(t *testing.T) {
	want := Generate()
	got, err := Load(writePNG(t, want))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Rect != want.Rect {
		t.Fatalf("bounds = %v, want %v", got.Rect, want.Rect)
	}
	for i := range want.Pix {
		if got.Pix[i] != want.Pix[i] {
			t.Fatalf("byte %d = %d, want %d", i, got.Pix[i], want.Pix[i])
		}
	}
}

func TestLoadRejectsSmallAtlas(t *testing.T) {
	_, err := Load(writePNG(t, image.NewRGBA(image.Rect(0, 0, 64, 64))))
	if !errors.Is(err, board.ErrAtlasTooSmall) {
		t.Fatalf("Load error = %v, want ErrAtlasTooSmall", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}
