package board

import (
	"errors"
	"image"
	"testing"

	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/game/minesweeper"
	"github.com/Carmen-Shannon/oxy-sweeper/game/sevensegment"
)

var atlasSize = image.Pt(128, 128)

func newTestBoard(t *testing.T, width, height, mines int) *board {
	t.Helper()
	b, err := NewBoard(width, height, mines, atlasSize)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b.(*board)
}

func near(a, b float32) bool { return common.ApproxEqual(a, b, 1e-5) }

func TestPixelSize(t *testing.T) {
	w, h := PixelSize(10, 10)
	if w != 180 || h != 224 {
		t.Errorf("PixelSize(10, 10) = %dx%d, want 180x224", w, h)
	}
	w, h = PixelSize(30, 16)
	if w != 500 || h != 320 {
		t.Errorf("PixelSize(30, 16) = %dx%d, want 500x320", w, h)
	}
}

func TestMinAtlasSize(t *testing.T) {
	if got := MinAtlasSize(); got != image.Pt(116, 102) {
		t.Errorf("MinAtlasSize() = %v, want (116,102)", got)
	}
	if _, err := NewBoard(10, 10, 20, image.Pt(115, 128)); !errors.Is(err, ErrAtlasTooSmall) {
		t.Errorf("NewBoard with narrow atlas error = %v, want ErrAtlasTooSmall", err)
	}
	if _, err := NewBoard(0, 10, 20, atlasSize); err == nil {
		t.Error("NewBoard with zero width succeeded")
	}
}

func TestInstanceLayout(t *testing.T) {
	b := newTestBoard(t, 4, 3, 5)
	batch := b.Batch()
	if got, want := batch.Len(), FirstCellIndex+12; got != want {
		t.Fatalf("instances = %d, want %d", got, want)
	}

	// the frame spans the whole clip square
	topLeft := batch.Instance(0)
	if !near(topLeft.VertexTranslation[0], -1) || !near(topLeft.VertexTranslation[1]+topLeft.VertexScale[1], 1) {
		t.Errorf("top-left frame slice = %+v, want it anchored at (-1, 1)", topLeft)
	}
	bottomRight := batch.Instance(frameSlices - 1)
	if !near(bottomRight.VertexTranslation[0]+bottomRight.VertexScale[0], 1) || !near(bottomRight.VertexTranslation[1], -1) {
		t.Errorf("bottom-right frame slice = %+v, want it anchored at (1, -1)", bottomRight)
	}

	// cell (row 1, col 2) sits one cell up and two across from the bottom-left corner of the grid
	w, h := b.PixelSize()
	cell := batch.Instance(FirstCellIndex + 2 + 1*4)
	wantX := (float32(12+2*16) - float32(w)/2) / (float32(w) / 2)
	wantY := (float32(8+1*16) - float32(h)/2) / (float32(h) / 2)
	if !near(cell.VertexTranslation[0], wantX) || !near(cell.VertexTranslation[1], wantY) {
		t.Errorf("cell translation = %v, want (%v, %v)", cell.VertexTranslation, wantX, wantY)
	}
	if !near(cell.VertexScale[0], 16/(float32(w)/2)) {
		t.Errorf("cell scale = %v", cell.VertexScale)
	}
	if !near(cell.TexTranslation[0], 0) || !near(cell.TexTranslation[1], 48.0/128) {
		t.Errorf("cell starts as %v, want the hidden sprite", cell.TexTranslation)
	}
	if !near(cell.TexScale[0], (16-texInset)/128) {
		t.Errorf("cell tex scale = %v, want inset by %v", cell.TexScale, texInset)
	}
}

func TestDisplaysStartAtMinesAndZero(t *testing.T) {
	b := newTestBoard(t, 10, 10, 20)
	want := [6]sevensegment.Image{
		sevensegment.Blank, sevensegment.Two, sevensegment.Zero,
		sevensegment.Blank, sevensegment.Blank, sevensegment.Zero,
	}
	for i, img := range want {
		x, y := sevensegment.AtlasOrigin(img)
		got := b.Batch().Instance(frameSlices + i).TexTranslation
		if !near(got[0], float32(x)/128) || !near(got[1], float32(y)/128) {
			t.Errorf("digit %d = %v, want %v", i, got, img)
		}
	}
}

func TestSetDisplay(t *testing.T) {
	b := newTestBoard(t, 10, 10, 20)
	b.Batch().Snapshot()
	b.SetDisplay(sevensegment.Timer, 123)

	if !b.Batch().Dirty() {
		t.Fatal("SetDisplay did not dirty the batch")
	}
	for i, img := range []sevensegment.Image{sevensegment.One, sevensegment.Two, sevensegment.Three} {
		x, y := sevensegment.AtlasOrigin(img)
		got := b.Batch().Instance(frameSlices + sevensegment.DigitsPerDisplay + i).TexTranslation
		if !near(got[0], float32(x)/128) || !near(got[1], float32(y)/128) {
			t.Errorf("timer digit %d = %v, want %v", i, got, img)
		}
	}
}

func TestSetCellsAndReset(t *testing.T) {
	b := newTestBoard(t, 5, 5, 3)
	b.SetCells([]minesweeper.Change{
		{Pos: minesweeper.Pos{Row: 0, Col: 0}, Image: minesweeper.Three},
		{Pos: minesweeper.Pos{Row: 4, Col: 4}, Image: minesweeper.Flagged},
		{Pos: minesweeper.Pos{Row: 9, Col: 9}, Image: minesweeper.Mine},
	})

	got := b.Batch().Instance(FirstCellIndex).TexTranslation
	if !near(got[0], 48.0/128) || !near(got[1], 0) {
		t.Errorf("cell (0,0) = %v, want the Three sprite", got)
	}
	got = b.Batch().Instance(FirstCellIndex + 24).TexTranslation
	if !near(got[0], 0) || !near(got[1], 64.0/128) {
		t.Errorf("cell (4,4) = %v, want the Flagged sprite", got)
	}

	b.ResetGrid()
	for i := FirstCellIndex; i < b.Batch().Len(); i++ {
		if got := b.Batch().Instance(i).TexTranslation; !near(got[1], 48.0/128) || got[0] != 0 {
			t.Fatalf("instance %d = %v after ResetGrid, want hidden", i, got)
		}
	}
}

func TestCellAtRoundTrip(t *testing.T) {
	b := newTestBoard(t, 9, 7, 10)
	w, h := b.PixelSize()
	for row := 0; row < 7; row++ {
		for col := 0; col < 9; col++ {
			cx := float32(12+col*16+8)/float32(w)*2 - 1
			cy := float32(8+row*16+8)/float32(h)*2 - 1
			pos, ok := b.CellAt(cx, cy)
			if !ok || pos != (minesweeper.Pos{Row: row, Col: col}) {
				t.Fatalf("CellAt center of (%d,%d) = %v, %v", row, col, pos, ok)
			}
		}
	}
}

func TestCellAtOutsideGrid(t *testing.T) {
	b := newTestBoard(t, 9, 7, 10)
	tests := []struct {
		name string
		x, y float32
	}{
		{"left border", -0.99, 0},
		{"bottom border", 0, -0.99},
		{"display bar", 0, 0.95},
		{"right border", 0.99, 0},
		{"outside the board", 1.5, 0},
		{"far negative", -3, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if pos, ok := b.CellAt(tt.x, tt.y); ok {
				t.Errorf("CellAt(%v, %v) = %v, want outside", tt.x, tt.y, pos)
			}
		})
	}
}

func TestCellAtlasOrigin(t *testing.T) {
	tests := []struct {
		img  minesweeper.CellImage
		x, y int
	}{
		{minesweeper.Zero, 0, 0},
		{minesweeper.Three, 48, 0},
		{minesweeper.Four, 0, 16},
		{minesweeper.Eight, 0, 32},
		{minesweeper.Mine, 16, 32},
		{minesweeper.WronglyFlagged, 32, 32},
		{minesweeper.SelectedMine, 48, 32},
		{minesweeper.Hidden, 0, 48},
		{minesweeper.Flagged, 0, 64},
		{minesweeper.QuestionMarked, 0, 80},
	}
	for _, tt := range tests {
		t.Run(tt.img.String(), func(t *testing.T) {
			if x, y := CellAtlasOrigin(tt.img); x != tt.x || y != tt.y {
				t.Errorf("CellAtlasOrigin(%v) = (%d, %d), want (%d, %d)", tt.img, x, y, tt.x, tt.y)
			}
		})
	}
}
