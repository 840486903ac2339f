package app

import (
	"image"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/game/board"
	"github.com/Carmen-Shannon/oxy-sweeper/game/minesweeper"
	"github.com/Carmen-Shannon/oxy-sweeper/game/sevensegment"
)

const atlasSide = 128

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestController uses a dense minefield so a single click never wins outright.
func newTestController(t *testing.T) (Controller, *fakeClock) {
	t.Helper()
	g, err := minesweeper.New(10, 10, 60, minesweeper.WithRand(rand.New(rand.NewPCG(4, 2))))
	if err != nil {
		t.Fatal(err)
	}
	b, err := board.NewBoard(10, 10, 60, image.Pt(atlasSide, atlasSide))
	if err != nil {
		t.Fatal(err)
	}
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	return NewController(g, b, WithClock(clock.now)), clock
}

// cellCenter returns the clip-space center of a cell.
func cellCenter(b board.Board, p minesweeper.Pos) (float32, float32) {
	w, h := b.PixelSize()
	x := float32(board.FrameWidths[0]+p.Col*board.CellSize+board.CellSize/2)/float32(w)*2 - 1
	y := float32(board.FrameHeights[0]+p.Row*board.CellSize+board.CellSize/2)/float32(h)*2 - 1
	return x, y
}

func displayShows(t *testing.T, b board.Board, d sevensegment.Display, value int) {
	t.Helper()
	first := board.FirstCellIndex - 2*sevensegment.DigitsPerDisplay
	if d == sevensegment.Timer {
		first += sevensegment.DigitsPerDisplay
	}
	for i, img := range sevensegment.Images(value) {
		x, y := sevensegment.AtlasOrigin(img)
		got := b.Batch().Instance(first + i).TexTranslation
		if !common.ApproxEqual(got[0], float32(x)/atlasSide, 1e-6) || !common.ApproxEqual(got[1], float32(y)/atlasSide, 1e-6) {
			t.Fatalf("%v digit %d = %v, want %v (value %d)", d, i, got, img, value)
		}
	}
}

func firstHidden(t *testing.T, g minesweeper.Game) minesweeper.Pos {
	t.Helper()
	for r, row := range g.Images() {
		for c, img := range row {
			if img == minesweeper.Hidden {
				return minesweeper.Pos{Row: r, Col: c}
			}
		}
	}
	t.Fatal("no hidden cell left")
	return minesweeper.Pos{}
}

func TestNewControllerShowsMinesAndZero(t *testing.T) {
	c, _ := newTestController(t)
	displayShows(t, c.Board(), sevensegment.MinesUnflagged, 60)
	displayShows(t, c.Board(), sevensegment.Timer, 0)
}

func TestClickOutsideGridIgnored(t *testing.T) {
	c, _ := newTestController(t)
	if c.LeftClick(0, 0.97) || c.RightClick(-0.99, 0) {
		t.Fatal("click on the frame changed the board")
	}
	if c.Game().State() != minesweeper.BeforeGame {
		t.Fatalf("state = %v, want BeforeGame", c.Game().State())
	}
}

func TestFirstClickStartsTimer(t *testing.T) {
	c, clock := newTestController(t)
	b := c.Board()

	if !c.LeftClick(cellCenter(b, minesweeper.Pos{Row: 5, Col: 5})) {
		t.Fatal("first click changed nothing")
	}
	if c.Game().State() != minesweeper.DuringGame {
		t.Fatalf("state = %v, want DuringGame", c.Game().State())
	}
	if got := c.Game().Image(minesweeper.Pos{Row: 5, Col: 5}); !got.Shown() {
		t.Fatalf("clicked cell shows %v", got)
	}

	clock.advance(900 * time.Millisecond)
	c.Tick()
	if c.Elapsed() != 0 {
		t.Fatalf("elapsed = %d before a full second", c.Elapsed())
	}

	clock.advance(1600 * time.Millisecond)
	c.Tick()
	if c.Elapsed() != 2 {
		t.Fatalf("elapsed = %d, want 2", c.Elapsed())
	}
	displayShows(t, b, sevensegment.Timer, 2)
}

func TestTickBeforeGameKeepsZero(t *testing.T) {
	c, clock := newTestController(t)
	clock.advance(5 * time.Second)
	c.Tick()
	if c.Elapsed() != 0 {
		t.Fatalf("elapsed = %d before the first click", c.Elapsed())
	}
}

func TestFlagUpdatesMinesDisplay(t *testing.T) {
	c, _ := newTestController(t)
	b := c.Board()
	c.LeftClick(cellCenter(b, minesweeper.Pos{Row: 5, Col: 5}))

	p := firstHidden(t, c.Game())
	if !c.RightClick(cellCenter(b, p)) {
		t.Fatal("right click changed nothing")
	}
	displayShows(t, b, sevensegment.MinesUnflagged, 59)

	c.RightClick(cellCenter(b, p))
	displayShows(t, b, sevensegment.MinesUnflagged, 60)
}

func TestGameOverFreezesTimer(t *testing.T) {
	c, clock := newTestController(t)
	b := c.Board()
	c.LeftClick(cellCenter(b, minesweeper.Pos{Row: 5, Col: 5}))

	clock.advance(3 * time.Second)
	for c.Game().State() == minesweeper.DuringGame {
		c.LeftClick(cellCenter(b, firstHidden(t, c.Game())))
	}
	if c.Elapsed() != 3 {
		t.Fatalf("elapsed at game over = %d, want 3", c.Elapsed())
	}

	clock.advance(10 * time.Second)
	c.Tick()
	if c.Elapsed() != 3 {
		t.Fatalf("timer kept running after the game: %d", c.Elapsed())
	}
	if c.LeftClick(cellCenter(b, minesweeper.Pos{Row: 0, Col: 0})) {
		t.Fatal("click after the game changed the board")
	}
}

func TestResetKey(t *testing.T) {
	c, clock := newTestController(t)
	b := c.Board()
	c.LeftClick(cellCenter(b, minesweeper.Pos{Row: 5, Col: 5}))
	c.RightClick(cellCenter(b, firstHidden(t, c.Game())))
	clock.advance(4 * time.Second)
	c.Tick()

	c.KeyDown(common.KeySpace)
	if c.Game().State() == minesweeper.BeforeGame {
		t.Fatal("space reset the game")
	}

	c.KeyDown(common.KeyR)
	if c.Game().State() != minesweeper.BeforeGame || c.Game().Flags() != 0 || c.Elapsed() != 0 {
		t.Fatalf("after R: state %v flags %d elapsed %d", c.Game().State(), c.Game().Flags(), c.Elapsed())
	}
	displayShows(t, b, sevensegment.MinesUnflagged, 60)
	displayShows(t, b, sevensegment.Timer, 0)

	hidden := b.Batch().Instance(board.FirstCellIndex + 5 + 5*10).TexTranslation
	x, y := board.CellAtlasOrigin(minesweeper.Hidden)
	if !common.ApproxEqual(hidden[0], float32(x)/atlasSide, 1e-6) || !common.ApproxEqual(hidden[1], float32(y)/atlasSide, 1e-6) {
		t.Fatalf("cell (5,5) = %v after reset, want hidden", hidden)
	}
}
