package minesweeper

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func seeded(seed uint64) GameBuilderOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// rigged returns a game already in progress with mines at exactly the given cells.
func rigged(t *testing.T, width, height int, mines ...Pos) *game {
	t.Helper()
	gi, err := New(width, height, len(mines), seeded(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g := gi.(*game)
	g.grid = make([][]cell, height)
	for r := range g.grid {
		g.grid[r] = make([]cell, width)
		for c := range g.grid[r] {
			g.grid[r][c].image = Hidden
		}
	}
	for _, m := range mines {
		g.grid[m.Row][m.Col].mine = true
	}
	g.state = DuringGame
	g.hidden = width * height
	return g
}

func countMines(g *game) int {
	n := 0
	for _, row := range g.grid {
		for _, c := range row {
			if c.mine {
				n++
			}
		}
	}
	return n
}

func changeMap(changes []Change) map[Pos]CellImage {
	m := make(map[Pos]CellImage, len(changes))
	for _, c := range changes {
		m[c.Pos] = c.Image
	}
	return m
}

func TestNewRejectsInvalidGrids(t *testing.T) {
	tests := []struct {
		name                 string
		width, height, mines int
	}{
		{"zero width", 0, 10, 5},
		{"zero height", 10, 0, 5},
		{"no mines", 10, 10, 0},
		{"mines fill the grid", 3, 3, 9},
		{"more mines than cells", 2, 2, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.width, tt.height, tt.mines); !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("New(%d, %d, %d) error = %v, want ErrInvalidGrid", tt.width, tt.height, tt.mines, err)
			}
		})
	}

	if _, err := New(2, 2, 3); err != nil {
		t.Errorf("New(2, 2, 3) = %v, want a valid grid", err)
	}
}

func TestFirstClickIsSafe(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		gi, err := New(10, 10, 20, seeded(seed))
		if err != nil {
			t.Fatal(err)
		}
		g := gi.(*game)
		click := Pos{Row: 4, Col: 7}
		g.LeftClick(click)

		if got := countMines(g); got != 20 {
			t.Fatalf("seed %d: placed %d mines, want 20", seed, got)
		}
		for _, p := range g.square(click) {
			if g.at(p).mine {
				t.Fatalf("seed %d: mine at %v next to the first click", seed, p)
			}
		}
		if g.at(click).image != Zero {
			t.Fatalf("seed %d: clicked cell shows %v, want Zero", seed, g.at(click).image)
		}
	}
}

func TestCrowdedFirstClickSparesOnlyTheClick(t *testing.T) {
	gi, err := New(3, 3, 8, seeded(7))
	if err != nil {
		t.Fatal(err)
	}
	g := gi.(*game)
	changes := g.LeftClick(Pos{Row: 1, Col: 1})

	if g.at(Pos{Row: 1, Col: 1}).mine {
		t.Fatal("clicked cell became a mine")
	}
	if got := countMines(g); got != 8 {
		t.Fatalf("placed %d mines, want 8", got)
	}
	// the only safe cell was revealed, so the game is won at once
	if g.State() != AfterGame {
		t.Fatalf("state = %v, want AfterGame", g.State())
	}
	if g.Flags() != 8 || g.MinesUnflagged() != 0 {
		t.Errorf("flags = %d, unflagged = %d, want 8 and 0", g.Flags(), g.MinesUnflagged())
	}
	if got := changeMap(changes)[Pos{Row: 1, Col: 1}]; got != Eight {
		t.Errorf("center shows %v, want Eight", got)
	}
}

func TestCrowdedCornerClick(t *testing.T) {
	// 4 cells around a corner click and 5 elsewhere, so one neighbour must hold the sixth mine.
	for seed := uint64(0); seed < 20; seed++ {
		gi, _ := New(3, 3, 6, seeded(seed))
		g := gi.(*game)
		g.LeftClick(Pos{})
		if g.at(Pos{}).mine {
			t.Fatalf("seed %d: clicked corner is a mine", seed)
		}
		if got := countMines(g); got != 6 {
			t.Fatalf("seed %d: placed %d mines, want 6", seed, got)
		}
	}
}

func TestFloodFillRevealsZeros(t *testing.T) {
	// mine in the top right corner of a 4x4
	g := rigged(t, 4, 4, Pos{Row: 3, Col: 3})
	changes := g.LeftClick(Pos{Row: 0, Col: 0})

	if g.State() != AfterGame {
		t.Fatalf("state = %v, want AfterGame after clearing every safe cell", g.State())
	}
	got := changeMap(changes)
	want := map[Pos]CellImage{
		{Row: 0, Col: 0}: Zero,
		{Row: 2, Col: 2}: One,
		{Row: 2, Col: 3}: One,
		{Row: 3, Col: 2}: One,
		{Row: 3, Col: 3}: Flagged,
	}
	for p, img := range want {
		if got[p] != img {
			t.Errorf("cell %v = %v, want %v", p, got[p], img)
		}
	}
	if len(changes) != 16 {
		t.Errorf("changes = %d, want 15 reveals and 1 flag", len(changes))
	}
}

func TestRevealStopsAtNumbers(t *testing.T) {
	g := rigged(t, 5, 1, Pos{Row: 0, Col: 2})
	changes := g.LeftClick(Pos{Row: 0, Col: 0})

	got := changeMap(changes)
	if len(got) != 2 || got[Pos{Row: 0, Col: 0}] != Zero || got[Pos{Row: 0, Col: 1}] != One {
		t.Fatalf("changes = %v, want only the left two cells", changes)
	}
	if g.State() != DuringGame {
		t.Fatalf("state = %v, want DuringGame", g.State())
	}
	if g.Image(Pos{Row: 0, Col: 4}) != Hidden {
		t.Error("flood crossed the mine")
	}
}

func TestHittingAMineEndsTheGame(t *testing.T) {
	g := rigged(t, 3, 3, Pos{Row: 0, Col: 0}, Pos{Row: 2, Col: 2})
	g.RightClick(Pos{Row: 1, Col: 1}) // wrong flag
	g.RightClick(Pos{Row: 2, Col: 2}) // right flag
	changes := g.LeftClick(Pos{Row: 0, Col: 0})

	if g.State() != AfterGame {
		t.Fatalf("state = %v, want AfterGame", g.State())
	}
	if changes[0] != (Change{Pos: Pos{Row: 0, Col: 0}, Image: SelectedMine}) {
		t.Errorf("first change = %v, want the selected mine", changes[0])
	}
	got := changeMap(changes)
	if got[Pos{Row: 1, Col: 1}] != WronglyFlagged {
		t.Errorf("wrong flag shows %v, want WronglyFlagged", got[Pos{Row: 1, Col: 1}])
	}
	if _, ok := got[Pos{Row: 2, Col: 2}]; ok {
		t.Error("correct flag changed")
	}
	if g.LeftClick(Pos{Row: 2, Col: 0}) != nil || g.RightClick(Pos{Row: 2, Col: 0}) != nil {
		t.Error("clicks after the game changed cells")
	}
}

func TestRightClickCyclesFlag(t *testing.T) {
	g := rigged(t, 3, 3, Pos{Row: 1, Col: 1})
	p := Pos{Row: 0, Col: 0}

	if c := g.RightClick(p); len(c) != 1 || c[0].Image != Flagged {
		t.Fatalf("first right click = %v, want Flagged", c)
	}
	if g.Flags() != 1 || g.MinesUnflagged() != 0 {
		t.Fatalf("flags = %d, unflagged = %d", g.Flags(), g.MinesUnflagged())
	}

	// left click on a flag turns it into a question mark and back
	if c := g.LeftClick(p); len(c) != 1 || c[0].Image != QuestionMarked || g.Flags() != 0 {
		t.Fatalf("left click on flag = %v flags %d, want QuestionMarked and 0", c, g.Flags())
	}
	if c := g.LeftClick(p); len(c) != 1 || c[0].Image != Flagged || g.Flags() != 1 {
		t.Fatalf("left click on question mark = %v flags %d, want Flagged and 1", c, g.Flags())
	}
	if c := g.RightClick(p); len(c) != 1 || c[0].Image != Hidden || g.Flags() != 0 {
		t.Fatalf("right click on flag = %v flags %d, want Hidden and 0", c, g.Flags())
	}

	g.LeftClick(Pos{Row: 0, Col: 1})
	if c := g.RightClick(Pos{Row: 0, Col: 1}); c != nil {
		t.Errorf("right click on a shown cell = %v, want nothing", c)
	}
}

func TestRightClickBeforeGameIgnored(t *testing.T) {
	g, _ := New(5, 5, 3)
	if c := g.RightClick(Pos{Row: 1, Col: 1}); c != nil {
		t.Fatalf("right click before the game = %v, want nothing", c)
	}
	if g.State() != BeforeGame {
		t.Fatalf("state = %v, want BeforeGame", g.State())
	}
}

func TestChordRevealsHiddenNeighbours(t *testing.T) {
	g := rigged(t, 3, 3, Pos{Row: 2, Col: 0})
	g.LeftClick(Pos{Row: 1, Col: 1})
	g.RightClick(Pos{Row: 2, Col: 0})

	changes := g.LeftClick(Pos{Row: 1, Col: 1})
	got := changeMap(changes)
	for _, p := range []Pos{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 1}, {2, 2}} {
		if _, ok := got[p]; !ok {
			t.Errorf("chord did not reveal %v", p)
		}
	}
	if g.State() != AfterGame {
		t.Errorf("state = %v, want AfterGame", g.State())
	}
}

func TestResetHidesEverything(t *testing.T) {
	g, _ := New(4, 4, 2, seeded(3))
	g.LeftClick(Pos{Row: 0, Col: 0})
	g.Reset()

	if g.State() != BeforeGame || g.Flags() != 0 {
		t.Fatalf("after Reset: state %v flags %d", g.State(), g.Flags())
	}
	for r, row := range g.Images() {
		for c, img := range row {
			if img != Hidden {
				t.Fatalf("cell (%d,%d) = %v, want Hidden", r, c, img)
			}
		}
	}

	g.LeftClick(Pos{Row: 3, Col: 3})
	if g.State() == BeforeGame {
		t.Fatal("left click after Reset did not start a new game")
	}
}

func TestResize(t *testing.T) {
	g, _ := New(4, 4, 2)
	if err := g.Resize(0, 4, 2); !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("Resize error = %v, want ErrInvalidGrid", err)
	}
	if err := g.Resize(6, 5, 7); err != nil {
		t.Fatal(err)
	}
	g.LeftClick(Pos{Row: 4, Col: 5})
	if got := len(g.Images()); got != 5 {
		t.Fatalf("rows = %d, want 5", got)
	}
	if got := countMines(g.(*game)); got != 7 {
		t.Errorf("mines = %d, want 7", got)
	}
}

func TestOutOfRangeClicks(t *testing.T) {
	g, _ := New(4, 4, 2)
	for _, p := range []Pos{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if c := g.LeftClick(p); c != nil {
			t.Errorf("LeftClick(%v) = %v, want nothing", p, c)
		}
	}
	if g.State() != BeforeGame {
		t.Error("out-of-range click started the game")
	}
}

func TestCellImageShown(t *testing.T) {
	for img := Zero; img <= QuestionMarked; img++ {
		want := img != Hidden && img != Flagged && img != QuestionMarked
		if img.Shown() != want {
			t.Errorf("%v.Shown() = %v, want %v", img, img.Shown(), want)
		}
	}
}
