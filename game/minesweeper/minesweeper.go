// Package minesweeper holds the rules of the game: mine placement, reveals, flags and the win and loss conditions.
// It knows nothing about rendering; every mutating call reports which cells changed image.
package minesweeper

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

// ErrInvalidGrid is returned when the dimensions or mine count cannot form a playable grid.
var ErrInvalidGrid = errors.New("minesweeper: invalid grid")

// CellImage is what a cell currently shows.
type CellImage uint8

const (
	Zero CellImage = iota
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Mine
	WronglyFlagged
	SelectedMine
	Hidden
	Flagged
	QuestionMarked
)

var cellImageNames = [...]string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Mine", "WronglyFlagged", "SelectedMine", "Hidden", "Flagged", "QuestionMarked",
}

func (c CellImage) String() string {
	if int(c) < len(cellImageNames) {
		return cellImageNames[c]
	}
	return fmt.Sprintf("CellImage(%d)", uint8(c))
}

// Shown reports whether the image belongs to a revealed cell.
func (c CellImage) Shown() bool {
	switch c {
	case Hidden, Flagged, QuestionMarked:
		return false
	}
	return true
}

// NumberImage returns the image showing n adjacent mines. n must be in [0, 8].
func NumberImage(n int) CellImage {
	if n < 0 || n > 8 {
		panic(fmt.Sprintf("minesweeper: no image for %d adjacent mines", n))
	}
	return Zero + CellImage(n)
}

// GameState is the phase of a game. Reset returns to BeforeGame from any state.
type GameState uint8

const (
	// BeforeGame accepts only a left click, which places the mines and starts the game.
	BeforeGame GameState = iota
	// DuringGame accepts every interaction.
	DuringGame
	// AfterGame ignores every interaction until Reset.
	AfterGame
)

func (s GameState) String() string {
	switch s {
	case BeforeGame:
		return "BeforeGame"
	case DuringGame:
		return "DuringGame"
	case AfterGame:
		return "AfterGame"
	}
	return fmt.Sprintf("GameState(%d)", uint8(s))
}

// Pos addresses a cell. Row 0 is the bottom row of the board.
type Pos struct {
	Row, Col int
}

// Change records a cell whose image changed.
type Change struct {
	Pos   Pos
	Image CellImage
}

type cell struct {
	image CellImage
	mine  bool
}

// Game is a single minesweeper board.
// Thread-safe for concurrent access.
type Game interface {
	// State returns the current phase of the game.
	State() GameState

	// Width returns the number of columns.
	Width() int

	// Height returns the number of rows.
	Height() int

	// Flags returns the number of flagged cells.
	Flags() int

	// TotalMines returns the number of mines on the board.
	TotalMines() int

	// MinesUnflagged returns TotalMines minus Flags. It goes negative when the player over-flags.
	MinesUnflagged() int

	// Reset clears the flags and returns to BeforeGame. Mines are placed again on the next left click.
	Reset()

	// Resize resets the game and changes its dimensions and mine count.
	//
	// Parameters:
	//   - width, height: the new grid size in cells
	//   - mines: the new mine count
	//
	// Returns:
	//   - error: ErrInvalidGrid if the arguments cannot form a grid; the game is unchanged
	Resize(width, height, mines int) error

	// LeftClick reveals a hidden cell, cycles a flagged or question-marked cell, or chords a shown number.
	// The first left click of a game places the mines so that the clicked cell is always safe.
	//
	// Parameters:
	//   - pos: the clicked cell
	//
	// Returns:
	//   - []Change: every cell whose image changed; empty for out-of-range positions or after the game
	LeftClick(pos Pos) []Change

	// RightClick toggles a flag on a cell that is not shown. Only valid during the game.
	//
	// Parameters:
	//   - pos: the clicked cell
	//
	// Returns:
	//   - []Change: the changed cell, or nothing if the click was ignored
	RightClick(pos Pos) []Change

	// Image returns the image of one cell. Every cell is Hidden before the game starts.
	Image(pos Pos) CellImage

	// Images returns every cell image indexed [row][col]. Every cell is Hidden before the game starts.
	Images() [][]CellImage
}

type game struct {
	mu *sync.Mutex

	rng *rand.Rand

	grid   [][]cell
	state  GameState
	width  int
	height int
	flags  int
	hidden int
	mines  int
}

var _ Game = &game{}

// New creates a game in BeforeGame.
//
// Parameters:
//   - width, height: the grid size in cells (both > 0)
//   - mines: the mine count (> 0 and < width*height)
//   - options: functional options to configure the game
//
// Returns:
//   - Game: the new game
//   - error: ErrInvalidGrid if the arguments cannot form a grid
func New(width, height, mines int, options ...GameBuilderOption) (Game, error) {
	if err := validGrid(width, height, mines); err != nil {
		return nil, err
	}
	g := &game{
		mu:     &sync.Mutex{},
		state:  BeforeGame,
		width:  width,
		height: height,
		hidden: width * height,
		mines:  mines,
	}
	for _, option := range options {
		option(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g, nil
}

func validGrid(width, height, mines int) error {
	if width <= 0 || height <= 0 || mines <= 0 {
		return fmt.Errorf("%w: %dx%d with %d mines", ErrInvalidGrid, width, height, mines)
	}
	if mines >= width*height {
		return fmt.Errorf("%w: %d mines do not fit %d cells", ErrInvalidGrid, mines, width*height)
	}
	return nil
}

func (g *game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *game) Width() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.width
}

func (g *game) Height() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.height
}

func (g *game) Flags() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.flags
}

func (g *game) TotalMines() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mines
}

func (g *game) MinesUnflagged() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mines - g.flags
}

func (g *game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.flags = 0
	g.state = BeforeGame
}

func (g *game) Resize(width, height, mines int) error {
	if err := validGrid(width, height, mines); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.flags = 0
	g.state = BeforeGame
	g.width = width
	g.height = height
	g.mines = mines
	g.hidden = width * height
	return nil
}

func (g *game) inBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < g.height && p.Col >= 0 && p.Col < g.width
}

func (g *game) at(p Pos) *cell {
	return &g.grid[p.Row][p.Col]
}

func (g *game) LeftClick(pos Pos) []Change {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.inBounds(pos) {
		return nil
	}
	if g.state == BeforeGame {
		g.startGame(pos)
	}
	if g.state != DuringGame {
		return nil
	}

	var changes []Change
	switch img := g.at(pos).image; {
	case img == Hidden:
		changes = g.show([]Pos{pos})
	case !img.Shown():
		changes = append(changes, g.toggle(pos, QuestionMarked))
	default:
		changes = g.show(g.hiddenNeighbors(pos))
	}

	if g.state == DuringGame && g.hidden == g.mines {
		changes = append(changes, g.win()...)
	}
	return changes
}

func (g *game) RightClick(pos Pos) []Change {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.inBounds(pos) || g.state != DuringGame || g.at(pos).image.Shown() {
		return nil
	}
	return []Change{g.toggle(pos, Hidden)}
}

func (g *game) Image(pos Pos) CellImage {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == BeforeGame || !g.inBounds(pos) {
		return Hidden
	}
	return g.at(pos).image
}

func (g *game) Images() [][]CellImage {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([][]CellImage, g.height)
	for r := range out {
		out[r] = make([]CellImage, g.width)
		for c := range out[r] {
			if g.state == BeforeGame {
				out[r][c] = Hidden
			} else {
				out[r][c] = g.grid[r][c].image
			}
		}
	}
	return out
}

// toggle flips pos between given and Flagged. Anything other than given becomes given.
// Caller must hold the mutex.
func (g *game) toggle(pos Pos, given CellImage) Change {
	c := g.at(pos)
	if c.image == given {
		c.image = Flagged
		g.flags++
	} else {
		if c.image == Flagged {
			g.flags--
		}
		c.image = given
	}
	return Change{Pos: pos, Image: c.image}
}

// show reveals cells, flooding outward from zeros. Revealing a mine ends the game instead.
// Caller must hold the mutex.
func (g *game) show(cells []Pos) []Change {
	for _, p := range cells {
		if g.at(p).mine {
			return g.lose(p)
		}
	}

	var changes []Change
	stack := cells
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := g.at(p)
		if c.image != Hidden {
			continue
		}
		g.hidden--
		n := g.minesAround(p)
		c.image = NumberImage(n)
		changes = append(changes, Change{Pos: p, Image: c.image})
		if n == 0 {
			stack = append(stack, g.hiddenNeighbors(p)...)
		}
	}
	return changes
}

// lose ends the game: selected marks the mine that was hit, every other hidden mine is
// uncovered and wrong flags are marked. Caller must hold the mutex.
func (g *game) lose(selected Pos) []Change {
	g.state = AfterGame
	g.at(selected).image = SelectedMine
	changes := []Change{{Pos: selected, Image: SelectedMine}}

	for r := 0; r < g.height; r++ {
		for col := 0; col < g.width; col++ {
			p := Pos{Row: r, Col: col}
			c := g.at(p)
			switch {
			case c.mine && c.image == Hidden:
				c.image = Mine
			case !c.mine && c.image == Flagged:
				c.image = WronglyFlagged
			default:
				continue
			}
			changes = append(changes, Change{Pos: p, Image: c.image})
		}
	}
	return changes
}

// win ends the game and flags every mine. Caller must hold the mutex.
func (g *game) win() []Change {
	g.state = AfterGame
	var changes []Change
	for r := 0; r < g.height; r++ {
		for col := 0; col < g.width; col++ {
			p := Pos{Row: r, Col: col}
			if c := g.at(p); c.mine && c.image != Flagged {
				c.image = Flagged
				changes = append(changes, Change{Pos: p, Image: Flagged})
			}
		}
	}
	g.flags = g.mines
	return changes
}

// startGame sizes the grid, places the mines and moves to DuringGame. The clicked cell is
// never a mine and its 3x3 neighbourhood stays clear unless there are too few other cells
// to hold every mine. Caller must hold the mutex.
func (g *game) startGame(click Pos) {
	g.state = DuringGame
	g.hidden = g.width * g.height
	g.flags = 0

	if len(g.grid) != g.height || (g.height > 0 && len(g.grid[0]) != g.width) {
		g.grid = make([][]cell, g.height)
		for r := range g.grid {
			g.grid[r] = make([]cell, g.width)
		}
	}

	safe := g.square(click)
	for _, p := range safe {
		g.at(p).image = Hidden
	}

	cellsLeft := g.hidden - len(safe)
	minesLeft := g.mines
	if cellsLeft < minesLeft {
		// Too crowded: turn random safe cells other than the click into mines.
		unsafe := minesLeft - cellsLeft
		minesLeft = cellsLeft
		for range unsafe {
			i := g.rng.IntN(len(safe) - 1)
			if safe[i] == click {
				i = len(safe) - 1
			}
			g.at(safe[i]).mine = true
			safe[i] = safe[len(safe)-1]
			safe = safe[:len(safe)-1]
		}
	}
	for _, p := range safe {
		g.at(p).mine = false
	}

	// Every remaining cell is a mine with probability minesLeft/cellsLeft, which places
	// exactly minesLeft mines uniformly.
	for r := 0; r < g.height; r++ {
		for col := 0; col < g.width; col++ {
			if abs(r-click.Row) <= 1 && abs(col-click.Col) <= 1 {
				continue
			}
			c := &g.grid[r][col]
			c.image = Hidden
			c.mine = g.rng.IntN(cellsLeft) < minesLeft
			cellsLeft--
			if c.mine {
				minesLeft--
			}
		}
	}
}

// square returns p and its in-bounds neighbours in row-major order.
func (g *game) square(p Pos) []Pos {
	out := make([]Pos, 0, 9)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			n := Pos{Row: p.Row + dr, Col: p.Col + dc}
			if g.inBounds(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

func (g *game) hiddenNeighbors(p Pos) []Pos {
	var out []Pos
	for _, n := range g.square(p) {
		if n != p && g.at(n).image == Hidden {
			out = append(out, n)
		}
	}
	return out
}

// minesAround counts mines in the 3x3 square, including p itself. It is only called on safe cells.
func (g *game) minesAround(p Pos) int {
	n := 0
	for _, q := range g.square(p) {
		if g.at(q).mine {
			n++
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
