// Package app connects the minesweeper rules to the board batch and the engine.
package app

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/game/board"
	"github.com/Carmen-Shannon/oxy-sweeper/game/minesweeper"
	"github.com/Carmen-Shannon/oxy-sweeper/game/sevensegment"
)

// Controller turns input into game moves and keeps the board sprites and the two displays
// in step with the game. It holds no GPU state. Input and ticks may arrive on different goroutines.
type Controller interface {
	// Game returns the rules engine.
	Game() minesweeper.Game

	// Board returns the sprite layout the controller writes to.
	Board() board.Board

	// LeftClick reveals, chords or toggles the cell under a clip-space point.
	//
	// Parameters:
	//   - clipX, clipY: the point in board clip space
	//
	// Returns:
	//   - bool: true if any cell changed
	LeftClick(clipX, clipY float32) bool

	// RightClick flags or unflags the cell under a clip-space point.
	//
	// Parameters:
	//   - clipX, clipY: the point in board clip space
	//
	// Returns:
	//   - bool: true if any cell changed
	RightClick(clipX, clipY float32) bool

	// KeyDown handles a key press. R starts a new game.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	KeyDown(keyCode uint32)

	// Reset starts a new game on the same board.
	Reset()

	// Tick advances the timer display while a game is running.
	Tick()

	// Elapsed returns the whole seconds the timer display shows.
	Elapsed() int
}

type controller struct {
	mu *sync.Mutex

	game  minesweeper.Game
	board board.Board

	now     func() time.Time
	started time.Time
	elapsed int
}

var _ Controller = &controller{}

// NewController wires a game to its board and shows the initial displays.
//
// Parameters:
//   - g: the game
//   - b: the board laid out for the same grid
//   - options: functional options
//
// Returns:
//   - Controller: the controller
func NewController(g minesweeper.Game, b board.Board, options ...ControllerBuilderOption) Controller {
	c := &controller{
		mu:    &sync.Mutex{},
		game:  g,
		board: b,
		now:   time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	c.board.SetDisplay(sevensegment.MinesUnflagged, c.game.MinesUnflagged())
	c.board.SetDisplay(sevensegment.Timer, 0)
	return c
}

func (c *controller) Game() minesweeper.Game {
	return c.game
}

func (c *controller) Board() board.Board {
	return c.board
}

func (c *controller) LeftClick(clipX, clipY float32) bool {
	return c.click(clipX, clipY, c.game.LeftClick)
}

func (c *controller) RightClick(clipX, clipY float32) bool {
	return c.click(clipX, clipY, c.game.RightClick)
}

func (c *controller) click(clipX, clipY float32, move func(minesweeper.Pos) []minesweeper.Change) bool {
	pos, ok := c.board.CellAt(clipX, clipY)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.game.State()
	flags := c.game.Flags()
	changes := move(pos)
	if len(changes) == 0 {
		return false
	}
	c.board.SetCells(changes)

	if c.game.Flags() != flags {
		c.board.SetDisplay(sevensegment.MinesUnflagged, c.game.MinesUnflagged())
	}
	c.transition(before, c.game.State(), changes)
	return true
}

// transition reacts to a state change caused by one move. A first click can win outright,
// so BeforeGame may go straight to AfterGame.
func (c *controller) transition(before, after minesweeper.GameState, changes []minesweeper.Change) {
	if before == after {
		return
	}
	if before == minesweeper.BeforeGame {
		c.started = c.now()
		c.elapsed = 0
		common.Logger().Info("game started",
			"width", c.game.Width(), "height", c.game.Height(), "mines", c.game.TotalMines())
	}
	if after == minesweeper.AfterGame {
		c.updateTimerLocked()
		won := true
		for _, ch := range changes {
			if ch.Image == minesweeper.SelectedMine {
				won = false
				break
			}
		}
		common.Logger().Info("game over", "won", won, "duration", c.now().Sub(c.started).Round(time.Millisecond))
	}
}

func (c *controller) KeyDown(keyCode uint32) {
	if keyCode == common.KeyR {
		c.Reset()
	}
}

func (c *controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.game.Reset()
	c.board.ResetGrid()
	c.elapsed = 0
	c.board.SetDisplay(sevensegment.Timer, 0)
	c.board.SetDisplay(sevensegment.MinesUnflagged, c.game.TotalMines())
	common.Logger().Info("game reset")
}

func (c *controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.game.State() == minesweeper.DuringGame {
		c.updateTimerLocked()
	}
}

// updateTimerLocked redraws the timer when a new whole second has passed.
func (c *controller) updateTimerLocked() {
	secs := int(c.now().Sub(c.started) / time.Second)
	if secs == c.elapsed {
		return
	}
	c.elapsed = secs
	c.board.SetDisplay(sevensegment.Timer, secs)
}

func (c *controller) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}
