package app

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/engine"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/camera"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/scene"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/window"
	"github.com/Carmen-Shannon/oxy-sweeper/game/board"
	"github.com/Carmen-Shannon/oxy-sweeper/game/config"
	"github.com/Carmen-Shannon/oxy-sweeper/game/minesweeper"
)

// tickRate is how often the timer display is checked, in ticks per second.
const tickRate = 20

// App is a windowed minesweeper game.
type App interface {
	// Controller returns the input and timer logic.
	Controller() Controller

	// Engine returns the engine driving the window and the render loop.
	Engine() engine.Engine

	// Run blocks until the window closes.
	Run()
}

type app struct {
	cfg        config.Config
	controller Controller
	engine     engine.Engine
	renderer   renderer.Renderer
	camera     camera.Camera
}

var _ App = &app{}

// NewControllerFromConfig builds the game and its board from a validated config.
//
// Parameters:
//   - cfg: the settings
//   - atlasSize: the size of the sprite atlas the board samples
//   - options: functional options for the controller
//
// Returns:
//   - Controller: the controller
//   - error: error if the board cannot be laid out
func NewControllerFromConfig(cfg config.Config, atlasSize image.Point, options ...ControllerBuilderOption) (Controller, error) {
	g, err := minesweeper.New(cfg.Board.Width, cfg.Board.Height, cfg.Board.Mines)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	b, err := board.NewBoard(cfg.Board.Width, cfg.Board.Height, cfg.Board.Mines, atlasSize)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return NewController(g, b, options...), nil
}

// NewApp opens the window and builds the GPU scene for the board.
//
// Parameters:
//   - cfg: the settings, already validated
//   - atlas: the sprite atlas
//
// Returns:
//   - App: the application, ready to Run
//   - error: error if the game or the scene cannot be built
func NewApp(cfg config.Config, atlas *image.RGBA) (App, error) {
	ctrl, err := NewControllerFromConfig(cfg, atlas.Rect.Size())
	if err != nil {
		return nil, err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	pw, ph := ctrl.Board().PixelSize()
	win := window.NewWindow(windowOptions(cfg, pw, ph)...)

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions(cfg.Renderer)...)

	cam := camera.NewCamera(
		camera.WithAspectRatio(float32(pw), float32(ph)),
		camera.WithWindowSize(win.Width(), win.Height()),
	)

	sc := scene.NewScene("board", cam, r, atlas,
		scene.WithActive(true),
		scene.WithBatches(ctrl.Board().Batch()),
	)
	if err := sc.Init(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	a := &app{
		cfg:        cfg,
		controller: ctrl,
		renderer:   r,
		camera:     cam,
		engine: engine.NewEngine(
			engine.WithWindow(win),
			engine.WithScene(0, sc),
			engine.WithTickRate(tickRate),
			engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
			engine.WithProfiling(level <= slog.LevelDebug),
		),
	}
	a.bindInput()
	return a, nil
}

// windowBounds returns the initial, minimum and maximum window sizes: whole multiples of the
// board's pixel size between one and MaxWindowScale times.
func windowBounds(cfg config.Config, pw, ph int) (size, minSize, maxSize image.Point) {
	board := image.Pt(pw, ph)
	return board.Mul(cfg.WindowScale()), board, board.Mul(config.MaxWindowScale)
}

func windowOptions(cfg config.Config, pw, ph int) []window.WindowBuilderOption {
	size, minSize, maxSize := windowBounds(cfg, pw, ph)
	return []window.WindowBuilderOption{
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(size.X),
		window.WithHeight(size.Y),
		window.WithMinWidth(minSize.X),
		window.WithMinHeight(minSize.Y),
		window.WithMaxWidth(maxSize.X),
		window.WithMaxHeight(maxSize.Y),
	}
}

func presentMode(vsync bool) renderer.PresentMode {
	if vsync {
		return renderer.PresentModeVSync
	}
	return renderer.PresentModeUncapped
}

func rendererOptions(cfg config.RendererConfig) []renderer.RendererBuilderOption {
	mode := presentMode(cfg.VSync)
	msaa := renderer.MSAAOff
	if cfg.MSAA {
		msaa = renderer.MSAA4x
	}
	c := cfg.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(msaa),
		renderer.WithClearColor(c[0], c[1], c[2], 1),
		renderer.WithForceSoftwareRenderer(cfg.Software),
	}
}

// bindInput routes window events to the controller. Cursor positions arrive in framebuffer
// pixels and go through the camera's inverse to land in board clip space.
func (a *app) bindInput() {
	win := a.engine.Window()

	win.SetLeftMouseDownCallback(func(x, y float64) {
		cx, cy := a.camera.CursorToClip(x, y, win.Width(), win.Height())
		a.controller.LeftClick(cx, cy)
	})
	win.SetRightMouseDownCallback(func(x, y float64) {
		cx, cy := a.camera.CursorToClip(x, y, win.Width(), win.Height())
		a.controller.RightClick(cx, cy)
	})
	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyP:
			a.toggleProfiler()
		case common.KeyV:
			rc := a.cfg.Renderer
			rc.VSync = !rc.VSync
			a.applyRenderer(rc, win.Width(), win.Height())
		default:
			a.controller.KeyDown(keyCode)
		}
	})

	a.engine.SetTickCallback(func(float32) {
		a.controller.Tick()
	})
}

func (a *app) toggleProfiler() {
	if a.engine.ProfilerEnabled() {
		a.engine.DisableProfiler()
	} else {
		a.engine.EnableProfiler()
	}
}

// applyRenderer switches presentation settings on the live renderer. The surface is
// reconfigured at the current framebuffer size so a new present mode takes effect.
// MSAA and the adapter choice are fixed at startup and are not touched.
func (a *app) applyRenderer(rc config.RendererConfig, width, height int) {
	a.cfg.Renderer = rc
	c := rc.ClearColor
	a.renderer.SetPresentMode(presentMode(rc.VSync))
	a.renderer.SetClearColor(c[0], c[1], c[2], 1)
	a.renderer.Resize(width, height)
	a.engine.SetRenderFrameLimit(rc.FrameLimit)
	common.Logger().Info("renderer settings applied", "vsync", rc.VSync, "frame_limit", rc.FrameLimit)
}

func (a *app) Controller() Controller {
	return a.controller
}

func (a *app) Engine() engine.Engine {
	return a.engine
}

func (a *app) Run() {
	common.Logger().Info("starting",
		"board", fmt.Sprintf("%dx%d", a.cfg.Board.Width, a.cfg.Board.Height), "mines", a.cfg.Board.Mines)
	a.engine.Run()
	a.engine.Quit()
	if err := a.engine.Window().Close(); err != nil {
		common.Logger().Warn("window close failed", "err", err)
	}
}
