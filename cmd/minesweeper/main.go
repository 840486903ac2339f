// Command minesweeper plays minesweeper in a window, or renders the starting board to a PNG
// without opening one.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/game/app"
	"github.com/Carmen-Shannon/oxy-sweeper/game/atlas"
	"github.com/Carmen-Shannon/oxy-sweeper/game/config"
)

func main() {
	var (
		configPath  = flag.String("config", "", "config file (default $XDG_CONFIG_HOME/oxy-sweeper/config.toml)")
		width       = flag.Int("width", 0, "board width in cells")
		height      = flag.Int("height", 0, "board height in cells")
		mines       = flag.Int("mines", 0, "number of mines")
		debug       = flag.Bool("debug", false, "log at debug level and enable the frame profiler")
		snapshot    = flag.String("snapshot", "", "render the starting board to this PNG and exit")
		scale       = flag.Int("scale", 0, "snapshot enlargement factor (default: the window scale)")
		writeConfig = flag.Bool("write-config", false, "write the effective config to the config file and exit")
	)
	flag.Parse()

	if err := run(*configPath, *width, *height, *mines, *debug, *snapshot, *scale, *writeConfig); err != nil {
		fmt.Fprintln(os.Stderr, "minesweeper:", err)
		os.Exit(1)
	}
}

func run(configPath string, width, height, mines int, debug bool, snapshot string, scale int, writeConfig bool) error {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if width > 0 {
		cfg.Board.Width = width
	}
	if height > 0 {
		cfg.Board.Height = height
	}
	if mines > 0 {
		cfg.Board.Mines = mines
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if writeConfig {
		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
		common.Logger().Info("config written", "path", configPath)
		return nil
	}

	tex, err := loadAtlas(cfg.Atlas)
	if err != nil {
		return err
	}

	if snapshot != "" {
		return writeSnapshot(cfg, tex, snapshot, common.Coalesce(scale, cfg.WindowScale()))
	}

	a, err := app.NewApp(cfg, tex)
	if err != nil {
		return err
	}
	a.Run()
	return nil
}

func loadAtlas(path string) (*image.RGBA, error) {
	if path == "" {
		return atlas.Generate(), nil
	}
	return atlas.Load(path)
}

func writeSnapshot(cfg config.Config, tex *image.RGBA, path string, scale int) error {
	ctrl, err := app.NewControllerFromConfig(cfg, tex.Rect.Size())
	if err != nil {
		return err
	}
	img := app.Snapshot(ctrl, tex, scale)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	common.Logger().Info("snapshot written", "path", path, "size", img.Rect.Size())
	return nil
}
