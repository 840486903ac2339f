// Package config loads and saves the game settings. Files are TOML by default; a .yaml or
// .yml extension selects YAML. Keys missing from a file keep their default values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"gopkg.in/yaml.v3"
)

const (
	// MaxDimension is the largest board width or height.
	MaxDimension = 255
	// MaxWindowScale is the largest whole multiple of the board's pixel size a window may take.
	MaxWindowScale = 8

	appDir   = "oxy-sweeper"
	fileName = "config.toml"
)

var (
	// ErrInvalidDimensions is returned when the board width or height is outside [1, MaxDimension].
	ErrInvalidDimensions = errors.New("config: invalid board dimensions")
	// ErrTooManyMines is returned when the mines do not leave at least one safe cell.
	ErrTooManyMines = errors.New("config: too many mines")
	// ErrNoMines is returned when the mine count is not positive.
	ErrNoMines = errors.New("config: board needs at least one mine")
)

// Config is the complete set of game settings.
type Config struct {
	Board    BoardConfig    `toml:"board" yaml:"board"`
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Renderer RendererConfig `toml:"renderer" yaml:"renderer"`
	Log      LogConfig      `toml:"log" yaml:"log"`

	// Atlas is an optional PNG replacing the generated sprite atlas.
	Atlas string `toml:"atlas,omitempty" yaml:"atlas,omitempty"`
}

// BoardConfig sizes the minefield.
type BoardConfig struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
	Mines  int `toml:"mines" yaml:"mines"`
}

// WindowConfig controls the platform window.
type WindowConfig struct {
	Title string `toml:"title" yaml:"title"`
	// Scale multiplies the board's pixel size to get the initial window size.
	Scale int `toml:"scale" yaml:"scale"`
}

// RendererConfig controls presentation.
type RendererConfig struct {
	VSync bool `toml:"vsync" yaml:"vsync"`
	MSAA  bool `toml:"msaa" yaml:"msaa"`
	// ClearColor is RGB in [0, 1]. It only shows where the letterboxed board does not cover the window.
	ClearColor [3]float64 `toml:"clear_color" yaml:"clear_color"`
	// Software forces a CPU adapter.
	Software bool `toml:"software" yaml:"software"`
	// FrameLimit caps the render loop in frames per second. 0 leaves it uncapped.
	FrameLimit float64 `toml:"frame_limit" yaml:"frame_limit"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
}

// Default returns the classic beginner setup.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Width:  10,
			Height: 10,
			Mines:  20,
		},
		Window: WindowConfig{
			Title: "Minesweeper",
			Scale: 2,
		},
		Renderer: RendererConfig{
			VSync: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the board can be played.
//
// Returns:
//   - error: ErrInvalidDimensions, ErrNoMines or ErrTooManyMines wrapped with the offending values
func (c Config) Validate() error {
	b := c.Board
	if b.Width < 1 || b.Width > MaxDimension || b.Height < 1 || b.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d, each side must be in [1, %d]", ErrInvalidDimensions, b.Width, b.Height, MaxDimension)
	}
	if b.Mines < 1 {
		return fmt.Errorf("%w: %d", ErrNoMines, b.Mines)
	}
	if b.Mines >= b.Width*b.Height {
		return fmt.Errorf("%w: %d mines on %d cells", ErrTooManyMines, b.Mines, b.Width*b.Height)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level. An empty level means info.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// WindowScale returns Window.Scale clamped to [1, MaxWindowScale].
func (c Config) WindowScale() int {
	return min(max(c.Window.Scale, 1), MaxWindowScale)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a config file over the defaults. The result is not validated.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the defaults overlaid with the file's values
//   - error: error if the file cannot be read or decoded
func Load(path string) (Config, error) {
	cfg := Default()

	if isYAML(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: decode %s: %w", path, err)
		}
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		common.Logger().Warn("unknown config key", "file", path, "key", key.String())
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating the parent directory if needed.
//
// Parameters:
//   - path: the file to write
//   - cfg: the settings
//
// Returns:
//   - error: error if encoding or writing fails
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	if isYAML(path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&cfg); err != nil {
			return fmt.Errorf("config: encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("config: encode: %w", err)
		}
	} else if err := toml.NewEncoder(&buf).Encode(&cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/oxy-sweeper/config.toml, falling back to ~/.config
// when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// LoadOrDefault loads path when it exists and returns the defaults otherwise.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		common.Logger().Debug("no config file, using defaults", "path", path)
		return Default(), nil
	}
	return Load(path)
}
