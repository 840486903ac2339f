package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Board != (BoardConfig{Width: 10, Height: 10, Mines: 20}) {
		t.Errorf("default board = %+v", cfg.Board)
	}
	if cfg.Window.Title != "Minesweeper" || cfg.WindowScale() != 2 {
		t.Errorf("default window = %+v", cfg.Window)
	}
}

func TestWindowScaleClamps(t *testing.T) {
	for scale, want := range map[int]int{-3: 1, 0: 1, 1: 1, 3: 3, MaxWindowScale: MaxWindowScale, 40: MaxWindowScale} {
		cfg := Default()
		cfg.Window.Scale = scale
		if got := cfg.WindowScale(); got != want {
			t.Errorf("WindowScale() with scale %d = %d, want %d", scale, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		board BoardConfig
		want  error
	}{
		{"zero width", BoardConfig{0, 10, 5}, ErrInvalidDimensions},
		{"too tall", BoardConfig{10, 256, 5}, ErrInvalidDimensions},
		{"largest board", BoardConfig{255, 255, 1000}, nil},
		{"no mines", BoardConfig{10, 10, 0}, ErrNoMines},
		{"every cell a mine", BoardConfig{4, 4, 16}, ErrTooManyMines},
		{"one safe cell", BoardConfig{4, 4, 15}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Board = tt.board
			err := cfg.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	if level, err := cfg.LogLevel(); err != nil || level != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, %v, want debug", level, err)
	}
	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted an unknown log level")
	}
}

func TestLoadTOMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[board]\nwidth = 30\nheight = 16\nmines = 99\n\n[renderer]\nframe_limit = 144\n\n[log]\nlevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board != (BoardConfig{Width: 30, Height: 16, Mines: 99}) {
		t.Errorf("board = %+v", cfg.Board)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Renderer.FrameLimit != 144 {
		t.Errorf("frame limit = %v, want 144", cfg.Renderer.FrameLimit)
	}
	if cfg.Window.Title != "Minesweeper" || !cfg.Renderer.VSync {
		t.Errorf("missing keys lost their defaults: %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "board:\n  width: 16\n  height: 16\n  mines: 40\nwindow:\n  title: Intermediate\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.Mines != 40 || cfg.Window.Title != "Intermediate" || cfg.Window.Scale != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[board\nwidth = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load of malformed TOML succeeded")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"nested/config.toml", "nested/config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := Default()
			want.Board = BoardConfig{Width: 9, Height: 9, Mines: 10}
			want.Renderer.ClearColor = [3]float64{0.25, 0.5, 1}
			want.Atlas = "/tmp/atlas.png"

			if err := Save(path, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got != want {
				t.Errorf("round trip = %+v, want %+v", got, want)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg", "oxy-sweeper", "config.toml"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/player")
	path, err = DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/home/player", ".config", "oxy-sweeper", "config.toml"); path != want {
		t.Errorf("DefaultPath() fallback = %q, want %q", path, want)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("LoadOrDefault of an absent file = %+v, want defaults", cfg)
	}
}
