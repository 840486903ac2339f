package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strings"
	"testing"
)

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 3, 4); got != 3 {
		t.Fatalf("Coalesce ints = %d, want 3", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Fatalf("Coalesce empty strings = %q, want empty", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5,0,3) = %d", got)
	}
	if got := Clamp(-1.5, -1, 1); got != -1 {
		t.Errorf("Clamp(-1.5,-1,1) = %v", got)
	}
	if got := Clamp[uint8](7, 1, 9); got != 7 {
		t.Errorf("Clamp(7,1,9) = %d", got)
	}
}

func TestLoggerDefaultsSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Fatal("default logger should be disabled")
	}

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	Logger().Info("board reset", "width", 9)
	if !strings.Contains(buf.String(), "board reset") {
		t.Fatalf("log output missing message: %q", buf.String())
	}
}

func TestImportedTextureDecode(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 3, 4, 4))
	src.Set(2, 3, color.NRGBA{R: 255, A: 255})
	src.Set(3, 3, color.NRGBA{G: 255, A: 255})
	var enc bytes.Buffer
	if err := png.Encode(&enc, src); err != nil {
		t.Fatal(err)
	}

	tex := &ImportedTexture{Name: "atlas", Data: enc.Bytes()}
	img, err := tex.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds = %v, want origin-based 2x1", img.Bounds())
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Fatalf("pixel (1,0) = %v", got)
	}

	staging := StagingFromRGBA(img)
	if staging.Width != 2 || staging.Height != 1 || len(staging.Pixels) != 8 {
		t.Fatalf("staging = %dx%d (%d bytes)", staging.Width, staging.Height, len(staging.Pixels))
	}

	if _, err := (&ImportedTexture{Name: "empty"}).Decode(); err == nil {
		t.Fatal("expected error for texture without data or path")
	}
}
