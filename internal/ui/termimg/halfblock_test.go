package termimg

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestHalfblock_PrepareAndPlace(t *testing.T) {
	h := NewHalfblockProtocol()

	img := image.NewRGBA(image.Rect(0, 0, 2, 4))
	for y := range 4 {
		for x := range 2 {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	if err := h.Prepare(img, 1); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	cmd := h.Place(1, 3, 5, 2, 2)
	if cmd == "" {
		t.Fatal("Place() returned empty for prepared image")
	}

	// 4 pixel rows render as 2 half-block lines at rows 3 and 4.
	if !strings.Contains(cmd, "\x1b[3;5H") {
		t.Error("first line should be positioned at row 3, col 5")
	}
	if !strings.Contains(cmd, "\x1b[4;5H") {
		t.Error("second line should be positioned at row 4, col 5")
	}
	if !strings.Contains(cmd, "▀") {
		t.Error("output should contain half-block characters")
	}
	if !strings.Contains(cmd, "\x1b[38;2;255;0;0m") {
		t.Error("output should carry truecolor foreground")
	}
}

func TestHalfblock_OddHeight(t *testing.T) {
	h := NewHalfblockProtocol()

	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	if err := h.Prepare(img, 2); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	cmd := h.Place(2, 1, 1, 2, 2)
	// 3 pixel rows produce 2 lines; the last uses foreground only.
	if strings.Count(cmd, "H") < 2 {
		t.Error("expected two positioned lines for a 3-pixel-tall image")
	}
}

func TestHalfblock_Delete(t *testing.T) {
	h := NewHalfblockProtocol()

	if err := h.Prepare(image.NewRGBA(image.Rect(0, 0, 2, 2)), 3); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if cmd := h.Delete(3); cmd != "" {
		t.Errorf("Delete() = %q, want empty (no terminal-side state)", cmd)
	}
	if h.Place(3, 1, 1, 1, 1) != "" {
		t.Error("Place() should return empty after Delete")
	}
}

func TestHalfblock_TargetPixelSize(t *testing.T) {
	h := NewHalfblockProtocol()

	w, hp := h.TargetPixelSize(10, 5)
	if w != 10 || hp != 10 {
		t.Errorf("TargetPixelSize(10, 5) = %dx%d, want 10x10", w, hp)
	}
}

func TestDetect_Override(t *testing.T) {
	t.Setenv("GLANCE_IMAGE_PROTOCOL", "halfblock")
	if _, ok := Detect().(*HalfblockProtocol); !ok {
		t.Error("override should force the half-block backend")
	}

	t.Setenv("GLANCE_IMAGE_PROTOCOL", "kitty")
	if _, ok := Detect().(*KittyProtocol); !ok {
		t.Error("override should force the Kitty backend")
	}

	t.Setenv("GLANCE_IMAGE_PROTOCOL", "none")
	if Detect() != nil {
		t.Error("override none should disable image display")
	}
}

func TestIsKittySupported(t *testing.T) {
	t.Setenv("CONTOUR_PROFILE", "")
	t.Setenv("KITTY_WINDOW_ID", "")
	t.Setenv("TERM_PROGRAM", "")
	t.Setenv("GHOSTTY_RESOURCES_DIR", "")
	t.Setenv("KONSOLE_VERSION", "")

	t.Setenv("TERM", "xterm-kitty")
	if !IsKittySupported() {
		t.Error("TERM=xterm-kitty should report Kitty support")
	}

	t.Setenv("TERM", "xterm-256color")
	if IsKittySupported() {
		t.Error("plain xterm should not report Kitty support")
	}
}
