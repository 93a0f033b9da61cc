package termimg

import (
	"os"
	"strings"
)

// Detect returns the best available Protocol for the current terminal.
// The half-block backend is the universal fallback, so Detect never
// returns nil unless display is disabled outright.
//
// The GLANCE_IMAGE_PROTOCOL environment variable overrides detection:
//   - "kitty": force Kitty protocol
//   - "sixel": force Sixel protocol
//   - "halfblock": force the ANSI half-block fallback
//   - "none": disable image display
func Detect() Protocol {
	if override := os.Getenv("GLANCE_IMAGE_PROTOCOL"); override != "" {
		switch override {
		case "kitty":
			return NewKittyProtocol()
		case "sixel":
			return NewSixelProtocol()
		case "halfblock":
			return NewHalfblockProtocol()
		case "none":
			return nil
		}
	}

	if IsKittySupported() {
		return NewKittyProtocol()
	}

	if IsSixelSupported() {
		return NewSixelProtocol()
	}

	return NewHalfblockProtocol()
}

// ByName returns the protocol with the given name, "none" for no
// display at all, or the detected protocol when the name is empty or
// unknown.
func ByName(name string) Protocol {
	switch strings.ToLower(name) {
	case "kitty":
		return NewKittyProtocol()
	case "sixel":
		return NewSixelProtocol()
	case "halfblock":
		return NewHalfblockProtocol()
	case "none":
		return nil
	}
	return Detect()
}

// IsKittySupported checks if the terminal supports Kitty graphics protocol.
func IsKittySupported() bool {
	// Contour sets CONTOUR_PROFILE but doesn't support Kitty protocol.
	// Check early because parent terminal env vars (e.g.
	// GHOSTTY_RESOURCES_DIR) can leak into Contour when launched from a
	// Kitty-capable terminal.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if os.Getenv("TERM") == "xterm-kitty" {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	if version := os.Getenv("KONSOLE_VERSION"); version != "" {
		// KONSOLE_VERSION is like "220401" for 22.04.01; Kitty graphics
		// supported from 22.04+.
		if len(version) >= 4 && version[:4] >= "2204" {
			return true
		}
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}

// IsSixelSupported checks if the terminal supports Sixel graphics.
func IsSixelSupported() bool {
	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	// foot (Wayland terminal)
	if term == "foot" || term == "foot-extra" {
		return true
	}

	// VS Code integrated terminal
	if termProgram == "vscode" {
		return true
	}

	// mintty (Windows)
	if termProgram == "mintty" {
		return true
	}

	// iTerm2
	if termProgram == "iTerm.app" {
		return true
	}

	// Contour
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return true
	}

	// xterm compiled with sixel support advertises it in TERM
	return strings.Contains(term, "sixel")
}
