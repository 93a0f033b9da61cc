// Package termimg renders decoded images in the terminal. It abstracts
// over the Kitty graphics protocol, Sixel, and a plain ANSI half-block
// fallback so the viewer works on any terminal.
package termimg

import (
	"image"
	"strings"
	"sync/atomic"
)

// Protocol is one way of getting pixels onto the terminal.
//
// Prepare encodes and stages an image under an ID; it is safe to call
// from a non-UI goroutine ahead of the next draw. Transmit returns the
// one-time command that must reach the terminal before the image can be
// placed (empty for protocols that inline their data). Place returns the
// escape sequence displaying the staged image at a 1-based cell position.
type Protocol interface {
	Prepare(img image.Image, id uint32) error
	Transmit(id uint32) string
	Place(id uint32, row, col, width, height int) string
	Delete(id uint32) string
	Placeholder(width, height int) string

	// TargetPixelSize converts a cell extent to the pixel size an image
	// should be resized to for that extent.
	TargetPixelSize(widthCells, heightCells int) (pixelWidth, pixelHeight int)
}

var nextImageID uint32

// NextID returns a process-unique image ID.
func NextID() uint32 {
	return atomic.AddUint32(&nextImageID, 1)
}

// blankPlaceholder returns a block of spaces for the image area so
// lipgloss measures layout without seeing escape sequences.
func blankPlaceholder(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
