package termimg

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-sixel"
)

// placeCounter is incremented on every Place call to ensure the output
// string is always unique. This prevents Bubble Tea's diff renderer from
// skipping the sixel data when only surrounding text changed, which would
// leave the image partially erased.
var placeCounter uint64

// SixelProtocol implements Protocol using Sixel graphics. Sixel has no
// transmit-then-reference model, so Place inlines the full encoded data.
type SixelProtocol struct {
	mu     sync.RWMutex
	images map[uint32]string // Sixel-encoded data by image ID
	cellW  int
	cellH  int
}

// NewSixelProtocol creates a Sixel backend, querying the terminal for
// actual cell pixel dimensions via TIOCGWINSZ.
func NewSixelProtocol() *SixelProtocol {
	cellW, cellH := getCellSize()
	return &SixelProtocol{
		images: make(map[uint32]string),
		cellW:  cellW,
		cellH:  cellH,
	}
}

// Prepare encodes img as Sixel data and caches it under id.
func (s *SixelProtocol) Prepare(img image.Image, id uint32) error {
	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Dither = true

	if err := enc.Encode(img); err != nil {
		return fmt.Errorf("encode sixel: %w", err)
	}

	s.mu.Lock()
	s.images[id] = buf.String()
	s.mu.Unlock()

	return nil
}

// Transmit implements Protocol. Sixel inlines its data in Place.
func (s *SixelProtocol) Transmit(_ uint32) string {
	return ""
}

// Place emits the cached Sixel data at the given cell position.
func (s *SixelProtocol) Place(id uint32, row, col, _, _ int) string {
	s.mu.RLock()
	data, ok := s.images[id]
	s.mu.RUnlock()

	if !ok {
		return ""
	}

	// Save cursor, move to position, emit data, restore cursor. A
	// monotonic counter embedded in a no-op SGR sequence keeps the
	// output unique so the diff renderer always re-sends it.
	seq := atomic.AddUint64(&placeCounter, 1)
	var sb strings.Builder
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH", row, col)
	sb.WriteString(data)
	fmt.Fprintf(&sb, "\x1b[u\x1b[%dm\x1b[0m", seq%255+1)

	return sb.String()
}

// Delete drops the cached data. Sixel needs no terminal-side cleanup.
func (s *SixelProtocol) Delete(id uint32) string {
	s.mu.Lock()
	delete(s.images, id)
	s.mu.Unlock()

	return ""
}

// Placeholder implements Protocol.
func (s *SixelProtocol) Placeholder(width, height int) string {
	return blankPlaceholder(width, height)
}

// TargetPixelSize implements Protocol. One row of vertical margin is
// left to prevent terminal scroll when the image sits near the bottom.
func (s *SixelProtocol) TargetPixelSize(widthCells, heightCells int) (int, int) {
	if heightCells > 1 {
		heightCells--
	}
	return widthCells * s.cellW, heightCells * s.cellH
}
