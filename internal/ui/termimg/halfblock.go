package termimg

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// maxHalfblockCols bounds the widest line Prepare will emit. Images
// normally arrive pre-fitted to the pane, but the no-scaling policy
// hands them over at native resolution.
const maxHalfblockCols = 400

// HalfblockProtocol renders images as colored half-block characters
// (▀ with truecolor foreground and background), two pixels per cell.
// It works on any terminal with 24-bit color and needs no graphics
// protocol support.
type HalfblockProtocol struct {
	mu     sync.RWMutex
	images map[uint32][]string // rendered lines by image ID
}

// NewHalfblockProtocol creates the half-block fallback backend.
func NewHalfblockProtocol() *HalfblockProtocol {
	return &HalfblockProtocol{images: make(map[uint32][]string)}
}

// Prepare renders img into per-row strings of half-block cells. The
// image is expected at the pixel size reported by TargetPixelSize; it is
// consumed one cell column per pixel column, two pixel rows per line.
// Oversized images are thumbnailed down to the emission bound first.
func (h *HalfblockProtocol) Prepare(img image.Image, id uint32) error {
	if b := img.Bounds(); b.Dx() > maxHalfblockCols {
		img = resize.Thumbnail(maxHalfblockCols, uint(b.Dy()), img, resize.Lanczos3)
	}
	lines := renderHalfblocks(img)

	h.mu.Lock()
	h.images[id] = lines
	h.mu.Unlock()

	return nil
}

func renderHalfblocks(img image.Image) []string {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	lines := make([]string, 0, (height+1)/2)

	for y := 0; y < height; y += 2 {
		var sb strings.Builder
		for x := range width {
			top, _ := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
			tr, tg, tb := top.RGB255()

			if y+1 < height {
				bottom, _ := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y+1))
				br, bg, bb := bottom.RGB255()
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
			} else {
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm▀", tr, tg, tb)
			}
		}
		sb.WriteString("\x1b[0m")
		lines = append(lines, sb.String())
	}

	return lines
}

// Transmit implements Protocol. Half-block output is inlined by Place.
func (h *HalfblockProtocol) Transmit(_ uint32) string {
	return ""
}

// Place positions each rendered line with absolute cursor moves.
func (h *HalfblockProtocol) Place(id uint32, row, col, _, _ int) string {
	h.mu.RLock()
	lines, ok := h.images[id]
	h.mu.RUnlock()

	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\x1b[s")
	for i, line := range lines {
		fmt.Fprintf(&sb, "\x1b[%d;%dH%s", row+i, col, line)
	}
	sb.WriteString("\x1b[u")

	return sb.String()
}

// Delete drops the rendered lines.
func (h *HalfblockProtocol) Delete(id uint32) string {
	h.mu.Lock()
	delete(h.images, id)
	h.mu.Unlock()

	return ""
}

// Placeholder implements Protocol.
func (h *HalfblockProtocol) Placeholder(width, height int) string {
	return blankPlaceholder(width, height)
}

// TargetPixelSize implements Protocol: one pixel per cell column, two
// pixel rows per cell row.
func (h *HalfblockProtocol) TargetPixelSize(widthCells, heightCells int) (int, int) {
	return widthCells, heightCells * 2
}
