package termimg

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"encoding/base64"
)

// Kitty graphics protocol escape sequences
const (
	escStart = "\x1b_G"
	escEnd   = "\x1b\\"
)

// KittyProtocol implements Protocol using the Kitty graphics protocol.
// Images are transmitted to terminal memory once and then placed by ID,
// which keeps redraws cheap.
type KittyProtocol struct {
	mu     sync.RWMutex
	staged map[uint32]string // transmission command by image ID
}

// NewKittyProtocol creates a Kitty protocol backend.
func NewKittyProtocol() *KittyProtocol {
	return &KittyProtocol{staged: make(map[uint32]string)}
}

// Prepare encodes img as PNG and stages the chunked transmission command.
func (k *KittyProtocol) Prepare(img image.Image, id uint32) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	cmd := buildTransmit(buf.Bytes(), id)

	k.mu.Lock()
	k.staged[id] = cmd
	k.mu.Unlock()

	return nil
}

// buildTransmit produces the chunked Kitty transmission command.
// a=t transmits without displaying; f=100 is PNG; q=2 suppresses
// responses. Payloads above 4096 bytes must be chunked with m=1.
func buildTransmit(pngData []byte, id uint32) string {
	encoded := base64.StdEncoding.EncodeToString(pngData)

	const chunkSize = 4096
	var sb strings.Builder

	for i := 0; i < len(encoded); i += chunkSize {
		end := min(i+chunkSize, len(encoded))
		isLast := end >= len(encoded)

		moreChunks := 0
		if !isLast {
			moreChunks = 1
		}

		sb.WriteString(escStart)
		if i == 0 {
			fmt.Fprintf(&sb, "a=t,f=100,i=%d,q=2,m=%d;", id, moreChunks)
		} else {
			fmt.Fprintf(&sb, "m=%d;", moreChunks)
		}
		sb.WriteString(encoded[i:end])
		sb.WriteString(escEnd)
	}

	return sb.String()
}

// Transmit returns the staged transmission command for id, or "" when
// nothing is staged. The caller emits it once per terminal session.
func (k *KittyProtocol) Transmit(id uint32) string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.staged[id]
}

// Place returns the escape sequence displaying a transmitted image.
// A fixed placement ID (p=1) makes repositioning replace the previous
// placement instead of leaving ghost images.
func (k *KittyProtocol) Place(id uint32, row, col, width, height int) string {
	k.mu.RLock()
	_, ok := k.staged[id]
	k.mu.RUnlock()
	if !ok {
		return ""
	}

	var sb strings.Builder
	// Save cursor, move to position, place image, restore cursor.
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH", row, col)
	fmt.Fprintf(&sb, "%sa=p,i=%d,p=1,c=%d,r=%d,C=1,q=2;%s", escStart, id, width, height, escEnd)
	sb.WriteString("\x1b[u")

	return sb.String()
}

// Delete drops the staged command and returns the escape sequence that
// removes the image and its placements from terminal memory.
func (k *KittyProtocol) Delete(id uint32) string {
	k.mu.Lock()
	delete(k.staged, id)
	k.mu.Unlock()

	return fmt.Sprintf("%sa=d,d=i,i=%d,q=2;%s", escStart, id, escEnd)
}

// Placeholder implements Protocol.
func (k *KittyProtocol) Placeholder(width, height int) string {
	return blankPlaceholder(width, height)
}

// TargetPixelSize implements Protocol using queried cell dimensions,
// falling back to the common 8x16 cell.
func (k *KittyProtocol) TargetPixelSize(widthCells, heightCells int) (int, int) {
	cellW, cellH := getCellSize()
	return widthCells * cellW, heightCells * cellH
}
