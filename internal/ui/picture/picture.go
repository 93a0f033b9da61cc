// Package picture binds loader sessions to the Bubble Tea composition
// model: it turns pane sizes into load hints, load results into
// re-renders, and decoded images into terminal graphics commands.
package picture

import (
	"sync"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/llehouerou/glance/internal/engine"
	"github.com/llehouerou/glance/internal/loader"
	"github.com/llehouerou/glance/internal/ui/termimg"
)

// stage carries what the prestage hook prepared for the UI goroutine.
// The worker writes it before the result is delivered; the Update that
// receives the result reads it afterwards, ordered by the results
// channel. The mutex covers pane geometry written from the UI side.
type stage struct {
	mu sync.Mutex

	paneCells engine.Size // pane extent in cells
	panePx    engine.Size // pane extent in pixels

	id     uint32 // staged image ID, 0 when nothing staged
	imgW   int    // staged image pixel size
	imgH   int
	policy ScalePolicy
	adjust Adjust
	proto  termimg.Protocol
}

// Model is the picture component. Create one per displayed image slot.
type Model struct {
	eng   engine.Engine
	proto termimg.Protocol
	opts  Options

	session *loader.Session
	stage   *stage

	width  int // pane width in cells
	height int
	hinted bool // a hint has been submitted for this session

	result          engine.Result // latest terminal result, nil before first
	shownID         uint32        // image ID currently placed, 0 when none
	shownW, shownH  int           // placed image extent in cells
	pendingTransmit string

	loading bool
	spinner spinner.Model
}

// New creates a picture component rendering through proto. A nil proto
// disables image output; results still flow so callbacks fire.
func New(eng engine.Engine, proto termimg.Protocol, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	return Model{
		eng:     eng,
		proto:   proto,
		opts:    opts,
		spinner: sp,
	}
}

// Request returns the current base request, or false when none is set.
func (m Model) Request() (engine.Request, bool) {
	if m.session == nil {
		return engine.Request{}, false
	}
	return m.session.Request(), true
}

// Loading reports whether a load is in progress.
func (m Model) Loading() bool {
	return m.loading
}

// Result returns the latest terminal result, nil before the first one.
func (m Model) Result() engine.Result {
	return m.result
}

// prestage runs on the session worker just before a successful result is
// delivered: it applies scale policy and color adjustment and encodes
// the image for the terminal, so the next View only emits bytes.
func (st *stage) prestage(succ engine.Success) {
	st.mu.Lock()
	panePx := st.panePx
	policy := st.policy
	adj := st.adjust
	st.mu.Unlock()

	img := transform(succ.Image, policy, adj, panePx)

	id := termimg.NextID()
	if err := st.proto.Prepare(img, id); err != nil {
		return
	}

	b := img.Bounds()
	st.mu.Lock()
	st.id = id
	st.imgW = b.Dx()
	st.imgH = b.Dy()
	st.mu.Unlock()
}

// cellExtent converts a staged pixel extent back to cells using the
// current pane geometry.
func (m Model) cellExtent(imgW, imgH int) (int, int) {
	m.stage.mu.Lock()
	paneCells := m.stage.paneCells
	panePx := m.stage.panePx
	m.stage.mu.Unlock()

	if panePx.Width <= 0 || panePx.Height <= 0 {
		return 0, 0
	}
	w := (imgW*paneCells.Width + panePx.Width - 1) / panePx.Width
	h := (imgH*paneCells.Height + panePx.Height - 1) / panePx.Height
	return min(max(w, 1), paneCells.Width), min(max(h, 1), paneCells.Height)
}

// Placement returns the escape sequence placing the current image, with
// the pane's top-left at the given 1-based terminal cell. Empty when
// nothing is ready to show.
func (m Model) Placement(row, col int) string {
	if m.proto == nil || m.shownID == 0 {
		return ""
	}

	// Align the image extent inside the pane.
	freeW := m.width - m.shownW
	freeH := m.height - m.shownH
	col += int(float64(max(freeW, 0)) * float64(m.opts.HAlign))
	row += int(float64(max(freeH, 0)) * float64(m.opts.VAlign))

	return m.proto.Place(m.shownID, row, col, m.shownW, m.shownH)
}

// TakeTransmit returns the one-time transmission command accumulated by
// the last Update, if any. The caller prepends it to the next frame.
func (m Model) TakeTransmit() string {
	return m.pendingTransmit
}

// Close tears down the session and releases terminal-side image memory.
// It returns the cleanup escape sequence to emit, if any.
func (m *Model) Close() string {
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}

	var cmd string
	if m.proto != nil && m.shownID != 0 {
		cmd = m.proto.Delete(m.shownID)
	}
	m.shownID = 0
	m.result = nil
	m.loading = false
	return cmd
}
