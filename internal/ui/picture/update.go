package picture

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/disintegration/imaging"

	"github.com/llehouerou/glance/internal/engine"
	"github.com/llehouerou/glance/internal/loader"
)

// ResultMsg delivers one load outcome from the session worker. Ok is
// false when the session's result stream has ended.
type ResultMsg struct {
	Session *loader.Session
	Result  engine.Result
	Ok      bool
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetRequest establishes the request this picture displays. A request
// with the same source keeps the running session; a different one tears
// the session down, releases the old image, and starts over. The
// returned command watches the new session's results.
func (m *Model) SetRequest(req engine.Request) tea.Cmd {
	if m.session != nil && m.session.Request().SameSource(req) {
		return nil
	}
	return m.start(req)
}

// Reload restarts the current request from scratch, with the given
// cache policy. A policy of CacheBypass forces a refetch.
func (m *Model) Reload(policy engine.CachePolicy) tea.Cmd {
	if m.session == nil {
		return nil
	}
	return m.start(m.session.Request().WithPolicy(policy))
}

func (m *Model) start(req engine.Request) tea.Cmd {
	m.pendingTransmit += m.Close()

	st := &stage{proto: m.proto, policy: m.opts.Scale, adjust: m.opts.Adjust}
	m.stage = st

	var opts []loader.Option
	if m.proto != nil {
		opts = append(opts, loader.WithPrestage(st.prestage))
	}
	m.session = loader.New(m.eng, req, opts...)
	m.loading = true
	m.hinted = false

	if m.width > 0 && m.height > 0 {
		m.submitHint()
	}

	return tea.Batch(watchSession(m.session), m.spinner.Tick)
}

// SetSize records the pane extent in cells and, when the resulting size
// hint warrants it, re-requests the image at the new size.
func (m *Model) SetSize(width, height int) {
	if width == m.width && height == m.height {
		return
	}
	m.width = width
	m.height = height

	if m.session == nil {
		return
	}

	// The first measurement of a session always loads; the reload
	// predicate only arbitrates subsequent changes.
	if !m.hinted || m.opts.shouldReload(m.lastHint(), m.pixelHint()) {
		m.submitHint()
	}
}

// pixelHint converts the pane cell extent to the pixel hint handed to
// the loader. Without a protocol there is nothing to size against, so
// the hint is unbounded and the image decodes at its natural size.
func (m Model) pixelHint() engine.Size {
	if m.width <= 0 || m.height <= 0 {
		return engine.Size{}
	}
	if m.proto == nil {
		return engine.Size{Width: engine.Unbounded, Height: engine.Unbounded}
	}
	w, h := m.proto.TargetPixelSize(m.width, m.height)
	return engine.Size{Width: w, Height: h}
}

func (m Model) lastHint() engine.Size {
	if m.stage == nil {
		return engine.Size{}
	}
	m.stage.mu.Lock()
	defer m.stage.mu.Unlock()
	return m.stage.panePx
}

func (m *Model) submitHint() {
	hint := m.pixelHint()

	if m.stage != nil {
		m.stage.mu.Lock()
		m.stage.paneCells = engine.Size{Width: m.width, Height: m.height}
		m.stage.panePx = hint
		m.stage.mu.Unlock()
	}

	m.loading = true
	m.hinted = true
	m.session.Submit(hint)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	// Transmission commands are consumed by the frame drawn after the
	// Update that produced them.
	m.pendingTransmit = ""

	switch msg := msg.(type) {
	case ResultMsg:
		if msg.Session != m.session {
			// Stream of a session that was already replaced.
			return m, nil
		}
		if !msg.Ok {
			return m, nil
		}
		return m.applyResult(msg.Result)

	default:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) applyResult(res engine.Result) (Model, tea.Cmd) {
	m.result = res
	m.loading = false

	if _, ok := res.(engine.Success); ok && m.proto != nil && m.stage != nil {
		m.stage.mu.Lock()
		id, imgW, imgH := m.stage.id, m.stage.imgW, m.stage.imgH
		m.stage.mu.Unlock()

		if id != 0 && id != m.shownID {
			if m.shownID != 0 {
				m.pendingTransmit += m.proto.Delete(m.shownID)
			}
			m.shownID = id
			m.shownW, m.shownH = m.cellExtent(imgW, imgH)
			m.pendingTransmit += m.proto.Transmit(id)
		}
	}

	if m.opts.OnComplete != nil {
		m.opts.OnComplete(res)
	}

	return m, watchSession(m.session)
}

// watchSession waits for the next result of a session.
func watchSession(s *loader.Session) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-s.Results()
		return ResultMsg{Session: s, Result: res, Ok: ok}
	}
}

// transform applies scale policy and color adjustments ahead of
// encoding. The engine already fit the image to the pane, so only the
// covering and distorting policies rework geometry here.
func transform(img image.Image, policy ScalePolicy, adj Adjust, panePx engine.Size) image.Image {
	if panePx.Positive() {
		switch policy {
		case ScaleFill:
			img = imaging.Fill(img, panePx.Width, panePx.Height, imaging.Center, imaging.Lanczos)
		case ScaleStretch:
			img = imaging.Resize(img, panePx.Width, panePx.Height, imaging.Lanczos)
		case ScaleFit, ScaleNone:
		}
	}

	if adj.active() {
		if adj.Brightness != 0 {
			img = adjust.Brightness(img, adj.Brightness)
		}
		if adj.Saturation != 0 {
			img = adjust.Saturation(img, adj.Saturation)
		}
		if adj.Grayscale {
			img = effect.Grayscale(img)
		}
	}

	return img
}
