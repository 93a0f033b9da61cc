// Package statusbar renders the single-line bar at the bottom of the
// screen: app title, current image info on the left, cache usage on the
// right.
package statusbar

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/glance/internal/engine"
	"github.com/llehouerou/glance/internal/ui"
	"github.com/llehouerou/glance/internal/ui/render"
	"github.com/llehouerou/glance/internal/ui/styles"
)

type Model struct {
	ui.Base

	message    string
	isError    bool
	cacheUsage int64
}

func New() Model {
	return Model{}
}

// SetResult updates the bar from a finished load.
func (m *Model) SetResult(name string, res engine.Result) {
	switch res := res.(type) {
	case engine.Success:
		bounds := res.Image.Bounds()
		m.message = fmt.Sprintf("%s  %dx%d  %s", name, bounds.Dx(), bounds.Dy(), res.Provenance)
		m.isError = false
	case engine.Failure:
		m.message = fmt.Sprintf("%s  %v", name, res.Err)
		m.isError = true
	}
}

// SetLoading marks a load in progress.
func (m *Model) SetLoading(name string) {
	m.message = name + "  loading..."
	m.isError = false
}

// SetMessage replaces the bar content with a plain message.
func (m *Model) SetMessage(msg string) {
	m.message = msg
	m.isError = false
}

// SetCacheUsage records the disk cache footprint shown on the right.
func (m *Model) SetCacheUsage(bytes int64) {
	m.cacheUsage = bytes
}

func (m Model) View() string {
	width := m.Width()
	if width <= 0 {
		return ""
	}

	t := styles.T()
	title := styles.ApplyBoldGradient("glance", t.Primary, t.Secondary)

	msgStyle := t.S().Muted
	if m.isError {
		msgStyle = t.S().Error
	}
	left := " " + title + "  " + msgStyle.Render(render.Truncate(m.message, width-20))

	var right string
	if m.cacheUsage > 0 {
		right = t.S().Subtle.Render(fmt.Sprintf("cache %s ", humanize.Bytes(uint64(m.cacheUsage)))) //nolint:gosec // usage is non-negative
	}

	return render.Row(left, right, width)
}
