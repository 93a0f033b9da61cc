package picture

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/glance/internal/engine"
)

// View renders the pane's text layer. Image pixels ride on top via
// Placement; the text layer only reserves space so lipgloss can measure
// layout without seeing escape sequences.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	if m.loading {
		if m.opts.Placeholder != nil {
			return m.opts.Placeholder(m.width, m.height)
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.spinner.View())
	}

	switch res := m.result.(type) {
	case engine.Success:
		if m.proto != nil {
			return m.proto.Placeholder(m.width, m.height)
		}
		return blankPane(m.width, m.height)

	case engine.Failure:
		if m.opts.FailureView != nil {
			return m.opts.FailureView(res.Err, m.width, m.height)
		}
		// No custom failure rendering: the pane stays empty and the
		// caller's own content shows through.
		return blankPane(m.width, m.height)
	}

	return blankPane(m.width, m.height)
}

func blankPane(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, "")
}
