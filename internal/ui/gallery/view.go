package gallery

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/glance/internal/ui"
	"github.com/llehouerou/glance/internal/ui/render"
	"github.com/llehouerou/glance/internal/ui/styles"
)

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Account for border (2 chars each side)
	innerWidth := m.width - ui.BorderHeight
	listHeight := m.height - ui.PanelOverhead

	header := render.TruncateAndPad(m.path, innerWidth)
	separator := render.Separator(innerWidth)

	var lines []string
	if m.loadErr != nil {
		lines = []string{render.TruncateAndPad(m.loadErr.Error(), innerWidth)}
	} else if len(m.entries) == 0 {
		lines = []string{render.TruncateAndPad("  (no images)", innerWidth)}
	}

	for i := len(lines); i < listHeight; i++ {
		idx := i + m.offset
		if idx >= len(m.entries) {
			lines = append(lines, render.EmptyLine(innerWidth))
			continue
		}
		lines = append(lines, m.renderEntry(m.entries[idx], idx, innerWidth))
	}
	if len(lines) > listHeight && listHeight > 0 {
		lines = lines[:listHeight]
	}

	content := styles.T().S().Title.Render(header) + "\n" + separator + "\n" + strings.Join(lines, "\n")

	return styles.PanelStyle(m.focused).Width(innerWidth).Render(content)
}

func (m Model) renderEntry(e Entry, idx, width int) string {
	prefix := "  "
	if idx == m.cursor {
		prefix = "> "
	}

	name := e.Name
	if e.IsDir {
		name += "/"
	}

	var right string
	if !e.IsDir {
		right = humanize.Bytes(uint64(e.Size)) //nolint:gosec // file sizes are non-negative
	}

	maxNameWidth := width - len(prefix)
	if right != "" {
		maxNameWidth -= runewidth.StringWidth(right) + 1
	}
	name = render.Truncate(name, maxNameWidth)

	line := prefix + name
	if right != "" {
		padding := width - runewidth.StringWidth(line) - runewidth.StringWidth(right)
		if padding < 1 {
			padding = 1
		}
		line += strings.Repeat(" ", padding) + right
	} else {
		line = render.Pad(line, width)
	}

	if idx == m.cursor && m.focused {
		return styles.T().S().Cursor.Render(line)
	}
	if e.IsDir {
		return styles.T().S().Title.Render(line)
	}
	return styles.T().S().Base.Render(line)
}
