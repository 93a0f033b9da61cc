// Package gallery implements the folder browser panel. It lists
// directories and image files; the selected image is previewed by the
// picture pane next to it.
package gallery

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/glance/internal/ui"
)

// SelectionChangedMsg is sent when the current folder or selection changes.
type SelectionChangedMsg struct {
	CurrentPath  string
	SelectedName string
}

type Model struct {
	path       string
	entries    []Entry
	cursor     int
	offset     int
	width      int
	height     int
	focused    bool
	sortMode   string
	showHidden bool
	loadErr    error
}

func New(path, sortMode string) (Model, error) {
	if sortMode == "" {
		sortMode = SortByName
	}
	m := Model{
		path:     path,
		sortMode: sortMode,
		focused:  true,
	}

	if err := m.refresh(); err != nil {
		return Model{}, err
	}

	return m, nil
}

func (m *Model) refresh() error {
	entries, err := ListDir(m.path, m.sortMode, m.showHidden)
	if err != nil {
		m.loadErr = err
		return err
	}
	m.loadErr = nil
	m.entries = entries

	if m.cursor >= len(m.entries) {
		m.cursor = max(0, len(m.entries)-1)
	}
	return nil
}

func (m *Model) adjustOffset() {
	listHeight := m.height - ui.PanelOverhead
	if listHeight <= 0 {
		return
	}

	// Keep margin items above cursor when possible
	if m.cursor < m.offset+ui.ScrollMargin {
		m.offset = max(m.cursor-ui.ScrollMargin, 0)
	}

	// Keep margin items below cursor when possible
	if m.cursor >= m.offset+listHeight-ui.ScrollMargin {
		m.offset = m.cursor - listHeight + ui.ScrollMargin + 1
	}

	// Clamp offset to valid range
	maxOffset := max(len(m.entries)-listHeight, 0)
	m.offset = min(m.offset, maxOffset)
}

func (m *Model) centerCursor() {
	listHeight := m.height - ui.PanelOverhead
	if listHeight <= 0 {
		return
	}

	m.offset = max(m.cursor-listHeight/2, 0)
	maxOffset := max(len(m.entries)-listHeight, 0)
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
}

// FocusByName selects the entry with the given name.
// If not found, selection stays at current position.
func (m *Model) FocusByName(name string) {
	for i, e := range m.entries {
		if e.Name == name {
			m.cursor = i
			m.centerCursor()
			return
		}
	}
}

func (m Model) Selected() *Entry {
	if len(m.entries) == 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return &m.entries[m.cursor]
}

// CurrentPath returns the path of the folder being listed.
func (m Model) CurrentPath() string {
	return m.path
}

// SelectedName returns the name of the selected entry, or empty if none.
func (m Model) SelectedName() string {
	if selected := m.Selected(); selected != nil {
		return selected.Name
	}
	return ""
}

// Entries returns the entries in the current folder.
func (m Model) Entries() []Entry {
	return m.entries
}

// SortMode returns the active sort ordering.
func (m Model) SortMode() string {
	return m.sortMode
}

func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.adjustOffset()
}

func (m Model) selectionChangedCmd() tea.Cmd {
	return func() tea.Msg {
		return SelectionChangedMsg{
			CurrentPath:  m.CurrentPath(),
			SelectedName: m.SelectedName(),
		}
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var navChanged bool

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.adjustOffset()
				navChanged = true
			}

		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.adjustOffset()
				navChanged = true
			}

		case "g", "home":
			if m.cursor != 0 {
				m.cursor = 0
				m.offset = 0
				navChanged = true
			}

		case "G", "end":
			if last := len(m.entries) - 1; last >= 0 && m.cursor != last {
				m.cursor = last
				m.adjustOffset()
				navChanged = true
			}

		case "pgup":
			if page := m.height - ui.PanelOverhead; page > 0 && m.cursor > 0 {
				m.cursor = max(m.cursor-page, 0)
				m.adjustOffset()
				navChanged = true
			}

		case "pgdown":
			if page := m.height - ui.PanelOverhead; page > 0 && m.cursor < len(m.entries)-1 {
				m.cursor = min(m.cursor+page, len(m.entries)-1)
				m.adjustOffset()
				navChanged = true
			}

		case "left", "h":
			parent := filepath.Dir(m.path)
			if parent != m.path {
				prevName := filepath.Base(m.path)
				m.path = parent
				m.cursor = 0
				m.offset = 0
				_ = m.refresh()
				m.FocusByName(prevName)
				navChanged = true
			}

		case "right", "l", "enter":
			if selected := m.Selected(); selected != nil && selected.IsDir {
				m.path = selected.Path
				m.cursor = 0
				m.offset = 0
				_ = m.refresh()
				navChanged = true
			}

		case ".":
			m.showHidden = !m.showHidden
			_ = m.refresh()
			navChanged = true

		case "s":
			if m.sortMode == SortByName {
				m.sortMode = SortByMtime
			} else {
				m.sortMode = SortByName
			}
			name := m.SelectedName()
			_ = m.refresh()
			m.FocusByName(name)
			navChanged = true
		}
	}

	if navChanged {
		return m, m.selectionChangedCmd()
	}
	return m, nil
}
