package gallery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// setupDir creates a temp folder with a mix of images, noise and subfolders.
func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	for _, name := range []string{"b.png", "a.jpg", "notes.txt", ".hidden.png", "c.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	for _, name := range []string{"vacation", ".git"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}

	return dir
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	}
	return tea.KeyMsg{}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.png", true},
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"anim.gif", true},
		{"scan.tiff", true},
		{"scan.tif", true},
		{"modern.webp", true},
		{"old.bmp", true},
		{"song.mp3", false},
		{"notes.txt", false},
		{"noext", false},
		{"dir/photo.png", true},
	}

	for _, tt := range tests {
		if got := IsImageFile(tt.path); got != tt.want {
			t.Errorf("IsImageFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestListDir_FiltersAndSorts(t *testing.T) {
	dir := setupDir(t)

	entries, err := ListDir(dir, SortByName, false)
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}

	// vacation/ first, then a.jpg, b.png, c.webp.
	// notes.txt and dotfiles are filtered out.
	want := []string{"vacation", "a.jpg", "b.png", "c.webp"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, name)
		}
	}
	if !entries[0].IsDir {
		t.Error("directories should sort first")
	}
}

func TestListDir_ShowHidden(t *testing.T) {
	dir := setupDir(t)

	entries, err := ListDir(dir, SortByName, true)
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}

	found := false
	for _, e := range entries {
		if e.Name == ".hidden.png" {
			found = true
		}
	}
	if !found {
		t.Error("expected .hidden.png with showHidden=true")
	}
}

func TestListDir_SortByMtime(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "old.png")
	recent := filepath.Join(dir, "recent.png")
	if err := os.WriteFile(old, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(recent, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	entries, err := ListDir(dir, SortByMtime, false)
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "recent.png" {
		t.Errorf("entries[0].Name = %q, want recent.png (newest first)", entries[0].Name)
	}
}

func TestModel_CursorMovement(t *testing.T) {
	dir := setupDir(t)
	m, err := New(dir, SortByName)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m.SetSize(40, 20)

	if m.SelectedName() != "vacation" {
		t.Fatalf("initial selection = %q, want vacation", m.SelectedName())
	}

	m, cmd := m.Update(keyMsg("down"))
	if m.SelectedName() != "a.jpg" {
		t.Errorf("after down: selection = %q, want a.jpg", m.SelectedName())
	}
	if cmd == nil {
		t.Error("cursor move should emit a selection change")
	}

	msg := cmd()
	changed, ok := msg.(SelectionChangedMsg)
	if !ok {
		t.Fatalf("cmd message = %T, want SelectionChangedMsg", msg)
	}
	if changed.SelectedName != "a.jpg" {
		t.Errorf("SelectionChangedMsg.SelectedName = %q, want a.jpg", changed.SelectedName)
	}

	m, _ = m.Update(keyMsg("up"))
	if m.SelectedName() != "vacation" {
		t.Errorf("after up: selection = %q, want vacation", m.SelectedName())
	}

	// Up at the top is a no-op.
	m, cmd = m.Update(keyMsg("up"))
	if cmd != nil {
		t.Error("up at top should not emit a selection change")
	}

	m, _ = m.Update(keyMsg("end"))
	if m.SelectedName() != "c.webp" {
		t.Errorf("after end: selection = %q, want c.webp", m.SelectedName())
	}

	m, _ = m.Update(keyMsg("home"))
	if m.SelectedName() != "vacation" {
		t.Errorf("after home: selection = %q, want vacation", m.SelectedName())
	}
}

func TestModel_EnterAndLeaveDirectory(t *testing.T) {
	dir := setupDir(t)
	sub := filepath.Join(dir, "vacation")
	if err := os.WriteFile(filepath.Join(sub, "beach.png"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := New(dir, SortByName)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m.SetSize(40, 20)

	// Cursor starts on vacation/; enter it.
	m, _ = m.Update(keyMsg("enter"))
	if m.CurrentPath() != sub {
		t.Fatalf("CurrentPath = %q, want %q", m.CurrentPath(), sub)
	}
	if m.SelectedName() != "beach.png" {
		t.Errorf("selection in subfolder = %q, want beach.png", m.SelectedName())
	}

	// Going left returns to the parent with the subfolder selected.
	m, _ = m.Update(keyMsg("left"))
	if m.CurrentPath() != dir {
		t.Fatalf("CurrentPath = %q, want %q", m.CurrentPath(), dir)
	}
	if m.SelectedName() != "vacation" {
		t.Errorf("selection after leaving = %q, want vacation", m.SelectedName())
	}
}

func TestModel_EnterOnFileIsNoop(t *testing.T) {
	dir := setupDir(t)
	m, err := New(dir, SortByName)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m.SetSize(40, 20)

	m, _ = m.Update(keyMsg("down")) // a.jpg
	before := m.CurrentPath()
	m, _ = m.Update(keyMsg("enter"))
	if m.CurrentPath() != before {
		t.Error("enter on a file should not navigate")
	}
}

func TestModel_ToggleHidden(t *testing.T) {
	dir := setupDir(t)
	m, err := New(dir, SortByName)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m.SetSize(40, 20)

	before := len(m.Entries())
	m, _ = m.Update(keyMsg("."))
	if len(m.Entries()) <= before {
		t.Errorf("entries after toggle = %d, want > %d", len(m.Entries()), before)
	}
}

func TestModel_ToggleSortKeepsSelection(t *testing.T) {
	dir := setupDir(t)
	m, err := New(dir, SortByName)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m.SetSize(40, 20)

	m.FocusByName("b.png")
	m, _ = m.Update(keyMsg("s"))
	if m.SortMode() != SortByMtime {
		t.Errorf("SortMode = %q, want %q", m.SortMode(), SortByMtime)
	}
	if m.SelectedName() != "b.png" {
		t.Errorf("selection after sort toggle = %q, want b.png", m.SelectedName())
	}
}

func TestModel_FocusByName_Missing(t *testing.T) {
	dir := setupDir(t)
	m, err := New(dir, SortByName)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	m.FocusByName("a.jpg")
	m.FocusByName("does-not-exist.png")
	if m.SelectedName() != "a.jpg" {
		t.Errorf("selection = %q, want a.jpg (unchanged)", m.SelectedName())
	}
}

func TestModel_ViewRendersEntries(t *testing.T) {
	dir := setupDir(t)
	m, err := New(dir, SortByName)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m.SetSize(50, 15)

	view := m.View()
	if view == "" {
		t.Fatal("View() returned empty string")
	}
	for _, want := range []string{"vacation/", "a.jpg", "b.png"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
