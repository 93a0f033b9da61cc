package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/glance/internal/state"
)

func TestResolveStart_URLArg(t *testing.T) {
	dir := t.TempDir()

	start, err := resolveStart("https://example.com/cat.png", nil, dir)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cat.png", start.url)
	assert.Equal(t, dir, start.dir)
}

func TestResolveStart_FileArgFocusesEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sunset.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	start, err := resolveStart(path, nil, "")
	require.NoError(t, err)
	assert.Equal(t, dir, start.dir)
	assert.Equal(t, "sunset.jpg", start.focus)
	assert.Empty(t, start.url)
}

func TestResolveStart_DirArgOverridesSavedState(t *testing.T) {
	saved := t.TempDir()
	arg := t.TempDir()
	nav := &state.NavigationState{CurrentPath: saved, SelectedName: "old.png"}

	start, err := resolveStart(arg, nav, "")
	require.NoError(t, err)
	assert.Equal(t, arg, start.dir)
	assert.Empty(t, start.focus, "saved selection belongs to another folder")
}

func TestResolveStart_MissingPathFails(t *testing.T) {
	_, err := resolveStart(filepath.Join(t.TempDir(), "gone"), nil, "")
	assert.Error(t, err)
}

func TestResolveStart_SavedStateBeatsDefault(t *testing.T) {
	saved := t.TempDir()
	nav := &state.NavigationState{
		CurrentPath:  saved,
		SelectedName: "pic.png",
		SortMode:     "mtime",
	}

	start, err := resolveStart("", nav, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, saved, start.dir)
	assert.Equal(t, "pic.png", start.focus)
	assert.Equal(t, "mtime", start.sortMode)
}

func TestResolveStart_VanishedSavedPathFallsBack(t *testing.T) {
	fallback := t.TempDir()
	nav := &state.NavigationState{CurrentPath: filepath.Join(fallback, "gone")}

	start, err := resolveStart("", nav, fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, start.dir)
}

func TestResolveStart_DefaultsToWorkingDirectory(t *testing.T) {
	start, err := resolveStart("", nil, "")
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, start.dir)
}
