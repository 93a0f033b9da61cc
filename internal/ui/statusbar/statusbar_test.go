package statusbar

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/llehouerou/glance/internal/engine"
)

func TestView_EmptyWithoutWidth(t *testing.T) {
	m := New()
	if got := m.View(); got != "" {
		t.Errorf("View() = %q, want empty before sizing", got)
	}
}

func TestView_Success(t *testing.T) {
	m := New()
	m.SetSize(80, 1)
	m.SetResult("sunset.jpg", engine.Success{
		Image:      image.NewRGBA(image.Rect(0, 0, 640, 480)),
		Provenance: engine.DiskCache,
	})

	view := m.View()
	for _, want := range []string{"sunset.jpg", "640x480", "disk"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q in %q", want, view)
		}
	}
}

func TestView_Failure(t *testing.T) {
	m := New()
	m.SetSize(80, 1)
	m.SetResult("broken.png", engine.Failure{Err: errors.New("corrupt header")})

	view := m.View()
	if !strings.Contains(view, "corrupt header") {
		t.Errorf("View() missing error text in %q", view)
	}
}

func TestView_CacheUsage(t *testing.T) {
	m := New()
	m.SetSize(80, 1)
	m.SetCacheUsage(12 * 1024 * 1024)

	if !strings.Contains(m.View(), "cache") {
		t.Errorf("View() missing cache usage in %q", m.View())
	}
}

func TestView_Loading(t *testing.T) {
	m := New()
	m.SetSize(80, 1)
	m.SetLoading("big.png")

	if !strings.Contains(m.View(), "loading") {
		t.Errorf("View() missing loading marker in %q", m.View())
	}
}
