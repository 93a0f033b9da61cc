package picture

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/glance/internal/engine"
)

// ScalePolicy controls how a decoded image maps onto the pane.
type ScalePolicy int

const (
	// ScaleFit shrinks the image to fit the pane, preserving aspect.
	ScaleFit ScalePolicy = iota
	// ScaleFill covers the pane, cropping overflow.
	ScaleFill
	// ScaleStretch distorts the image to the exact pane size.
	ScaleStretch
	// ScaleNone keeps the decoded size.
	ScaleNone
)

// Adjust describes optional color adjustments applied before display.
// Brightness and Saturation are relative changes in [-1, 1]; zero means
// untouched.
type Adjust struct {
	Brightness float64
	Saturation float64
	Grayscale  bool
}

func (a Adjust) active() bool {
	return a.Brightness != 0 || a.Saturation != 0 || a.Grayscale
}

// Options configures how a picture renders and when it reloads.
type Options struct {
	// HAlign and VAlign position the image inside the pane.
	HAlign lipgloss.Position
	VAlign lipgloss.Position

	Scale  ScalePolicy
	Adjust Adjust

	// Placeholder renders the pane while a load is in progress. Nil
	// gets a centered spinner.
	Placeholder func(width, height int) string

	// FailureView renders the pane after a failed load. Nil leaves the
	// pane empty, deferring to the caller's own content.
	FailureView func(err error, width, height int) string

	// ShouldReload decides whether a pane size change triggers a new
	// load. Nil reloads on any change.
	ShouldReload func(previous, next engine.Size) bool

	// OnComplete is invoked exactly once per terminal result.
	OnComplete func(engine.Result)
}

func (o Options) shouldReload(previous, next engine.Size) bool {
	if o.ShouldReload != nil {
		return o.ShouldReload(previous, next)
	}
	return previous != next
}
