// Package ui provides shared UI constants and utilities.
package ui

// Layout constants for consistent sizing across UI components.
const (
	// ScrollMargin is the number of items to keep visible above/below the cursor.
	ScrollMargin = 5

	// BorderHeight is the vertical space consumed by a standard panel border.
	BorderHeight = 2

	// HeaderHeight is the space for header + separator in panels.
	HeaderHeight = 2

	// PanelOverhead is the total vertical overhead (border + header + separator).
	// Used to calculate available list height: listHeight = panelHeight - PanelOverhead
	PanelOverhead = BorderHeight + HeaderHeight

	// StatusBarHeight is the height of the bottom status bar.
	StatusBarHeight = 1

	// BrowserWidthDivisor determines the width ratio between the browser
	// and the image pane. The browser gets 1/BrowserWidthDivisor of the width.
	BrowserWidthDivisor = 3
)
