// Package ui layout constants for consistent spacing and dimensions.
package ui

// Layout constants for panel sizing.
const (
	// Chrome around the main content area
	HeaderHeight    = 2
	FooterHeight    = 2
	InputHeight     = 3
	StatusBarHeight = 1
	TabBarHeight    = 2

	// Split between the screen list and the detail pane
	ScreenListRatio = 0.32
	PaneDivider     = 1

	// Panel borders and spacing
	PanelBorderWidth = 2
	PanelPaddingH    = 1
	ContentIndent    = 2

	// Diagram pane
	DiagramMinHeight = 12
	DiagramPadding   = 2

	// Responsive breakpoints
	MinimumTerminalWidth  = 80
	MinimumTerminalHeight = 24
	CompactModeWidth      = 100
)

// LayoutConfig provides computed layout dimensions for a terminal size.
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given size.
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// BodyHeight is the height left for the result panes.
func (l LayoutConfig) BodyHeight() int {
	h := l.TerminalHeight - HeaderHeight - FooterHeight - InputHeight - StatusBarHeight - TabBarHeight
	if h < 1 {
		h = 1
	}
	return h
}

// SplitWidths calculates screen-list and detail pane widths.
func SplitWidths(totalWidth int) (listWidth, detailWidth int) {
	listWidth = int(float64(totalWidth) * ScreenListRatio)
	detailWidth = totalWidth - listWidth - PaneDivider
	return
}

// PanelContentWidth returns the content width inside a bordered panel.
func PanelContentWidth(panelWidth int) int {
	return panelWidth - PanelBorderWidth - PanelPaddingH*2
}
