package tui

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Detail Viewport Margins
	ViewportWidthMargin  = 4 // Horizontal space reserved around the detail viewport
	ViewportHeightMargin = 6 // Title (2) + footer (2) + status bar + spacing
)
