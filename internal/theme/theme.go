// Package theme provides the Lip Gloss color palette and reusable styles
// for the call console TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Connection state colors.
var (
	ColorIdle          = lipgloss.Color("#4b5563")
	ColorConnecting    = lipgloss.Color("#d97706")
	ColorConnected     = lipgloss.Color("#22c55e")
	ColorDisconnecting = lipgloss.Color("#854d0e")
	ColorDisconnected  = lipgloss.Color("#6b7280")
	ColorError         = lipgloss.Color("#dc2626")
)

// Event kind colors.
var (
	ColorGreeting = lipgloss.Color("#a855f7")
	ColorEcho     = lipgloss.Color("#3b82f6")
	ColorCounter  = lipgloss.Color("#06b6d4")
	ColorUnknown  = lipgloss.Color("#9ca3af")
)

// UI chrome colors.
var (
	ColorBorder    = lipgloss.Color("#4b5563")
	ColorDimmed    = lipgloss.Color("#6b7280")
	ColorBright    = lipgloss.Color("#f9fafb")
	ColorHealthy   = lipgloss.Color("#22c55e")
	ColorWarning   = lipgloss.Color("#d97706")
	ColorDanger    = lipgloss.Color("#dc2626")
	ColorHighlight = lipgloss.Color("#fbbf24")
)

// Shared styles.
var (
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	StylePanel = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)
)
