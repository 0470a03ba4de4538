// Package status renders the connection status bar and the
// connect/disconnect control hints.
package status

import (
	"github.com/agent-call/console/internal/call"
	"github.com/agent-call/console/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the status bar state.
type Model struct {
	State call.State
	Width int
}

// New creates a status bar model.
func New() Model {
	return Model{State: call.StateIdle}
}

// View renders the status bar. Control hints follow the enablement
// invariant: connect is available iff not connected, disconnect iff
// connected.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	glyph, color := stateGlyph(m.State)
	stateStr := lipgloss.NewStyle().Foreground(color).Render(glyph + " " + m.State.String())

	connectHint := control("c:connect", m.State.CanConnect())
	disconnectHint := control("x:disconnect", m.State.CanDisconnect())

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := theme.StyleHeader.Render("AGENT CALL") + sep + stateStr + sep + connectHint + "  " + disconnectHint

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}

func control(label string, enabled bool) string {
	if enabled {
		return lipgloss.NewStyle().Foreground(theme.ColorBright).Render(label)
	}
	return theme.StyleDimmed.Render(label)
}

func stateGlyph(s call.State) (string, lipgloss.Color) {
	switch s {
	case call.StateConnected:
		return "●", theme.ColorConnected
	case call.StateConnecting:
		return "◌", theme.ColorConnecting
	case call.StateDisconnecting:
		return "◌", theme.ColorDisconnecting
	case call.StateError:
		return "✗", theme.ColorError
	case call.StateDisconnected:
		return "○", theme.ColorDisconnected
	default:
		return "○", theme.ColorIdle
	}
}
