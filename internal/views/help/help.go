// Package help renders the markdown help overlay.
package help

import (
	"github.com/agent-call/console/internal/theme"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# Agent Call Console

Talk to the example agent over a real-time call. The agent reacts with
*user events* that light up the call panel:

| Event | Display |
|---|---|
| greeting | greets you by name |
| echo | repeats what you said |
| counter_updated | rolls the counter to its new value |

## Keys

- ` + "`c`" + ` connect (fetches a fresh token each time)
- ` + "`x`" + ` disconnect
- ` + "`j`/`k`" + ` scroll the event log
- ` + "`?`" + ` toggle this help
- ` + "`q`" + ` quit
`

// Model holds the help overlay state.
type Model struct {
	rendered string
	width    int
}

// New creates the help overlay.
func New() Model {
	return Model{}
}

// View renders the help overlay at the given width.
func (m *Model) View(width int) string {
	innerW := width - 6
	if innerW < 30 {
		innerW = 30
	}

	if m.rendered == "" || m.width != innerW {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(innerW),
		)
		if err == nil {
			if out, rerr := r.Render(helpMarkdown); rerr == nil {
				m.rendered = out
			}
		}
		if m.rendered == "" {
			m.rendered = helpMarkdown
		}
		m.width = innerW
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.rendered,
		theme.StyleDimmed.Render("esc:close"),
	)
	return lipgloss.NewStyle().
		Width(innerW).
		Padding(0, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
