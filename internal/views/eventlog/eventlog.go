// Package eventlog provides the scrolling event log pane. The log is a
// bounded FIFO: appends past the cap evict the oldest entries, so the buffer
// never holds more than maxEntries after any append.
package eventlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/agent-call/console/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

const maxEntries = 50

// Entry is a single event log line.
type Entry struct {
	Time    time.Time
	Kind    string // "app", "call", "sys", "err"
	Message string
}

// Model holds event log state.
type Model struct {
	Entries []Entry
	Offset  int // scroll offset (from bottom)
}

// New creates an empty event log.
func New() Model {
	return Model{}
}

// Add appends a log entry and caps the buffer.
func (m *Model) Add(kind, message string) {
	m.Entries = append(m.Entries, Entry{
		Time:    time.Now(),
		Kind:    kind,
		Message: message,
	})
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
	// Reset scroll to bottom on new entry.
	m.Offset = 0
}

// ScrollUp moves the viewport up.
func (m *Model) ScrollUp(n int) {
	m.Offset += n
	max := len(m.Entries) - 1
	if max < 0 {
		max = 0
	}
	if m.Offset > max {
		m.Offset = max
	}
}

// ScrollDown moves the viewport down.
func (m *Model) ScrollDown(n int) {
	m.Offset -= n
	if m.Offset < 0 {
		m.Offset = 0
	}
}

// View renders the log as a bordered pane showing the newest entries last.
func (m Model) View(width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}
	visibleLines := height - 3
	if visibleLines < 3 {
		visibleLines = 3
	}

	title := theme.StyleHeader.Render(" EVENTS ")

	if len(m.Entries) == 0 {
		body := theme.StyleDimmed.Render("  No events yet. Press c to connect.")
		content := lipgloss.JoinVertical(lipgloss.Left, title, body)
		return theme.StylePanel.Width(innerW).Render(content)
	}

	end := len(m.Entries) - m.Offset
	start := end - visibleLines
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}

	var lines []string
	for i := start; i < end; i++ {
		e := m.Entries[i]
		tsStr := theme.StyleDimmed.Render(e.Time.Format("15:04:05"))
		kindStr := lipgloss.NewStyle().Foreground(kindToColor(e.Kind)).Width(5).Render(e.Kind)
		msgStr := e.Message
		if len(msgStr) > innerW-16 && innerW > 16 {
			msgStr = msgStr[:innerW-19] + "..."
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", tsStr, kindStr, msgStr))
	}

	body := strings.Join(lines, "\n")
	scrollIndicator := ""
	if m.Offset > 0 {
		scrollIndicator = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d more", m.Offset))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, body, scrollIndicator)
	return theme.StylePanel.Width(innerW).Render(content)
}

func kindToColor(kind string) lipgloss.Color {
	switch kind {
	case "app":
		return theme.ColorEcho
	case "call":
		return theme.ColorHealthy
	case "err":
		return theme.ColorDanger
	case "sys":
		return theme.ColorDimmed
	default:
		return theme.ColorDimmed
	}
}
