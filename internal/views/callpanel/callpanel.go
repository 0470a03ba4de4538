// Package callpanel renders the media surface and the three transient
// event displays (greeting, echo, counter). The counter display rolls to
// its new value with a spring animation.
package callpanel

import (
	"fmt"
	"math"

	"github.com/agent-call/console/internal/theme"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

// FPS is the frame rate of the counter roll animation.
const FPS = 30

// Field identifies one of the transient displays.
type Field int

const (
	FieldGreeting Field = iota
	FieldEcho
	FieldCounter
)

// Model holds the call panel state.
type Model struct {
	Live  bool // room joined: media surface active, placeholder hidden
	Width int

	Greeting string
	Echo     string

	GreetingHot bool
	EchoHot     bool
	CounterHot  bool

	counter   int
	shown     float64
	velocity  float64
	spring    harmonica.Spring
	animating bool
}

// New creates an empty call panel.
func New() Model {
	return Model{
		spring: harmonica.NewSpring(harmonica.FPS(FPS), 8.0, 0.7),
	}
}

// SetGreeting updates the greeting display and arms its highlight.
func (m *Model) SetGreeting(name string) {
	m.Greeting = name
	m.GreetingHot = true
}

// SetEcho updates the echo display and arms its highlight.
func (m *Model) SetEcho(message string) {
	m.Echo = message
	m.EchoHot = true
}

// SetCounter updates the counter target, arms its highlight, and starts the
// roll animation toward the new value.
func (m *Model) SetCounter(count int) {
	m.counter = count
	m.CounterHot = true
	m.animating = true
}

// Counter returns the target counter value.
func (m *Model) Counter() int { return m.counter }

// Animating reports whether the counter roll still needs frames.
func (m *Model) Animating() bool { return m.animating }

// Animate advances the counter spring one frame and reports whether more
// frames are needed.
func (m *Model) Animate() bool {
	if !m.animating {
		return false
	}
	target := float64(m.counter)
	m.shown, m.velocity = m.spring.Update(m.shown, m.velocity, target)
	if math.Abs(m.shown-target) < 0.05 && math.Abs(m.velocity) < 0.05 {
		m.shown = target
		m.velocity = 0
		m.animating = false
	}
	return m.animating
}

// ClearHighlight drops the transient highlight on one field.
func (m *Model) ClearHighlight(f Field) {
	switch f {
	case FieldGreeting:
		m.GreetingHot = false
	case FieldEcho:
		m.EchoHot = false
	case FieldCounter:
		m.CounterHot = false
	}
}

// Reset restores the placeholder surface on teardown. Display values are
// kept so the last conversation remains visible in the panel.
func (m *Model) Reset() {
	m.Live = false
	m.GreetingHot = false
	m.EchoHot = false
	m.CounterHot = false
}

// View renders the media surface and the three displays.
func (m Model) View() string {
	innerW := m.Width - 4
	if innerW < 30 {
		innerW = 30
	}

	var surface string
	if m.Live {
		surface = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● LIVE") +
			theme.StyleDimmed.Render("  agent media active")
	} else {
		surface = theme.StyleDimmed.Render("▢ no call (media placeholder)")
	}

	rows := []string{
		theme.StyleHeader.Render(" CALL "),
		surface,
		"",
		field("greeting", displayOr(m.Greeting, "—"), m.GreetingHot),
		field("echo", displayOr(m.Echo, "—"), m.EchoHot),
		field("counter", fmt.Sprintf("%d", int(math.Round(m.shown))), m.CounterHot),
	}

	return theme.StylePanel.Width(innerW).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func field(label, value string, hot bool) string {
	labelStr := theme.StyleDimmed.Width(10).Render(label)
	if hot {
		return labelStr + theme.StyleHighlight.Render(value)
	}
	return labelStr + lipgloss.NewStyle().Foreground(theme.ColorBright).Render(value)
}

func displayOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
