// Package app wires the lifecycle controller's notice queue into the
// Bubble Tea views. It is a pure reflector: it never mutates connection
// state itself, it only issues connect/disconnect commands and projects
// notices onto the UI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/agent-call/console/internal/call"
	"github.com/agent-call/console/internal/event"
	"github.com/agent-call/console/internal/theme"
	"github.com/agent-call/console/internal/views/callpanel"
	"github.com/agent-call/console/internal/views/eventlog"
	"github.com/agent-call/console/internal/views/help"
	"github.com/agent-call/console/internal/views/status"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Highlight lifetimes per display field.
const (
	greetingHighlight = time.Second
	echoHighlight     = time.Second
	counterHighlight  = 500 * time.Millisecond
)

// Model is the root Bubble Tea model.
type Model struct {
	ctrl   *call.Controller
	ctx    context.Context
	cancel context.CancelFunc

	keys   KeyMap
	width  int
	height int

	statusBar status.Model
	panel     callpanel.Model
	log       eventlog.Model
	help      help.Model
	showHelp  bool
}

// Bubble Tea messages.

type noticeMsg struct{ n call.Notice }

type clearHighlightMsg struct{ field callpanel.Field }

type frameMsg struct{}

// New creates the root model around a controller.
func New(ctrl *call.Controller) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		ctrl:      ctrl,
		ctx:       ctx,
		cancel:    cancel,
		keys:      DefaultKeyMap(),
		statusBar: status.New(),
		panel:     callpanel.New(),
		log:       eventlog.New(),
		help:      help.New(),
	}
}

// Init starts pumping the controller's notice queue.
func (m Model) Init() tea.Cmd {
	return m.waitNotice()
}

// waitNotice blocks on the notice queue and re-arms after every receipt.
func (m Model) waitNotice() tea.Cmd {
	ch := m.ctrl.Notices()
	return func() tea.Msg {
		return noticeMsg{n: <-ch}
	}
}

func (m Model) connectCmd() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		ctrl.Connect(ctx)
		return nil
	}
}

func (m Model) disconnectCmd() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		ctrl.Disconnect(ctx)
		return nil
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/callpanel.FPS, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func clearAfter(d time.Duration, f callpanel.Field) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearHighlightMsg{field: f}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.panel.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case noticeMsg:
		return m.handleNotice(msg.n)

	case clearHighlightMsg:
		m.panel.ClearHighlight(msg.field)
		return m, nil

	case frameMsg:
		if m.panel.Animate() {
			return m, frameCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Help) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Connect):
		if m.statusBar.State.CanConnect() {
			return m, m.connectCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Disconnect):
		if m.statusBar.State.CanDisconnect() {
			return m, m.disconnectCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.log.ScrollUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.log.ScrollDown(1)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	}

	return m, nil
}

func (m Model) handleNotice(n call.Notice) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitNotice()}

	switch n := n.(type) {
	case call.StateNotice:
		m.statusBar.State = n.New
		switch n.New {
		case call.StateConnected:
			m.panel.Live = true
		case call.StateDisconnected:
			m.panel.Reset()
		}

	case call.LogNotice:
		m.log.Add(n.Kind, n.Message)

	case call.EventNotice:
		cmds = append(cmds, m.applyEvent(n.Event)...)
	}

	return m, tea.Batch(cmds...)
}

// applyEvent projects one application event onto the displays and the log.
func (m *Model) applyEvent(ev event.Event) []tea.Cmd {
	switch ev := ev.(type) {
	case event.Greeting:
		m.panel.SetGreeting(ev.Name)
		m.log.Add("app", "greeting: Hello "+ev.Name+"!")
		return []tea.Cmd{clearAfter(greetingHighlight, callpanel.FieldGreeting)}

	case event.Echo:
		m.panel.SetEcho(ev.Message)
		m.log.Add("app", "echo: "+ev.Message)
		return []tea.Cmd{clearAfter(echoHighlight, callpanel.FieldEcho)}

	case event.CounterUpdated:
		wasAnimating := m.panel.Animating()
		m.panel.SetCounter(ev.Count)
		m.log.Add("app", fmt.Sprintf("counter: %d (+%d)", ev.Count, ev.Increment))
		cmds := []tea.Cmd{clearAfter(counterHighlight, callpanel.FieldCounter)}
		if !wasAnimating {
			cmds = append(cmds, frameCmd())
		}
		return cmds

	case event.Unknown:
		m.log.Add("app", "unknown event: "+ev.RawType)
		return nil
	}
	return nil
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.showHelp {
		return m.help.View(m.width)
	}

	logHeight := m.height - 14
	if logHeight < 6 {
		logHeight = 6
	}

	sections := []string{
		m.statusBar.View(),
		m.panel.View(),
		m.log.View(m.width, logHeight),
		theme.StyleDimmed.Render("  c:connect  x:disconnect  j/k:scroll  ?:help  q:quit"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
