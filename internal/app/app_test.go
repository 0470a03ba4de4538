package app

import (
	"strings"
	"testing"

	"github.com/agent-call/console/internal/call"
	"github.com/agent-call/console/internal/event"
	"github.com/agent-call/console/internal/views/callpanel"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel() Model {
	m := New(call.NewController(nil, nil))
	m.width = 80
	m.height = 24
	m.statusBar.Width = 80
	m.panel.Width = 80
	return m
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func TestStateNoticeReflectsStatus(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, noticeMsg{n: call.StateNotice{Old: call.StateIdle, New: call.StateConnecting}})
	if m.statusBar.State != call.StateConnecting {
		t.Errorf("status state = %v, want connecting", m.statusBar.State)
	}

	m, _ = update(t, m, noticeMsg{n: call.StateNotice{Old: call.StateConnecting, New: call.StateConnected}})
	if !m.panel.Live {
		t.Error("connected state should activate the media surface")
	}

	m, _ = update(t, m, noticeMsg{n: call.StateNotice{Old: call.StateConnected, New: call.StateDisconnected}})
	if m.panel.Live {
		t.Error("disconnected state should restore the placeholder")
	}
}

func TestGreetingEventUpdatesPanelAndLog(t *testing.T) {
	m := newTestModel()

	m, cmd := update(t, m, noticeMsg{n: call.EventNotice{Event: event.Greeting{Name: "Ana"}}})
	if m.panel.Greeting != "Ana" {
		t.Errorf("panel greeting = %q, want Ana", m.panel.Greeting)
	}
	if !m.panel.GreetingHot {
		t.Error("greeting highlight should be armed")
	}
	if cmd == nil {
		t.Error("greeting should schedule a highlight clear")
	}
	if len(m.log.Entries) != 1 || !strings.Contains(m.log.Entries[0].Message, "Ana") {
		t.Errorf("log entries = %v, want one greeting line", m.log.Entries)
	}

	m, _ = update(t, m, clearHighlightMsg{field: callpanel.FieldGreeting})
	if m.panel.GreetingHot {
		t.Error("clear message should drop the highlight")
	}
}

func TestCounterEventStartsAnimation(t *testing.T) {
	m := newTestModel()

	m, cmd := update(t, m, noticeMsg{n: call.EventNotice{Event: event.CounterUpdated{Count: 4, Increment: 2}}})
	if m.panel.Counter() != 4 {
		t.Errorf("counter = %d, want 4", m.panel.Counter())
	}
	if !m.panel.Animating() {
		t.Error("counter event should start the roll animation")
	}
	if cmd == nil {
		t.Error("counter event should schedule frame and clear commands")
	}
	if len(m.log.Entries) != 1 || !strings.Contains(m.log.Entries[0].Message, "(+2)") {
		t.Errorf("log should record the increment, got %v", m.log.Entries)
	}
}

func TestUnknownEventOnlyLogs(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, noticeMsg{n: call.EventNotice{Event: event.Unknown{RawType: "foobar"}}})
	if m.panel.Greeting != "" || m.panel.Echo != "" {
		t.Error("unknown events must not touch the displays")
	}
	if len(m.log.Entries) != 1 || !strings.Contains(m.log.Entries[0].Message, "foobar") {
		t.Errorf("log should surface the raw type, got %v", m.log.Entries)
	}
}

func TestConnectKeyRespectsEnablement(t *testing.T) {
	m := newTestModel()

	// Idle: connect enabled, disconnect not.
	if _, cmd := m.Update(keyMsg('c')); cmd == nil {
		t.Error("connect should be issued while not connected")
	}
	if _, cmd := m.Update(keyMsg('x')); cmd != nil {
		t.Error("disconnect should be inert while not connected")
	}

	m.statusBar.State = call.StateConnected
	if _, cmd := m.Update(keyMsg('c')); cmd != nil {
		t.Error("connect should be inert while connected")
	}
	if _, cmd := m.Update(keyMsg('x')); cmd == nil {
		t.Error("disconnect should be issued while connected")
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, keyMsg('?'))
	if !m.showHelp {
		t.Fatal("? should open help")
	}
	v := m.View()
	if !strings.Contains(v, "Agent Call") {
		t.Error("help overlay should render")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Error("esc should close help")
	}
}

func TestViewRendersSections(t *testing.T) {
	m := newTestModel()
	m.statusBar.State = call.StateDisconnected
	m, _ = update(t, m, noticeMsg{n: call.LogNotice{Kind: "sys", Message: "disconnected"}})

	v := m.View()
	for _, want := range []string{"AGENT CALL", "CALL", "EVENTS", "disconnected"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
