package call

import "github.com/agent-call/console/internal/event"

// Notice is an item on the controller's outbound queue. State transitions,
// log lines, and classified application events all travel the same queue so
// the UI consumes them in arrival order.
type Notice interface {
	notice()
}

// StateNotice reports a connection state transition.
type StateNotice struct {
	Old State
	New State
}

// LogNotice carries a line for the event log. Kind matches the event log's
// kind column ("sys", "call", "app", "err").
type LogNotice struct {
	Kind    string
	Message string
}

// EventNotice carries a classified application event.
type EventNotice struct {
	Event event.Event
}

func (StateNotice) notice() {}
func (LogNotice) notice()   {}
func (EventNotice) notice() {}
