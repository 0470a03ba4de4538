// Package agent runs the scripted conversational agent. It stands in for
// the AI side of the call: once a call starts it joins the room and emits
// user events (greeting, echo, counter_updated) on an interval until the
// call ends.
package agent

import (
	"context"
	"time"
)

// Notification channels. The user-event channels rotate per script cycle so
// clients see every envelope convention the fabric has ever shipped.
const (
	chanUserEvent     = "user_event"
	chanCallUserEvent = "call.user_event"
	chanGeneric       = "event"

	chanRoomJoined = "room.joined"
	chanRoomLeft   = "room.left"
)

// Emitter delivers a notification to the connected client.
type Emitter interface {
	Notify(channel string, payload any) error
}

// Agent holds the conversation script state for one call. The counter
// persists for the life of the call, like the original conversation state.
type Agent struct {
	name     string
	interval time.Duration
	step     int
	count    int
}

// New creates an agent with the given display name and script interval.
func New(name string, interval time.Duration) *Agent {
	return &Agent{name: name, interval: interval}
}

var (
	names   = []string{"Ana", "Ben", "Chloe"}
	phrases = []string{"hello agent", "the counter works", "talk to you soon"}
	incs    = []int{1, 1, 2}
)

// Step produces the next scripted user event, shaped per the rotating
// envelope conventions: bare payload, event-wrapped, or generic envelope
// with an event_type discriminator.
func (a *Agent) Step() (channel string, payload any) {
	cycle := a.step / 3
	ev := a.nextEvent(a.step%3, cycle)
	a.step++

	switch cycle % 3 {
	case 0:
		return chanUserEvent, ev
	case 1:
		return chanCallUserEvent, map[string]any{"event": ev}
	default:
		return chanGeneric, map[string]any{"event_type": "user_event", "params": ev}
	}
}

func (a *Agent) nextEvent(kind, cycle int) map[string]any {
	ts := time.Now().Format("15:04:05")
	switch kind {
	case 0:
		return map[string]any{
			"type":      "greeting",
			"name":      names[cycle%len(names)],
			"timestamp": ts,
		}
	case 1:
		return map[string]any{
			"type":      "echo",
			"message":   phrases[cycle%len(phrases)],
			"timestamp": ts,
		}
	default:
		inc := incs[cycle%len(incs)]
		a.count += inc
		ev := map[string]any{
			"type":      "counter_updated",
			"count":     a.count,
			"timestamp": ts,
		}
		// An increment of 1 is the wire default and stays implicit.
		if inc != 1 {
			ev["increment"] = inc
		}
		return ev
	}
}

// Run joins the room, plays the script until the context is cancelled, and
// leaves the room on the way out. Emit failures end the run; the transport
// is gone and the server will reap the connection.
func (a *Agent) Run(ctx context.Context, em Emitter) error {
	if err := em.Notify(chanRoomJoined, map[string]any{"type": "room.joined", "agent": a.name}); err != nil {
		return err
	}
	defer em.Notify(chanRoomLeft, map[string]any{"type": "room.left"})

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			ch, payload := a.Step()
			if err := em.Notify(ch, payload); err != nil {
				return err
			}
		}
	}
}
