package event

import (
	"bytes"
	"encoding/json"
)

// lifecycleTypes are session-level notification types owned by the call
// lifecycle. They are never surfaced as application events.
var lifecycleTypes = map[string]struct{}{
	"room.joined":      {},
	"room.left":        {},
	"member.joined":    {},
	"member.left":      {},
	"playback.started": {},
	"playback.ended":   {},
}

// envelope covers the wrapping variants seen on the wire: some channels
// deliver the payload under "params", some under "event", some bare.
type envelope struct {
	Params json.RawMessage `json:"params"`
	Event  json.RawMessage `json:"event"`
}

type payload struct {
	Type      any    `json:"type"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	Count     int    `json:"count"`
	Increment *int   `json:"increment"`
}

// Normalize maps a raw inbound payload to a classified application event.
// It returns false for anything that is not an application event: payloads
// without a string "type" field, and types in the reserved lifecycle set.
// Only one level of unwrapping is attempted; "params" wins over "event".
func Normalize(raw json.RawMessage) (Event, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	working := raw
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		switch {
		case present(env.Params):
			working = env.Params
		case present(env.Event):
			working = env.Event
		}
	}

	var p payload
	if err := json.Unmarshal(working, &p); err != nil {
		return nil, false
	}
	typ, ok := p.Type.(string)
	if !ok {
		return nil, false
	}
	if _, reserved := lifecycleTypes[typ]; reserved {
		return nil, false
	}

	switch typ {
	case "greeting":
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		return Greeting{Name: name}, true
	case "echo":
		return Echo{Message: p.Message}, true
	case "counter_updated":
		inc := 1
		if p.Increment != nil {
			inc = *p.Increment
		}
		return CounterUpdated{Count: p.Count, Increment: inc}, true
	default:
		data := append(json.RawMessage(nil), working...)
		return Unknown{RawType: typ, Data: data}, true
	}
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
