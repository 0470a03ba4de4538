// Package event defines the application events emitted by the agent and the
// normalizer that maps raw wire payloads onto them. The fabric delivers the
// same logical event through several channel conventions with inconsistent
// wrapping; everything funnels through Normalize so the rest of the client
// reasons about exactly one event model.
package event

import "encoding/json"

// Event is a classified application event received from the agent.
type Event interface {
	Kind() string
}

// Greeting is emitted when the agent greets a user by name.
type Greeting struct {
	Name string
}

// Echo is emitted when the agent echoes a message back.
type Echo struct {
	Message string
}

// CounterUpdated is emitted when the agent's counter changes.
type CounterUpdated struct {
	Count     int
	Increment int
}

// Unknown carries an application event with an unrecognized type. It is
// surfaced (not dropped) so new agent events show up in the log.
type Unknown struct {
	RawType string
	Data    json.RawMessage
}

func (Greeting) Kind() string       { return "greeting" }
func (Echo) Kind() string           { return "echo" }
func (CounterUpdated) Kind() string { return "counter_updated" }
func (e Unknown) Kind() string      { return e.RawType }
