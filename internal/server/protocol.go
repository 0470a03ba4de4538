package server

import "encoding/json"

// Wire types for the call fabric WebSocket. These mirror what clients send
// without importing the client package; the wire format is the contract.

// Request types a client may issue.
const (
	reqDial   = "dial"
	reqStart  = "start"
	reqHangup = "hangup"
)

// clientRequest is a command sent by a connected client, acknowledged by ID.
type clientRequest struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Destination string          `json:"destination,omitempty"`
	Media       json.RawMessage `json:"media,omitempty"`
}

// wireError is a structured command failure.
type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// resultMessage acknowledges a request by ID.
type resultMessage struct {
	Type  string     `json:"type"`
	ID    string     `json:"id"`
	Error *wireError `json:"error,omitempty"`
}

// notifyMessage carries an asynchronous notification on a channel.
type notifyMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Payload any    `json:"payload"`
}

func resultOK(id string) resultMessage {
	return resultMessage{Type: "result", ID: id}
}

func resultErr(id, code, msg string) resultMessage {
	return resultMessage{Type: "result", ID: id, Error: &wireError{Code: code, Message: msg}}
}

func notify(channel string, payload any) notifyMessage {
	return notifyMessage{Type: "notify", Channel: channel, Payload: payload}
}
