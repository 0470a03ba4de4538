// Package client provides the HTTP and WebSocket clients for the agent
// server. Types mirror the server wire protocol without importing server
// packages, so this package stays a self-contained SDK boundary.
package client

import "encoding/json"

// Notification channels emitted by the server. Application events may arrive
// on any of the first three; the payload wrapping differs per channel, which
// is why every handler funnels through event.Normalize.
const (
	ChannelUserEvent     = "user_event"
	ChannelCallUserEvent = "call.user_event"
	ChannelGenericEvent  = "event"

	ChannelRoomJoined = "room.joined"
	ChannelRoomLeft   = "room.left"
	ChannelDestroy    = "destroy"
)

// Credential is the token endpoint's success response. A fresh credential is
// fetched for every connection attempt and never reused.
type Credential struct {
	Token       string `json:"token"`
	Destination string `json:"address"`
}

// AudioParams carries the audio constraints sent with a dial request.
type AudioParams struct {
	EchoCancellation bool `json:"echoCancellation"`
	NoiseSuppression bool `json:"noiseSuppression"`
	AutoGainControl  bool `json:"autoGainControl"`
}

// MediaParams carries the media constraints and identifying metadata for a
// dial request. The server treats these as opaque call metadata.
type MediaParams struct {
	Audio          AudioParams       `json:"audio"`
	Video          bool              `json:"video"`
	NegotiateVideo bool              `json:"negotiateVideo"`
	UserVariables  map[string]string `json:"userVariables,omitempty"`
}

// DefaultMediaParams returns the fixed constraints used for agent calls.
func DefaultMediaParams() MediaParams {
	return MediaParams{
		Audio: AudioParams{
			EchoCancellation: true,
			NoiseSuppression: true,
			AutoGainControl:  true,
		},
		Video:          true,
		NegotiateVideo: true,
		UserVariables: map[string]string{
			"callOriginHref": "call-tui",
		},
	}
}

// request is the envelope for client-to-server commands.
type request struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Destination string       `json:"destination,omitempty"`
	Media       *MediaParams `json:"media,omitempty"`
}

// serverMessage is the envelope for everything the server sends: command
// results (correlated by ID) and channel notifications.
type serverMessage struct {
	Type    string          `json:"type"` // "result" or "notify"
	ID      string          `json:"id,omitempty"`
	Channel string          `json:"channel,omitempty"`
	Error   *WireError      `json:"error,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WireError is a command failure reported by the server.
type WireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *WireError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}
