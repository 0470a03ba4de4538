// Package call owns the connection lifecycle: the ordered connect handshake,
// the teardown path, and the single source of truth for connection state.
package call

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/agent-call/console/internal/client"
	"github.com/agent-call/console/internal/event"
)

// TokenSource fetches a fresh credential per connection attempt.
type TokenSource interface {
	FetchToken(ctx context.Context) (client.Credential, error)
}

// Fabric creates authenticated sessions against the communication backend.
type Fabric interface {
	CreateSession(ctx context.Context, token string) (Session, error)
}

// Session is a live fabric connection.
type Session interface {
	On(channel string, h func(json.RawMessage))
	Dial(ctx context.Context, destination string, media client.MediaParams) (Call, error)
	Close() error
}

// Call is an established call on a session.
type Call interface {
	On(channel string, h func(json.RawMessage))
	Start(ctx context.Context) error
	Hangup(ctx context.Context) error
}

const noticeBuffer = 64

// Controller drives the connect handshake and teardown path. It is the only
// writer of the connection state and the session handle; everything else
// observes through the notice queue.
type Controller struct {
	tokens  TokenSource
	fabric  Fabric
	notices chan Notice

	mu    sync.Mutex
	state State
	sess  Session
	call  Call
}

// NewController creates a controller in StateIdle.
func NewController(tokens TokenSource, fabric Fabric) *Controller {
	return &Controller{
		tokens:  tokens,
		fabric:  fabric,
		notices: make(chan Notice, noticeBuffer),
		state:   StateIdle,
	}
}

// Notices returns the controller's outbound queue. The UI pumps it; state
// transitions, log lines, and application events arrive in order.
func (c *Controller) Notices() <-chan Notice { return c.notices }

// State returns the current connection state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect runs the connect handshake: fetch token, create session, subscribe,
// dial, subscribe to call notifications, start. Each step short-circuits to
// the error path, which always settles the controller in StateDisconnected.
// Connect is a logged no-op while a session exists or a transition is in
// flight.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.sess != nil || c.state == StateConnected {
		c.mu.Unlock()
		c.log("sys", "already connected")
		return nil
	}
	if c.state == StateConnecting || c.state == StateDisconnecting {
		c.mu.Unlock()
		c.log("sys", "connect ignored while "+c.State().String())
		return nil
	}
	c.setStateLocked(StateConnecting)
	c.mu.Unlock()
	c.log("sys", "connecting...")

	cred, err := c.tokens.FetchToken(ctx)
	if err != nil {
		return c.fail(wrap(CodeAuth, err))
	}
	c.log("sys", "token acquired, destination "+cred.Destination)

	sess, err := c.fabric.CreateSession(ctx, cred.Token)
	if err != nil {
		return c.fail(wrap(CodeClientInit, err))
	}
	c.mu.Lock()
	c.sess = sess
	c.mu.Unlock()

	// The backend has shipped the same logical event under all three channel
	// conventions over time. Subscribe to each; the normalizer sorts out the
	// shapes, and duplicate delivery is handled as at-least-once.
	for _, ch := range []string{client.ChannelUserEvent, client.ChannelCallUserEvent, client.ChannelGenericEvent} {
		sess.On(ch, c.handleRaw)
	}

	dialed, err := sess.Dial(ctx, cred.Destination, client.DefaultMediaParams())
	if err != nil {
		return c.fail(wrap(CodeDial, err))
	}
	c.mu.Lock()
	c.call = dialed
	c.mu.Unlock()

	dialed.On(client.ChannelUserEvent, c.handleRaw)
	dialed.On(client.ChannelRoomJoined, func(json.RawMessage) {
		c.markJoined()
	})
	dialed.On(client.ChannelRoomLeft, func(json.RawMessage) {
		c.log("call", "room left")
		c.teardown()
	})
	dialed.On(client.ChannelDestroy, func(json.RawMessage) {
		c.log("call", "session destroyed")
		c.teardown()
	})

	if err := dialed.Start(ctx); err != nil {
		return c.fail(wrap(CodeStart, err))
	}
	c.log("call", "call started")
	return nil
}

// Disconnect hangs up gracefully and tears down. A hangup failure is logged
// but never blocks teardown. Disconnect is a logged no-op when there is
// nothing to tear down.
func (c *Controller) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.sess == nil && c.state != StateConnected {
		c.mu.Unlock()
		c.log("sys", "not connected")
		return nil
	}
	if c.state == StateConnecting {
		c.mu.Unlock()
		c.log("sys", "connect in flight, disconnect ignored")
		return nil
	}
	dialed := c.call
	c.setStateLocked(StateDisconnecting)
	c.mu.Unlock()
	c.log("sys", "disconnecting...")

	if dialed != nil {
		if err := dialed.Hangup(ctx); err != nil {
			c.log("err", wrap(CodeHangup, err).Error())
		}
	}
	c.teardown()
	return nil
}

// fail logs the step error, surfaces StateError, then runs teardown so the
// controller never sticks in a failed state.
func (c *Controller) fail(err *Error) error {
	c.log("err", err.Error())
	c.mu.Lock()
	c.setStateLocked(StateError)
	c.mu.Unlock()
	c.teardown()
	return err
}

// teardown clears the session handle and settles in StateDisconnected. It is
// idempotent: repeat invocations (room.left and destroy both firing, or an
// error path racing a remote hangup) are no-ops.
func (c *Controller) teardown() {
	c.mu.Lock()
	sess := c.sess
	c.sess = nil
	c.call = nil
	if c.state != StateDisconnected {
		c.setStateLocked(StateDisconnected)
	}
	c.mu.Unlock()

	if sess != nil {
		sess.Close()
		c.log("sys", "disconnected")
	}
}

// markJoined transitions to StateConnected unless teardown already won.
func (c *Controller) markJoined() {
	c.mu.Lock()
	if c.sess == nil {
		c.mu.Unlock()
		return
	}
	c.setStateLocked(StateConnected)
	c.mu.Unlock()
	c.log("call", "room joined")
}

// handleRaw is the single funnel for every application-event channel.
func (c *Controller) handleRaw(raw json.RawMessage) {
	ev, ok := event.Normalize(raw)
	if !ok {
		return
	}
	c.push(EventNotice{Event: ev})
}

func (c *Controller) setStateLocked(s State) {
	old := c.state
	c.state = s
	c.push(StateNotice{Old: old, New: s})
}

func (c *Controller) log(kind, msg string) {
	c.push(LogNotice{Kind: kind, Message: msg})
}

// push never blocks a handler; if the UI falls behind the buffer, the
// oldest-unread notice semantics are sacrificed and the item is dropped.
func (c *Controller) push(n Notice) {
	select {
	case c.notices <- n:
	default:
	}
}

// WrapFabric adapts the concrete client.Fabric to the Fabric interface.
func WrapFabric(f *client.Fabric) Fabric { return fabricAdapter{f} }

type fabricAdapter struct{ f *client.Fabric }

func (a fabricAdapter) CreateSession(ctx context.Context, token string) (Session, error) {
	s, err := a.f.CreateSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return sessionAdapter{s}, nil
}

type sessionAdapter struct{ s *client.Session }

func (a sessionAdapter) On(channel string, h func(json.RawMessage)) { a.s.On(channel, h) }
func (a sessionAdapter) Close() error                               { return a.s.Close() }

func (a sessionAdapter) Dial(ctx context.Context, destination string, media client.MediaParams) (Call, error) {
	dialed, err := a.s.Dial(ctx, destination, media)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", destination, err)
	}
	return dialed, nil
}
