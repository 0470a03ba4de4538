package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// ErrSessionClosed is returned by requests issued after the transport closed.
var ErrSessionClosed = errors.New("session closed")

// Fabric creates call sessions against the agent server's WebSocket endpoint.
type Fabric struct {
	wsURL string
}

// NewFabric creates a fabric targeting the given WebSocket URL
// (e.g. "ws://127.0.0.1:8080/ws").
func NewFabric(wsURL string) *Fabric {
	return &Fabric{wsURL: wsURL}
}

// CreateSession dials the fabric endpoint authenticated by token and starts
// the session's read and ping loops.
func (f *Fabric) CreateSession(ctx context.Context, token string) (*Session, error) {
	u := f.wsURL + "?token=" + url.QueryEscape(token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	s := &Session{
		conn:     conn,
		handlers: make(map[string][]func(json.RawMessage)),
		pending:  make(map[string]chan *WireError),
		closed:   make(chan struct{}),
	}
	go s.readLoop()
	go s.pingLoop()
	return s, nil
}

// Session is a live connection to the fabric. One session carries at most
// one call.
type Session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex // serialises all conn writes (requests, pings)

	mu       sync.Mutex
	handlers map[string][]func(json.RawMessage)
	pending  map[string]chan *WireError
	nextID   uint64

	closed    chan struct{}
	closeOnce sync.Once
}

// On registers a handler for a notification channel. Handlers run on the
// session's read goroutine and must not block.
func (s *Session) On(channel string, h func(json.RawMessage)) {
	s.mu.Lock()
	s.handlers[channel] = append(s.handlers[channel], h)
	s.mu.Unlock()
}

// Dial places a call to the destination with the given media constraints.
func (s *Session) Dial(ctx context.Context, destination string, media MediaParams) (*Call, error) {
	if err := s.request(ctx, request{Type: "dial", Destination: destination, Media: &media}); err != nil {
		return nil, err
	}
	return &Call{sess: s}, nil
}

// Close tears down the transport. Safe to call more than once.
func (s *Session) Close() error {
	return s.shutdown(false)
}

// Call is an established call on a session.
type Call struct {
	sess *Session
}

// On registers a handler for call-level notifications. Calls share the
// session's notification stream.
func (c *Call) On(channel string, h func(json.RawMessage)) {
	c.sess.On(channel, h)
}

// Start begins media flow on the call.
func (c *Call) Start(ctx context.Context) error {
	return c.sess.request(ctx, request{Type: "start"})
}

// Hangup ends the call gracefully.
func (c *Call) Hangup(ctx context.Context) error {
	return c.sess.request(ctx, request{Type: "hangup"})
}

func (s *Session) request(ctx context.Context, req request) error {
	s.mu.Lock()
	s.nextID++
	id := strconv.FormatUint(s.nextID, 10)
	ch := make(chan *WireError, 1)
	s.pending[id] = ch
	s.mu.Unlock()

	req.ID = id
	if err := s.writeJSON(req); err != nil {
		s.dropPending(id)
		return err
	}

	select {
	case werr := <-ch:
		if werr != nil {
			return werr
		}
		return nil
	case <-ctx.Done():
		s.dropPending(id)
		return ctx.Err()
	case <-s.closed:
		return ErrSessionClosed
	}
}

func (s *Session) writeJSON(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(v)
}

func (s *Session) dropPending(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

func (s *Session) readLoop() {
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	s.conn.SetReadDeadline(time.Now().Add(pongTimeout))

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.shutdown(true)
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "result":
			s.mu.Lock()
			ch, ok := s.pending[msg.ID]
			delete(s.pending, msg.ID)
			s.mu.Unlock()
			if ok {
				ch <- msg.Error
			}
		case "notify":
			s.dispatch(msg.Channel, msg.Payload)
		}
	}
}

func (s *Session) dispatch(channel string, payload json.RawMessage) {
	s.mu.Lock()
	handlers := append([](func(json.RawMessage))(nil), s.handlers[channel]...)
	s.mu.Unlock()
	for _, h := range handlers {
		h(payload)
	}
}

func (s *Session) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// shutdown closes the transport once. When the transport drops out from
// under us (notify=true) the destroy channel fires so the lifecycle
// controller can run its teardown path.
func (s *Session) shutdown(notify bool) error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		s.writeMu.Lock()
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client close"),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		err = s.conn.Close()
		if notify {
			s.dispatch(ChannelDestroy, nil)
		}
	})
	return err
}
