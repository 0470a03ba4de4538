// Package server implements the agent call server: token issuance over HTTP
// and the call fabric WebSocket that hosts the scripted agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/agent-call/console/internal/agent"
	"github.com/agent-call/console/internal/config"
	"github.com/gorilla/websocket"
)

type Server struct {
	cfg     *config.Config
	tokens  *TokenStore
	started time.Time

	mu         sync.Mutex
	registered bool
}

func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg:     cfg,
		tokens:  NewTokenStore(cfg.Token.TTL),
		started: time.Now(),
	}
}

// RegisterAgent marks the agent as available at its call address. Token
// issuance and readiness report failure until this is called.
func (s *Server) RegisterAgent() {
	s.mu.Lock()
	s.registered = true
	s.mu.Unlock()
	log.Printf("Agent %q registered at %s", s.cfg.Agent.Name, s.cfg.Address())
}

func (s *Server) isRegistered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registered
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/get_token", s.handleGetToken)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/ws", s.handleWS)
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	if !s.isRegistered() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "agent not registered"})
		return
	}

	tok, err := s.tokens.Issue()
	if err != nil {
		log.Printf("token issue error: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "token generation failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"token":   tok,
		"address": s.cfg.Address(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"agent":  s.cfg.Agent.Name,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !s.isRegistered() {
		json.NewEncoder(w).Encode(map[string]string{"status": "initializing"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ready",
		"address": s.cfg.Address(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.tokens.Validate(r.URL.Query().Get("token")) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	log.Printf("Client connected: %s", r.RemoteAddr)
	c := &conn{ws: ws, server: s}
	c.loop()
	log.Printf("Client disconnected: %s", r.RemoteAddr)
}

// conn is one fabric session. It carries at most one call, whose agent runs
// on its own goroutine for the life of the call.
type conn struct {
	ws     *websocket.Conn
	server *Server

	writeMu sync.Mutex

	dialed      bool
	agentCancel context.CancelFunc
	agentDone   chan struct{}
}

// Notify implements agent.Emitter.
func (c *conn) Notify(channel string, payload any) error {
	return c.send(notify(channel, payload))
}

func (c *conn) send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteJSON(v)
}

func (c *conn) loop() {
	defer func() {
		c.stopAgent()
		c.ws.Close()
	}()

	c.ws.SetPingHandler(func(data string) error {
		c.writeMu.Lock()
		defer c.writeMu.Unlock()
		return c.ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var req clientRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("bad request frame: %v", err)
			continue
		}
		c.send(c.handle(req))
	}
}

func (c *conn) handle(req clientRequest) resultMessage {
	switch req.Type {
	case reqDial:
		if req.Destination != c.server.cfg.Address() {
			return resultErr(req.ID, "not_found", fmt.Sprintf("no agent at %q", req.Destination))
		}
		c.dialed = true
		return resultOK(req.ID)

	case reqStart:
		if !c.dialed {
			return resultErr(req.ID, "no_call", "start before dial")
		}
		if c.agentDone == nil {
			c.startAgent()
		}
		return resultOK(req.ID)

	case reqHangup:
		c.dialed = false
		c.stopAgent()
		return resultOK(req.ID)

	default:
		return resultErr(req.ID, "bad_request", fmt.Sprintf("unknown request type %q", req.Type))
	}
}

func (c *conn) startAgent() {
	ctx, cancel := context.WithCancel(context.Background())
	c.agentCancel = cancel
	c.agentDone = make(chan struct{})

	a := agent.New(c.server.cfg.Agent.Name, c.server.cfg.Agent.ScriptInterval)
	go func() {
		defer close(c.agentDone)
		if err := a.Run(ctx, c); err != nil {
			log.Printf("agent stopped: %v", err)
		}
	}()
}

// stopAgent cancels the running agent, if any, and waits for it to leave the
// room. Safe to call with no agent running.
func (c *conn) stopAgent() {
	if c.agentCancel == nil {
		return
	}
	c.agentCancel()
	<-c.agentDone
	c.agentCancel = nil
	c.agentDone = nil
}

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	host := u.Host
	return strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1") || strings.HasPrefix(host, "[::1]")
}

func ListenAndServe(host string, port int, mux *http.ServeMux) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
