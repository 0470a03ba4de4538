package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agent-call/console/internal/config"
	"github.com/gorilla/websocket"
)

func testConfig() *config.Config {
	cfg, _ := config.LoadOrDefault("/nonexistent/config.yaml")
	cfg.Agent.ScriptInterval = 10 * time.Millisecond
	return cfg
}

func newTestServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()
	cfg := testConfig()
	s := NewServer(cfg)
	s.RegisterAgent()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func fetchToken(t *testing.T, base string) (token, address string) {
	t.Helper()
	resp, err := http.Get(base + "/get_token")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Token   string `json:"token"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body.Token, body.Address
}

func TestGetToken(t *testing.T) {
	srv, cfg := newTestServer(t)

	token, address := fetchToken(t, srv.URL)
	if len(token) != 32 {
		t.Errorf("token length = %d, want 32", len(token))
	}
	if address != cfg.Address() {
		t.Errorf("address = %q, want %q", address, cfg.Address())
	}
}

func TestGetTokenBeforeRegistration(t *testing.T) {
	s := NewServer(testConfig())
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/get_token")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 before registration", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] == "" {
		t.Error("response should carry an error field")
	}

	// Readiness reports initializing until the agent registers.
	resp2, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	var ready map[string]string
	if err := json.NewDecoder(resp2.Body).Decode(&ready); err != nil {
		t.Fatal(err)
	}
	if ready["status"] != "initializing" {
		t.Errorf("ready status = %q, want initializing", ready["status"])
	}
}

func TestHealthAndReady(t *testing.T) {
	srv, cfg := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health["status"] != "healthy" || health["agent"] != cfg.Agent.Name {
		t.Errorf("health = %v", health)
	}

	resp2, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("/ready status = %d", resp2.StatusCode)
	}
}

func TestStats(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var stats statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Goroutines == 0 {
		t.Error("stats should report goroutine count")
	}
	if stats.UptimeSeconds < 0 {
		t.Error("uptime should be non-negative")
	}
}

func TestWSRejectsBadToken(t *testing.T) {
	srv, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=bogus"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial with bad token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", resp)
	}
}

func dialWS(t *testing.T, base, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(base, "http") + "/ws?token=" + token
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// readUntil reads frames until pred returns true, failing the test on timeout.
func readUntil(t *testing.T, ws *websocket.Conn, what string, pred func(map[string]any) bool) map[string]any {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg map[string]any
		if err := ws.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", what, err)
		}
		if pred(msg) {
			return msg
		}
	}
}

func sendRequest(t *testing.T, ws *websocket.Conn, req clientRequest) {
	t.Helper()
	if err := ws.WriteJSON(req); err != nil {
		t.Fatal(err)
	}
}

func isResult(id string) func(map[string]any) bool {
	return func(m map[string]any) bool {
		return m["type"] == "result" && m["id"] == id
	}
}

func isNotifyOn(channel string) func(map[string]any) bool {
	return func(m map[string]any) bool {
		return m["type"] == "notify" && m["channel"] == channel
	}
}

func TestCallLifecycle(t *testing.T) {
	srv, cfg := newTestServer(t)
	token, address := fetchToken(t, srv.URL)
	ws := dialWS(t, srv.URL, token)

	// Dialing a nonexistent address is refused.
	sendRequest(t, ws, clientRequest{ID: "1", Type: reqDial, Destination: "/public/nobody"})
	res := readUntil(t, ws, "dial error", isResult("1"))
	if res["error"] == nil {
		t.Error("dial to unknown address should return an error result")
	}

	// Start before dial is refused.
	sendRequest(t, ws, clientRequest{ID: "2", Type: reqStart})
	res = readUntil(t, ws, "start error", isResult("2"))
	if res["error"] == nil {
		t.Error("start before dial should return an error result")
	}

	sendRequest(t, ws, clientRequest{ID: "3", Type: reqDial, Destination: address})
	res = readUntil(t, ws, "dial ack", isResult("3"))
	if res["error"] != nil {
		t.Fatalf("dial failed: %v", res["error"])
	}

	sendRequest(t, ws, clientRequest{ID: "4", Type: reqStart})
	readUntil(t, ws, "start ack", isResult("4"))

	joined := readUntil(t, ws, "room.joined", isNotifyOn("room.joined"))
	payload, _ := joined["payload"].(map[string]any)
	if payload["agent"] != cfg.Agent.Name {
		t.Errorf("room.joined agent = %v, want %q", payload["agent"], cfg.Agent.Name)
	}

	// The script should produce at least one user event.
	readUntil(t, ws, "user event", func(m map[string]any) bool {
		if m["type"] != "notify" {
			return false
		}
		ch, _ := m["channel"].(string)
		return ch == "user_event" || ch == "call.user_event" || ch == "event"
	})

	sendRequest(t, ws, clientRequest{ID: "5", Type: reqHangup})
	readUntil(t, ws, "room.left", isNotifyOn("room.left"))
	readUntil(t, ws, "hangup ack", isResult("5"))
}

func TestUnknownRequestType(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := fetchToken(t, srv.URL)
	ws := dialWS(t, srv.URL, token)

	sendRequest(t, ws, clientRequest{ID: "9", Type: "subscribe"})
	res := readUntil(t, ws, "error result", isResult("9"))
	if res["error"] == nil {
		t.Error("unknown request type should return an error result")
	}
}
