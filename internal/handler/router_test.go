package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"amazingchat/internal/app/chat"
)

func TestRouterUnknownPathRedirectsToLogin(t *testing.T) {
	router := Router(newTestDeps())

	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location = %q, want /", loc)
	}
}

func TestRouterServesLoginPage(t *testing.T) {
	router := Router(newTestDeps())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("content type = %q, want html", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "本地服务器") {
		t.Error("login page should list the configured servers")
	}
}

func TestRouterChatPageWithoutNameRedirects(t *testing.T) {
	router := Router(newTestDeps())

	for _, target := range []string{"/chat", "/chat?username=%20%21%21%21%20"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Errorf("GET %s status = %d, want 302", target, rec.Code)
		}
	}
}

func TestRouterChatPageRendersForValidName(t *testing.T) {
	router := Router(newTestDeps())

	req := httptest.NewRequest(http.MethodGet, "/chat?username=Alice", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Alice") {
		t.Error("chat page should carry the visitor's name")
	}
}

// wsConn wraps a dialed test connection with envelope helpers.
type wsConn struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialWS(t *testing.T, serverURL string) *wsConn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })

	return &wsConn{t: t, conn: conn}
}

func (c *wsConn) send(event string, data any) {
	c.t.Helper()

	if err := c.conn.WriteJSON(chat.Envelope{Event: event, Data: data}); err != nil {
		c.t.Fatalf("failed to send %s: %v", event, err)
	}
}

// expect reads frames until it finds the named event, failing on timeout.
func (c *wsConn) expect(event string) json.RawMessage {
	c.t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for {
		c.conn.SetReadDeadline(deadline)

		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := c.conn.ReadJSON(&env); err != nil {
			c.t.Fatalf("waiting for %s: %v", event, err)
		}
		if env.Event == event {
			return env.Data
		}
	}
}

func TestWebSocketJoinAndChat(t *testing.T) {
	deps := newTestDeps()
	srv := httptest.NewServer(Router(deps))
	defer srv.Close()

	alice := dialWS(t, srv.URL)
	alice.expect(chat.OutConnectAck)

	alice.send(chat.InJoin, chat.JoinPayload{Username: "Alice"})

	var history chat.HistoryPayload
	if err := json.Unmarshal(alice.expect(chat.OutHistory), &history); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	if len(history.Messages) != 1 || history.Messages[0].Kind != chat.KindSystem {
		t.Fatalf("history = %+v, want a single welcome event", history.Messages)
	}

	var joined chat.UserJoinedPayload
	if err := json.Unmarshal(alice.expect(chat.OutUserJoined), &joined); err != nil {
		t.Fatalf("failed to decode user_joined: %v", err)
	}
	if joined.Username != "Alice" {
		t.Errorf("user_joined username = %q, want Alice", joined.Username)
	}

	bob := dialWS(t, srv.URL)
	bob.expect(chat.OutConnectAck)
	bob.send(chat.InJoin, chat.JoinPayload{Username: "Bob"})
	bob.expect(chat.OutHistory)
	bob.expect(chat.OutUserJoined)

	// Alice sees Bob arrive with the refreshed membership set.
	if err := json.Unmarshal(alice.expect(chat.OutUserJoined), &joined); err != nil {
		t.Fatalf("failed to decode user_joined: %v", err)
	}
	if joined.Username != "Bob" || len(joined.Users) != 2 {
		t.Errorf("user_joined = %+v, want Bob with two members", joined)
	}

	alice.send(chat.InSendMessage, chat.SendMessagePayload{Username: "Alice", Message: "hello"})

	var event chat.ChatEvent
	if err := json.Unmarshal(bob.expect(chat.OutNewMessage), &event); err != nil {
		t.Fatalf("failed to decode new_message: %v", err)
	}
	if event.Username != "Alice" || event.Message != "hello" || event.Kind != chat.KindText {
		t.Errorf("new_message = %+v, want hello from Alice", event)
	}

	// The sender receives their own broadcast too.
	if err := json.Unmarshal(alice.expect(chat.OutNewMessage), &event); err != nil {
		t.Fatalf("failed to decode new_message: %v", err)
	}
	if event.Message != "hello" {
		t.Errorf("echoed message = %q, want hello", event.Message)
	}
}

func TestWebSocketLeaveAnnouncement(t *testing.T) {
	deps := newTestDeps()
	srv := httptest.NewServer(Router(deps))
	defer srv.Close()

	alice := dialWS(t, srv.URL)
	alice.expect(chat.OutConnectAck)
	alice.send(chat.InJoin, chat.JoinPayload{Username: "Alice"})
	alice.expect(chat.OutUserJoined)

	bob := dialWS(t, srv.URL)
	bob.expect(chat.OutConnectAck)
	bob.send(chat.InJoin, chat.JoinPayload{Username: "Bob"})
	bob.expect(chat.OutUserJoined)

	bob.send(chat.InLeave, chat.JoinPayload{Username: "Bob"})

	var left chat.UserLeftPayload
	if err := json.Unmarshal(alice.expect(chat.OutUserLeft), &left); err != nil {
		t.Fatalf("failed to decode user_left: %v", err)
	}
	if left.Username != "Bob" {
		t.Errorf("user_left username = %q, want Bob", left.Username)
	}
	if len(left.Users) != 1 || left.Users[0] != "Alice" {
		t.Errorf("membership = %v, want [Alice]", left.Users)
	}
}

func TestWebSocketDisconnectAnnouncesDeparture(t *testing.T) {
	deps := newTestDeps()
	srv := httptest.NewServer(Router(deps))
	defer srv.Close()

	alice := dialWS(t, srv.URL)
	alice.expect(chat.OutConnectAck)
	alice.send(chat.InJoin, chat.JoinPayload{Username: "Alice"})
	alice.expect(chat.OutUserJoined)

	bob := dialWS(t, srv.URL)
	bob.expect(chat.OutConnectAck)
	bob.send(chat.InJoin, chat.JoinPayload{Username: "Bob"})
	bob.expect(chat.OutUserJoined)

	bob.conn.Close()

	var left chat.UserLeftPayload
	if err := json.Unmarshal(alice.expect(chat.OutUserLeft), &left); err != nil {
		t.Fatalf("failed to decode user_left: %v", err)
	}
	if left.Username != "Bob" {
		t.Errorf("user_left username = %q, want Bob", left.Username)
	}
}
