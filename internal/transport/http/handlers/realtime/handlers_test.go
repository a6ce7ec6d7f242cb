package realtimehandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"staffhub/internal/domain/auth"
	"staffhub/internal/realtime"
	"staffhub/internal/transport/http/middleware"
)

const socketSecret = "socket-test-secret"

type allowAllSessions struct{}

func (allowAllSessions) SessionValid(context.Context, string, string) (bool, error) {
	return true, nil
}

func newSocketServer(t *testing.T, hub *realtime.Hub) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(nil))
	router.Use(middleware.Auth(socketSecret, allowAllSessions{}))
	NewHandler(hub).RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func dialSocket(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	token, err := auth.GenerateToken(socketSecret, auth.Claims{
		UserID:    "u-1",
		Role:      auth.RoleStaff,
		SessionID: "s-1",
	}, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?access_token=" + token + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSocketUpgradeAndSnapshotDelivery(t *testing.T) {
	hub := realtime.NewHub()
	server := newSocketServer(t, hub)

	conn := dialSocket(t, server, "&topics="+realtime.TopicLeaveRequests)
	waitFor(t, "subscription", func() bool { return hub.SubscriberCount() == 1 })

	hub.Publish(realtime.TopicLeaveRequests, []string{"req-1", "req-2"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !strings.Contains(string(payload), realtime.TopicLeaveRequests) {
		t.Fatalf("payload missing topic: %s", payload)
	}
	if !strings.Contains(string(payload), "req-2") {
		t.Fatalf("payload missing snapshot data: %s", payload)
	}
}

func TestSocketIgnoresOtherTopics(t *testing.T) {
	hub := realtime.NewHub()
	server := newSocketServer(t, hub)

	conn := dialSocket(t, server, "&topics="+realtime.TopicStaffProfiles)
	waitFor(t, "subscription", func() bool { return hub.SubscriberCount() == 1 })

	hub.Publish(realtime.TopicLeaveRequests, []string{"req-1"})
	hub.Publish(realtime.TopicStaffProfiles, []string{"staff-1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if strings.Contains(string(payload), "req-1") {
		t.Fatalf("received snapshot for an unsubscribed topic: %s", payload)
	}
	if !strings.Contains(string(payload), "staff-1") {
		t.Fatalf("expected staff snapshot, got %s", payload)
	}
}

func TestSocketRequiresAuthentication(t *testing.T) {
	hub := realtime.NewHub()
	server := newSocketServer(t, hub)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected handshake to fail without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
	if hub.SubscriberCount() != 0 {
		t.Fatalf("expected no subscribers, got %d", hub.SubscriberCount())
	}
}

func TestSocketUnsubscribesOnClose(t *testing.T) {
	hub := realtime.NewHub()
	server := newSocketServer(t, hub)

	conn := dialSocket(t, server, "")
	waitFor(t, "subscription", func() bool { return hub.SubscriberCount() == 1 })

	conn.Close()
	waitFor(t, "unsubscribe", func() bool { return hub.SubscriberCount() == 0 })
}
