package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_PublishToClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conns := make([]*websocket.Conn, 2)
	for i := range conns {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("Dial() error = %v", err)
		}
		defer conn.Close()
		conns[i] = conn
	}

	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	if err := hub.Publish(map[string]any{"type": "frame", "seq": 7}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("client %d ReadMessage() error = %v", i, err)
		}
		var got map[string]any
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("client %d got invalid JSON: %v", i, err)
		}
		if got["type"] != "frame" || got["seq"] != float64(7) {
			t.Errorf("client %d got %v", i, got)
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	ts := httptest.NewServer(hub)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	// Without Run the queue fills and further messages are dropped, never blocking.
	for i := 0; i < clientBuf+5; i++ {
		if err := hub.Publish(i); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}
	if hub.Dropped() != 5 {
		t.Errorf("Dropped() = %d, want 5", hub.Dropped())
	}
}

func TestHub_PublishBadValue(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	if err := hub.Publish(make(chan int)); err == nil {
		t.Error("Publish() should fail for values that cannot be encoded")
	}
}
