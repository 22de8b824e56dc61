package events

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"
)

func TestBroadcastToTCPClient(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	t.Cleanup(func() { server.Close(); client.Close() })

	hub.Add(server)

	lines := make(chan string, 1)
	go func() {
		sc := bufio.NewScanner(client)
		if sc.Scan() {
			lines <- sc.Text()
		}
	}()

	hub.Broadcast(PlayEvent{
		UserID:  "u1",
		MapName: "boombox",
		Score:   9000,
		NewBest: true,
	})

	select {
	case line := <-lines:
		var evt PlayEvent
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}
		if evt.MapName != "boombox" || evt.Score != 9000 || !evt.NewBest {
			t.Fatalf("event = %+v", evt)
		}
		// The hub stamps the type and time when the caller leaves them zero.
		if evt.Type != EventSongPlayed {
			t.Fatalf("event type = %q, want %q", evt.Type, EventSongPlayed)
		}
		if evt.At.IsZero() {
			t.Fatal("event time was not stamped")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event arrived on the TCP client")
	}
}

func TestRemoveDropsClient(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	t.Cleanup(func() { client.Close() })

	hub.Add(server)
	if got := hub.Count(); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}

	hub.Remove(server)
	if got := hub.Count(); got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}

	stats := hub.Stats()
	if stats.TCPClients != 0 || stats.WSClients != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestServerAcceptsAndCloses(t *testing.T) {
	hub := NewHub()
	srv := NewServer("127.0.0.1:0", hub)

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	// Wait for the listener so we can learn the chosen port.
	var addr string
	for i := 0; i < 100 && addr == ""; i++ {
		srv.mu.Lock()
		if srv.ln != nil {
			addr = srv.ln.Addr().String()
		}
		srv.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	if addr == "" {
		t.Fatal("server never started listening")
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// First line is the welcome frame.
	sc := bufio.NewScanner(conn)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if !sc.Scan() {
		t.Fatalf("no welcome line: %v", sc.Err())
	}
	var welcome map[string]any
	if err := json.Unmarshal(sc.Bytes(), &welcome); err != nil {
		t.Fatalf("welcome not JSON: %q", sc.Text())
	}
	if welcome["type"] != "welcome" {
		t.Fatalf("welcome = %v", welcome)
	}

	if err := srv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v after close", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after close")
	}
}
