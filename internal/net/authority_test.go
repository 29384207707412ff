package net

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// testAuthority is a minimal stand-in for the remote authority: it accepts
// websocket connections, records every inbound message and broadcasts
// whatever the test hands it.
type testAuthority struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu          sync.Mutex
	connections map[*websocket.Conn]bool
	joined      chan struct{}
	received    chan UpdateMessage
	raw         chan []byte

	// stall, when set, makes the authority stop reading after the upgrade
	// until it is closed.
	stall chan struct{}
}

func newTestAuthority(t *testing.T) *testAuthority {
	t.Helper()
	return startAuthority(t, nil)
}

// newStalledAuthority accepts connections but never reads from them, so the
// client's writes back up until its write deadline expires.
func newStalledAuthority(t *testing.T) *testAuthority {
	t.Helper()
	stall := make(chan struct{})
	a := startAuthority(t, stall)
	t.Cleanup(func() { close(stall) })
	return a
}

func startAuthority(t *testing.T, stall chan struct{}) *testAuthority {
	a := &testAuthority{
		connections: make(map[*websocket.Conn]bool),
		joined:      make(chan struct{}, 8),
		received:    make(chan UpdateMessage, 64),
		raw:         make(chan []byte, 64),
		stall:       stall,
	}
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
	t.Cleanup(a.close)
	return a
}

func (a *testAuthority) URL() string {
	return "ws" + strings.TrimPrefix(a.server.URL, "http") + "/ws"
}

func (a *testAuthority) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	a.mu.Lock()
	a.connections[conn] = true
	a.mu.Unlock()
	a.joined <- struct{}{}

	defer func() {
		a.mu.Lock()
		delete(a.connections, conn)
		a.mu.Unlock()
		conn.Close()
	}()

	if a.stall != nil {
		<-a.stall
		return
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		a.raw <- data
		var msg UpdateMessage
		if err := json.Unmarshal(data, &msg); err == nil {
			a.received <- msg
		}
	}
}

// Broadcast sends data to every connected client.
func (a *testAuthority) Broadcast(data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for conn := range a.connections {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}

// Drop closes every connection without a close handshake.
func (a *testAuthority) Drop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for conn := range a.connections {
		conn.UnderlyingConn().Close()
	}
}

// Shutdown closes every connection with a normal close frame.
func (a *testAuthority) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for conn := range a.connections {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	}
}

func (a *testAuthority) close() {
	a.Drop()
	a.server.Close()
}
