package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// newTestConnection dials a throwaway websocket server and wraps the client
// side, which is all Connection needs.
func newTestConnection(t *testing.T) *Connection {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return NewConnection("user-1", ws)
}

func TestSendConcurrentWithClose(t *testing.T) {
	// The bridge goroutine fans out to connections while disconnect handlers
	// and room-takeover close the same connections. A send racing a close must
	// fail cleanly, never panic.
	conn := newTestConnection(t)
	conn.Start()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = conn.Send([]byte(`{"event":"ping"}`))
			}
		}()
	}
	conn.Close(websocket.CloseNormalClosure, "bye")
	wg.Wait()
}

func TestSendAfterCloseFails(t *testing.T) {
	conn := newTestConnection(t)
	conn.Start()
	conn.Close(websocket.CloseNormalClosure, "bye")

	if err := conn.Send([]byte("late")); err == nil {
		t.Fatalf("send on a closed connection succeeded")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	conn := newTestConnection(t)
	conn.Close(websocket.CloseNormalClosure, "first")
	conn.Close(websocket.CloseNormalClosure, "second")
}
