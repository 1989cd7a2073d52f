package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func newTestClient(hub *Hub) *Client {
	return &Client{
		hub:         hub,
		send:        make(chan []byte, 8),
		id:          "test-client",
		connectedAt: time.Now(),
		logger:      hub.logger,
	}
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if hub.ClientCount() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("client count never reached %d, have %d", want, hub.ClientCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestHubRegisterSendsConnectionMessage(t *testing.T) {
	hub := testHub(t)
	client := newTestClient(hub)

	hub.register <- client
	waitForCount(t, hub, 1)

	select {
	case msg := <-client.send:
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(msg, &payload))
		assert.Equal(t, TypeConnection, payload["type"])
	case <-time.After(2 * time.Second):
		t.Fatal("expected connection message")
	}
}

func TestHubUnregister(t *testing.T) {
	hub := testHub(t)
	client := newTestClient(hub)

	hub.register <- client
	waitForCount(t, hub, 1)

	hub.unregister <- client
	waitForCount(t, hub, 0)

	// send channel must be closed so the write pump exits
	for range client.send {
	}
}

func TestBroadcastDatasetChanged(t *testing.T) {
	hub := testHub(t)
	client := newTestClient(hub)

	hub.register <- client
	waitForCount(t, hub, 1)
	<-client.send // drain connection message

	hub.BroadcastDatasetChanged("vendedores.csv")

	select {
	case msg := <-client.send:
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(msg, &payload))
		assert.Equal(t, TypeDatasetChanged, payload["type"])
		data := payload["data"].(map[string]interface{})
		assert.Equal(t, "vendedores.csv", data["path"])
	case <-time.After(2 * time.Second):
		t.Fatal("expected dataset change message")
	}
}

func TestBroadcastDropsSlowConsumer(t *testing.T) {
	hub := testHub(t)
	slow := &Client{
		hub:         hub,
		send:        make(chan []byte), // unbuffered and never read
		id:          "slow-client",
		connectedAt: time.Now(),
		logger:      hub.logger,
	}

	hub.register <- slow
	waitForCount(t, hub, 1)

	hub.Broadcast([]byte(`{"type":"noop"}`))
	waitForCount(t, hub, 0)
}
