package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"clinic-archive/internal/event"
)

func TestHubBroadcastsBusEvents(t *testing.T) {
	bus := event.NewBus()
	hub := NewHub(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(hub, conn).Serve()
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The client registers asynchronously; publish until the first message arrives.
	received := make(chan event.Event, 1)
	go func() {
		_, data, readErr := conn.ReadMessage()
		if readErr != nil {
			return
		}
		var e event.Event
		if json.Unmarshal(data, &e) == nil {
			received <- e
		}
	}()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case e := <-received:
			require.Equal(t, event.TypeNotification, e.Type)
			return
		case <-ticker.C:
			bus.Publish(event.Event{Type: event.TypeNotification, Payload: "3 expired archives purged"})
		case <-deadline:
			t.Fatal("no event received over websocket")
		}
	}
}
