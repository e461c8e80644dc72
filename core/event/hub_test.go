package event_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"WonFM/core/event"
	"WonFM/model"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// wsPair dials a loopback websocket and returns the server-side conn.
func wsPair(t *testing.T) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-conns
	return serverConn
}

func TestHubBroadcastsTrackCreated(t *testing.T) {
	hub := event.NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &event.Client{Hub: hub, Conn: wsPair(t), Send: make(chan []byte, 4)}
	hub.Register(client)

	hub.PublishTrackCreated(&model.Track{ID: 7, Prompt: "sing about rivers"})

	select {
	case raw := <-client.Send:
		var ev struct {
			Type string      `json:"type"`
			Data model.Track `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &ev))
		require.Equal(t, string(event.EventTrackCreated), ev.Type)
		require.Equal(t, int64(7), ev.Data.ID)
	case <-time.After(time.Second):
		t.Fatal("no event delivered to subscriber")
	}
}

func TestHubDropsSlowConsumerAndStops(t *testing.T) {
	hub := event.NewHub()
	go hub.Run()

	// An unbuffered Send with no reader is the slow-consumer case; the
	// first broadcast drops the client. Stop immediately after races the
	// drop's unregister against shutdown; both orderings must resolve.
	client := &event.Client{Hub: hub, Conn: wsPair(t), Send: make(chan []byte)}
	hub.Register(client)

	hub.PublishTrackCreated(&model.Track{ID: 1})
	hub.Stop()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-client.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond, "dropped client's Send channel must be closed")
}
