package event

import (
	"encoding/json"
	"sync"
	"time"

	"WonFM/logger"
	"WonFM/model"

	"github.com/gorilla/websocket"
)

// EventType names a push event.
type EventType string

const (
	EventTrackCreated EventType = "track.created" // a new track was persisted
	EventAuthChanged  EventType = "auth.changed"  // session state transition
)

// Event is the wire shape pushed to subscribed pages.
type Event struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Client is one connected websocket subscriber.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans events out to every connected page. This is the push channel the
// presentation layer listens on instead of polling; last event wins, no
// replay for late subscribers.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates an event hub. Call Run in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run drives the hub's select loop until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Info("[Events] Client subscribed")

		case client := <-h.unregister:
			h.removeClient(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Slow consumer; drop it rather than block the loop.
					// Stop can win the race, so don't hang on unregister.
					go func(c *Client) {
						select {
						case h.unregister <- c:
						case <-h.done:
						}
					}(client)
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				client.Conn.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and disconnects every subscriber.
func (h *Hub) Stop() {
	close(h.done)
}

// Register adds a subscriber.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a subscriber.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
		logger.Info("[Events] Client unsubscribed")
	}
}

// publish serializes and broadcasts an event.
func (h *Hub) publish(eventType EventType, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.Error("[Events] Failed to marshal event payload", logger.ErrorField(err))
		return
	}
	msg, err := json.Marshal(Event{
		Type:      eventType,
		Data:      raw,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		logger.Error("[Events] Failed to marshal event", logger.ErrorField(err))
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		logger.Warn("[Events] Broadcast queue full, dropping event", logger.String("type", string(eventType)))
	}
}

// PublishTrackCreated pushes a persisted track to subscribers.
func (h *Hub) PublishTrackCreated(track *model.Track) {
	h.publish(EventTrackCreated, track)
}

// PublishAuthChanged pushes a session state transition. Only the state and
// the user's public fields go over the wire.
func (h *Hub) PublishAuthChanged(state string, user *model.User) {
	payload := map[string]interface{}{"state": state}
	if user != nil {
		payload["user"] = user
	}
	h.publish(EventAuthChanged, payload)
}
