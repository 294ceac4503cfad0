package websocket

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/egor/backoffice/events"
	"github.com/egor/backoffice/logger"
)

// ErrHubBusy is returned by Publish when the broadcast queue is full.
var ErrHubBusy = errors.New("websocket hub busy, event dropped")

type envelope struct {
	owner uuid.UUID
	data  []byte
}

// Hub fans change events out to connected dashboards. Each client only
// receives events for records inside its scope.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	log        logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			close(client.send)
			delete(h.clients, client)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debugf("dashboard connected: %s (%d total)", client.requester.ID, len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Debugf("dashboard disconnected: %s (%d total)", client.requester.ID, len(h.clients))
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				if !client.scope.Allows(msg.owner) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Register adds a client; it is a no-op once the hub has stopped.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues e for delivery. It never blocks the caller.
func (h *Hub) Publish(_ context.Context, e events.Event) error {
	data, err := NewMessage(MessageEntityChanged, e)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- envelope{owner: e.OwnerID, data: data}:
		return nil
	default:
		return ErrHubBusy
	}
}
