package websocket

import (
	"context"
	"encoding/json"

	"todo-api/internal/models"
	"todo-api/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	EventCreated   = "created"
	EventCompleted = "completed"
)

// Subscriber is the part of *websocket.Conn the hub writes to.
type Subscriber interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one websocket subscriber following a username's items.
type Client struct {
	Conn     Subscriber
	Username string
}

// Event is pushed to every client following the item's owner.
type Event struct {
	Event    string          `json:"event"`
	TodoItem models.TodoItem `json:"todo_item"`
}

// Hub fans out item events to websocket clients. All client bookkeeping
// happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Register and Unregister return immediately once Run has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event without blocking. Events are dropped when the
// queue is full.
func (h *Hub) Publish(event Event) {
	select {
	case h.broadcast <- event:
	default:
		logger.ErrorLogger.Error("Dropping todo item event, hub queue full",
			zap.String("event", event.Event), zap.String("username", event.TodoItem.Username))
	}
}

// Run owns the client set until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			h.remove(client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			h.remove(client)
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) deliver(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		logger.ErrorLogger.Error("Error encoding todo item event", zap.Error(err))
		return
	}
	for client := range h.clients {
		if client.Username != event.TodoItem.Username {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.ErrorLogger.Error("Error writing todo item event", zap.String("username", client.Username), zap.Error(err))
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.Conn.Close()
	}
}
