package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Client struct {
	Conn    Conn
	UserID  uuid.UUID
	IsAdmin bool
}

// Notifier pushes live events to connected browsers.
type Notifier interface {
	BroadcastAdmins(payload interface{})
	SendToUsers(userIDs []uuid.UUID, payload interface{})
}

type outbound struct {
	data      []byte
	adminOnly bool
	userIDs   map[uuid.UUID]bool
}

func (o outbound) wants(c *Client) bool {
	if o.userIDs != nil {
		return o.userIDs[c.UserID]
	}
	if o.adminOnly {
		return c.IsAdmin
	}
	return true
}

type Hub struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	outbox     chan outbound
	quit       chan struct{}
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		outbox:     make(chan outbound, 256),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.Register:
			h.mutex.Lock()
			h.clients[c] = true
			h.mutex.Unlock()
			log.Printf("WS client connected (user %s, admin %v)", c.UserID, c.IsAdmin)

		case c := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Conn.Close()
			}
			h.mutex.Unlock()

		case msg := <-h.outbox:
			h.mutex.Lock()
			for c := range h.clients {
				if !msg.wants(c) {
					continue
				}
				if err := c.Conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
					c.Conn.Close()
					delete(h.clients, c)
				}
			}
			h.mutex.Unlock()

		case <-h.quit:
			h.mutex.Lock()
			for c := range h.clients {
				c.Conn.Close()
				delete(h.clients, c)
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Stop disconnects every client and ends Run.
func (h *Hub) Stop() {
	close(h.quit)
}

// Join registers c. It reports false once the hub has stopped.
func (h *Hub) Join(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.quit:
		return false
	}
}

// Leave unregisters c. After Stop it returns at once since Run has already closed every conn.
func (h *Hub) Leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.quit:
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(payload interface{}) {
	h.enqueue(payload, outbound{})
}

func (h *Hub) BroadcastAdmins(payload interface{}) {
	h.enqueue(payload, outbound{adminOnly: true})
}

func (h *Hub) SendToUsers(userIDs []uuid.UUID, payload interface{}) {
	if len(userIDs) == 0 {
		return
	}
	set := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		set[id] = true
	}
	h.enqueue(payload, outbound{userIDs: set})
}

// enqueue never blocks the caller; a full outbox drops the event.
func (h *Hub) enqueue(payload interface{}, msg outbound) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WS payload marshal failed: %v", err)
		return
	}
	msg.data = data
	select {
	case h.outbox <- msg:
	default:
		log.Println("WS outbox full, dropping event")
	}
}
