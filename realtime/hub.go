// Package realtime fans committed writes out to every open subscription.
// Each store publishes a payload after a successful write; subscribers
// get every payload for their topic, in publish order, until cancelled.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Topics mirror the backing collections.
const (
	TopicEvents        = "events"
	TopicBookings      = "bookings"
	TopicAdminRequests = "admin_requests"
	TopicAdmins        = "admins"
)

// Payload is one change notification.
type Payload struct {
	Action    string `json:"action"` // "created", "updated", "deleted"
	Topic     string `json:"topic"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"` // unix seconds
}

type Client struct {
	Conn  *websocket.Conn
	Send  chan []byte
	Topic string
}

// subscription is an in-process listener, used by workers and tests.
type subscription struct {
	topic string
	ch    chan []byte
	once  sync.Once
}

type broadcastMsg struct {
	Topic string
	Data  []byte
}

type Hub struct {
	topics      map[string]map[*Client]bool
	subs        map[string]map[*subscription]bool
	register    chan *Client
	unregister  chan *Client
	subscribe   chan *subscription
	unsubscribe chan *subscription
	broadcast   chan broadcastMsg
	stop        chan struct{}
	mu          sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		topics:      make(map[string]map[*Client]bool),
		subs:        make(map[string]map[*subscription]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *subscription),
		unsubscribe: make(chan *subscription),
		broadcast:   make(chan broadcastMsg),
		stop:        make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			for _, conns := range h.topics {
				for c := range conns {
					close(c.Send)
				}
			}
			h.topics = make(map[string]map[*Client]bool)
			for _, set := range h.subs {
				for s := range set {
					s.close()
				}
			}
			h.subs = make(map[string]map[*subscription]bool)
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.topics[c.Topic] == nil {
				h.topics[c.Topic] = make(map[*Client]bool)
			}
			h.topics[c.Topic][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.topics[c.Topic]; conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case s := <-h.subscribe:
			h.mu.Lock()
			if h.subs[s.topic] == nil {
				h.subs[s.topic] = make(map[*subscription]bool)
			}
			h.subs[s.topic][s] = true
			h.mu.Unlock()

		case s := <-h.unsubscribe:
			h.mu.Lock()
			if set := h.subs[s.topic]; set[s] {
				delete(set, s)
				s.close()
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.topics[m.Topic] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.topics[m.Topic], c)
				}
			}
			for s := range h.subs[m.Topic] {
				select {
				case s.ch <- m.Data:
				default:
					// Slow in-process listeners are dropped rather
					// than allowed to stall the hub.
					delete(h.subs[m.Topic], s)
					s.close()
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Stop() {
	close(h.stop)
}

func (s *subscription) close() {
	s.once.Do(func() { close(s.ch) })
}

// Publish marshals one change notification and hands it to the hub.
func (h *Hub) Publish(topic, action string, data any) {
	payload := Payload{
		Action:    action,
		Topic:     topic,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("realtime marshal failed for topic %s: %v", topic, err)
		return
	}
	select {
	case h.broadcast <- broadcastMsg{Topic: topic, Data: raw}:
	case <-h.stop:
	}
}

// Subscribe returns a stream of raw payloads for topic plus a cancel
// function. Cancel is safe to call more than once.
func (h *Hub) Subscribe(topic string) (<-chan []byte, func()) {
	s := &subscription{topic: topic, ch: make(chan []byte, 64)}
	select {
	case h.subscribe <- s:
	case <-h.stop:
		s.close()
		return s.ch, func() {}
	}
	cancel := func() {
		select {
		case h.unsubscribe <- s:
		case <-h.stop:
		}
	}
	return s.ch, cancel
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler upgrades the connection and streams topic payloads
// until the client goes away. Route wiring decides which topics sit
// behind which auth middleware.
func WebSocketHandler(hub *Hub, topic string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			Conn:  conn,
			Send:  make(chan []byte, 256),
			Topic: topic,
		}
		hub.register <- client

		go writePump(client)
		readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()
	for {
		// Keeps the connection registered until the client disconnects.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
