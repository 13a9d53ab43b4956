package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSessionProgress    MessageType = "session_progress"
	MsgSessionCompleted   MessageType = "session_completed"
	MsgResultRecalculated MessageType = "result_recalculated"
	MsgError              MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for dashboards and per-session watchers
type Hub struct {
	dashboardConns map[*Connection]struct{}
	sessionConns   map[string]map[*Connection]struct{} // sessionID -> conns

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string // Empty for dashboard connections
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	ToSession string // Empty means dashboard feed
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		dashboardConns: make(map[*Connection]struct{}),
		sessionConns:   make(map[string]map[*Connection]struct{}),
		register:       make(chan *Connection),
		unregister:     make(chan *Connection),
		broadcast:      make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.SessionID == "" {
				h.dashboardConns[conn] = struct{}{}
				log.Println("Dashboard connected")
			} else {
				if h.sessionConns[conn.SessionID] == nil {
					h.sessionConns[conn.SessionID] = make(map[*Connection]struct{})
				}
				h.sessionConns[conn.SessionID][conn] = struct{}{}
				log.Printf("Watcher connected to session %s", conn.SessionID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.SessionID == "" {
				if _, ok := h.dashboardConns[conn]; ok {
					delete(h.dashboardConns, conn)
					close(conn.Send)
					log.Println("Dashboard disconnected")
				}
			} else {
				if conns, ok := h.sessionConns[conn.SessionID]; ok {
					if _, ok := conns[conn]; ok {
						delete(conns, conn)
						close(conn.Send)
						if len(conns) == 0 {
							delete(h.sessionConns, conn.SessionID)
						}
						log.Printf("Watcher disconnected from session %s", conn.SessionID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToSession == "" {
				for conn := range h.dashboardConns {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else {
				for conn := range h.sessionConns[msg.ToSession] {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// NotifyDashboard sends an event to all dashboard connections (implements
// service.Notifier)
func (h *Hub) NotifyDashboard(event string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		Message: &Message{
			Type:    MessageType(event),
			Payload: data,
		},
	}
}

// NotifySession sends an event to watchers of one session (implements
// service.Notifier)
func (h *Hub) NotifySession(sessionID string, event string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ToSession: sessionID,
		Message: &Message{
			Type:    MessageType(event),
			Payload: data,
		},
	}
}
