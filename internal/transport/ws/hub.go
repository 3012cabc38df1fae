package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgExamStarted  MessageType = "exam_started"
	MsgNarrationCue MessageType = "narration_cue"
	MsgExamFinished MessageType = "exam_finished"
	MsgError        MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for exam rooms. An exam usually has two
// listeners: the examiner console and the playback screen facing the
// subject. Both receive every cue.
type Hub struct {
	// examID -> connections
	examConns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	ExamID string
	Send   chan []byte
	Hub    *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	ExamID  string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		examConns:  make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.examConns[conn.ExamID] == nil {
				h.examConns[conn.ExamID] = make(map[*Connection]bool)
			}
			h.examConns[conn.ExamID][conn] = true
			log.Printf("Listener connected to exam %s", conn.ExamID)
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.examConns[conn.ExamID]; ok {
				if conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					log.Printf("Listener disconnected from exam %s", conn.ExamID)
				}
				if len(conns) == 0 {
					delete(h.examConns, conn.ExamID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.examConns[msg.ExamID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
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

// BroadcastToExam sends a message to every listener on an exam (implements
// service.Broadcaster)
func (h *Hub) BroadcastToExam(examID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ExamID: examID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectExam drops every listener on an exam (implements
// service.Broadcaster)
func (h *Hub) DisconnectExam(examID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.examConns[examID] {
		close(conn.Send)
	}
	delete(h.examConns, examID)
}
