package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a connected admin's WebSocket session
type Client struct {
	Hub  *Hub
	ID   uint // admin id
	Role string
	Conn *websocket.Conn
	Send chan []byte
}

// Hub manages all WebSocket connections of the back-office: direct-message
// relay between admins and live notification push.
type Hub struct {
	// Registered clients keyed by admin id
	Clients map[uint]*Client

	// Broadcast channel for messages to all clients
	Broadcast chan *Message

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// Message handlers keyed by message type
	MessageHandlers map[string]MessageHandler

	mu sync.RWMutex
}

// Message is the wire envelope exchanged over the WebSocket
type Message struct {
	Type           string      `json:"type"`
	ConversationID string      `json:"conversation_id,omitempty"`
	SenderID       uint        `json:"sender_id,omitempty"`
	ReceiverID     uint        `json:"receiver_id,omitempty"`
	Content        string      `json:"content,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
	Data           interface{} `json:"data,omitempty"`
}

// MessageHandler handles an incoming message of one type
type MessageHandler func(*Client, *Message) error

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	hub := &Hub{
		Clients:         make(map[uint]*Client),
		Broadcast:       make(chan *Message),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		MessageHandlers: make(map[string]MessageHandler),
	}

	hub.registerDefaultHandlers()

	return hub
}

func (h *Hub) registerDefaultHandlers() {
	h.MessageHandlers["chat"] = h.handleChatMessage
	h.MessageHandlers["typing"] = h.handleTypingIndicator
	h.MessageHandlers["ping"] = h.handlePing
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🔌 Admin connected: ID=%d", client.ID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client.ID]; ok {
				delete(h.Clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Admin disconnected: ID=%d", client.ID)

		case message := <-h.Broadcast:
			h.broadcastMessage(message)
		}
	}
}

// broadcastMessage sends a message to all connected admins
func (h *Hub) broadcastMessage(message *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	for id, client := range h.Clients {
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.Clients, id)
		}
	}
}

// SendToAdmin sends a message to one admin if connected. Disconnected
// admins simply read the record from the store later.
func (h *Hub) SendToAdmin(adminID uint, message *Message) {
	h.mu.RLock()
	client, exists := h.Clients[adminID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("⚠️ Admin %d's send buffer is full", adminID)
	}
}

// IsConnected checks if an admin currently holds a live connection
func (h *Hub) IsConnected(adminID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.Clients[adminID]
	return exists
}

// ConnectedAdmins returns the ids of currently connected admins
func (h *Hub) ConnectedAdmins() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uint, 0, len(h.Clients))
	for id := range h.Clients {
		ids = append(ids, id)
	}
	return ids
}

// handleChatMessage relays a typed chat event to the conversation peer.
// Persistence happens through the REST endpoint; the socket only carries
// the live echo.
func (h *Hub) handleChatMessage(client *Client, message *Message) error {
	if message.ReceiverID == 0 {
		log.Printf("⚠️ Chat relay from admin %d without receiver", client.ID)
		return nil
	}
	h.SendToAdmin(message.ReceiverID, message)
	return nil
}

// handleTypingIndicator relays a typing indicator to the peer
func (h *Hub) handleTypingIndicator(client *Client, message *Message) error {
	if message.ReceiverID == 0 {
		return nil
	}
	h.SendToAdmin(message.ReceiverID, message)
	return nil
}

// handlePing answers keepalive probes
func (h *Hub) handlePing(client *Client, message *Message) error {
	pong := &Message{Type: "pong", Timestamp: time.Now()}
	data, err := json.Marshal(pong)
	if err != nil {
		return err
	}
	select {
	case client.Send <- data:
	default:
	}
	return nil
}
