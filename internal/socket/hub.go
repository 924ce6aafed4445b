// internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Group events
	MessageGroupCreated MessageType = "group_created"
	MessageMemberAdded  MessageType = "member_added"

	// Shift events
	MessageShiftCreated  MessageType = "shift_created"
	MessageShiftAssigned MessageType = "shift_assigned"

	// Presence
	MessageUserOnline  MessageType = "user_online"
	MessageUserOffline MessageType = "user_offline"

	// Protocol
	MessagePing MessageType = "ping"
	MessagePong MessageType = "pong"
	MessageAck  MessageType = "ack"
)

// Message is the wire format for every outgoing event
type Message struct {
	Type      MessageType            `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Client is one WebSocket connection. A user may hold several at once.
type Client struct {
	ID       string
	UserID   string
	Conn     *websocket.Conn
	Hub      *Hub
	Send     chan []byte
	Rooms    map[string]bool
	mu       sync.Mutex
	lastPing time.Time
}

// RoomMessage targets every client subscribed to a room, optionally
// excluding one user (usually the actor who caused the event).
type RoomMessage struct {
	Room    string
	Message []byte
	Exclude string
}

// DirectMessage targets all connections of a single user
type DirectMessage struct {
	UserID  string
	Message []byte
}

// Hub owns the client registry and serializes all membership changes
// through its run loop.
type Hub struct {
	clients map[*Client]bool
	byUser  map[string]map[*Client]bool
	byRoom  map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	toRoom     chan *RoomMessage
	toUser     chan *DirectMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[string]map[*Client]bool),
		byRoom:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		toRoom:     make(chan *RoomMessage, 256),
		toUser:     make(chan *DirectMessage, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	log.Println("[Hub] WebSocket hub started")

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.fanOutAll(message)

		case rm := <-h.toRoom:
			h.fanOutRoom(rm)

		case dm := <-h.toUser:
			h.fanOutUser(dm)

		case <-pingTicker.C:
			h.pingClients()
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if h.byUser[client.UserID] == nil {
		h.byUser[client.UserID] = make(map[*Client]bool)
	}
	h.byUser[client.UserID][client] = true

	log.Printf("[Hub] ✅ Client registered: user=%s, id=%s, total_clients=%d",
		client.UserID, client.ID, len(h.clients))

	go h.BroadcastUserStatus(client.UserID, true)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	if conns, ok := h.byUser[client.UserID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.byUser, client.UserID)
			// Last connection gone, the user is offline
			go h.BroadcastUserStatus(client.UserID, false)
		}
	}

	for room := range client.Rooms {
		if members, ok := h.byRoom[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.byRoom, room)
			}
		}
	}

	close(client.Send)
	log.Printf("[Hub] ❌ Client disconnected: user=%s, id=%s, total_clients=%d",
		client.UserID, client.ID, len(h.clients))
}

// trySend queues data for a client without blocking; a client whose buffer
// is full is treated as dead and unregistered.
func (h *Hub) trySend(client *Client, data []byte) bool {
	select {
	case client.Send <- data:
		return true
	default:
		go func() { h.unregister <- client }()
		return false
	}
}

func (h *Hub) fanOutAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		h.trySend(client, message)
	}
}

func (h *Hub) fanOutRoom(rm *RoomMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.byRoom[rm.Room]
	if !ok {
		return
	}

	sent := 0
	for client := range members {
		if rm.Exclude != "" && client.UserID == rm.Exclude {
			continue
		}
		if h.trySend(client, rm.Message) {
			sent++
		}
	}
	log.Printf("[Hub] Broadcast to room %s: sent to %d clients", rm.Room, sent)
}

func (h *Hub) fanOutUser(dm *DirectMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.byUser[dm.UserID] {
		h.trySend(client, dm.Message)
	}
}

func (h *Hub) pingClients() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, _ := json.Marshal(Message{Type: MessagePing, Timestamp: time.Now()})
	for client := range h.clients {
		h.trySend(client, data)
	}
}

// JoinRoom adds a client to a room
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	client.Rooms[room] = true
	client.mu.Unlock()

	if h.byRoom[room] == nil {
		h.byRoom[room] = make(map[*Client]bool)
	}
	h.byRoom[room][client] = true

	log.Printf("[Hub] 👥 Client joined room: user=%s, room=%s", client.UserID, room)
}

// LeaveRoom removes a client from a room
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	delete(client.Rooms, room)
	client.mu.Unlock()

	if members, ok := h.byRoom[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.byRoom, room)
		}
	}

	log.Printf("[Hub] 👋 Client left room: user=%s, room=%s", client.UserID, room)
}

// SendToUser sends an event to every connection of one user
func (h *Hub) SendToUser(userID string, msgType MessageType, payload map[string]interface{}) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		log.Printf("[Hub] Error marshaling message: %v", err)
		return
	}
	h.toUser <- &DirectMessage{UserID: userID, Message: data}
}

// SendToRoom broadcasts an event to all clients in a room
func (h *Hub) SendToRoom(room string, msgType MessageType, payload map[string]interface{}, excludeUserID string) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		log.Printf("[Hub] Error marshaling message: %v", err)
		return
	}
	h.toRoom <- &RoomMessage{Room: room, Message: data, Exclude: excludeUserID}
}

// BroadcastUserStatus announces presence changes to everyone
func (h *Hub) BroadcastUserStatus(userID string, online bool) {
	msgType := MessageUserOffline
	if online {
		msgType = MessageUserOnline
	}

	data, _ := json.Marshal(Message{
		Type: msgType,
		Payload: map[string]interface{}{
			"userId": userID,
			"online": online,
		},
		Timestamp: time.Now(),
	})
	h.broadcast <- data
}

// GetConnectedClientsCount returns total connected clients
func (h *Hub) GetConnectedClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
