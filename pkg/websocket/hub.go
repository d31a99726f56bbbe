package websocket

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"carefoundation/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AdminRoom       = "admins"
	userRoomPrefix  = "user_"
	deliveryBacklog = 256
)

// Hub fans events out to connected clients. Run owns the client and room maps;
// everything else talks to it over channels.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	connected  atomic.Int64
	logger     *logger.Logger
}

type delivery struct {
	room string
	data []byte
}

type Message struct {
	Type      string                 `json:"type"`
	UserID    string                 `json:"user_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, deliveryBacklog),
		logger:     log,
	}
}

// Run processes registrations and deliveries until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.drop(client)

		case d := <-h.deliver:
			h.sendToRoom(d.room, d.data)
		}
	}
}

func UserRoom(userID primitive.ObjectID) string {
	return userRoomPrefix + userID.Hex()
}

// SendToUser queues msg for every connection of userID. It never blocks.
func (h *Hub) SendToUser(userID primitive.ObjectID, msg Message) {
	msg.UserID = userID.Hex()
	h.enqueue(UserRoom(userID), msg)
}

// BroadcastToAdmins queues msg for every connected admin. It never blocks.
func (h *Hub) BroadcastToAdmins(msg Message) {
	h.enqueue(AdminRoom, msg)
}

func (h *Hub) ClientCount() int {
	return int(h.connected.Load())
}

func (h *Hub) enqueue(room string, msg Message) {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).WithField("type", msg.Type).Error("Failed to encode websocket message")
		return
	}

	select {
	case h.deliver <- delivery{room: room, data: data}:
	default:
		h.logger.WithFields(map[string]interface{}{
			"room": room,
			"type": msg.Type,
		}).Warn("Websocket delivery queue full, dropping message")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clients[client] = true
	h.connected.Add(1)

	h.joinRoom(client, UserRoom(client.UserID))
	if client.Role == "admin" {
		h.joinRoom(client, AdminRoom)
	}

	h.logger.WithUserID(client.UserID).WithField("role", client.Role).Debug("Websocket client registered")

	welcome, _ := json.Marshal(Message{
		Type:      "welcome",
		UserID:    client.UserID.Hex(),
		Timestamp: time.Now().Unix(),
		Data:      map[string]interface{}{"message": "Connected successfully"},
	})
	h.offer(client, welcome)
}

func (h *Hub) joinRoom(client *Client, room string) {
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.rooms[room] = true
}

// drop removes client from every room and closes its outbound channel.
func (h *Hub) drop(client *Client) {
	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	h.connected.Add(-1)

	for room := range client.rooms {
		members := h.rooms[room]
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(client.send)

	h.logger.WithUserID(client.UserID).Debug("Websocket client unregistered")
}

func (h *Hub) sendToRoom(room string, data []byte) {
	for client := range h.rooms[room] {
		h.offer(client, data)
	}
}

// offer hands data to a client without blocking; a client that cannot keep up is dropped.
func (h *Hub) offer(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.WithUserID(client.UserID).Warn("Websocket client too slow, disconnecting")
		h.drop(client)
	}
}
