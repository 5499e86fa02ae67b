package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/AyanAlikhan11/connext-Alumni/internal/config"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/log"
)

// relayEvent is one fan-out unit: a payload headed for every member of a room
// except the sender.
type relayEvent struct {
	Room    string
	Payload []byte
	Exclude string // endpoint ID to skip
}

// Hub is the relay dispatcher. Fan-out goes through a single Run loop, so
// delivery decisions are processed at one dispatch point and a total order
// falls out of that serialization. Delivery is fire-and-forget: a slow or
// dead member is detached without blocking the rest of the room.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   *rooms

	relay  chan *relayEvent
	config config.WebSocketConfig
}

// NewHub creates a relay dispatcher.
func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   newRooms(),
		relay:   make(chan *relayEvent, 256),
		config:  cfg,
	}
}

// Run drains the relay channel until the context is cancelled. Call once, in
// its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case evt := <-h.relay:
			for _, member := range h.rooms.members(evt.Room) {
				if member.ID == evt.Exclude {
					continue
				}
				if !member.trySend(evt.Payload) {
					// Dead or hopelessly slow member: detach it without
					// holding up delivery to the rest of the room.
					h.Unregister(member)
				}
			}
		}
	}
}

// Register adds a connected endpoint.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldEndpointID, client.ID).Msg("endpoint connected")
}

// Unregister detaches an endpoint and purges it from every room. No-op when
// the endpoint is already gone.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.ID]
	if ok {
		h.rooms.removeAll(client)
		delete(h.clients, client.ID)
		client.detach()
	}
	h.mu.Unlock()

	if ok {
		l := log.L()
		l.Debug().Str(log.FieldEndpointID, client.ID).Msg("endpoint disconnected")
	}
}

// Join subscribes the endpoint to a room. Idempotent. An endpoint that is no
// longer registered is refused, so a dropped connection cannot re-enter a
// room through its still-running read pump.
func (h *Hub) Join(client *Client, roomID string) bool {
	h.mu.RLock()
	_, ok := h.clients[client.ID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	h.rooms.join(client, roomID)

	l := log.L()
	l.Info().
		Str(log.FieldEndpointID, client.ID).
		Str(log.FieldConversationID, roomID).
		Msg("endpoint joined room")
	return true
}

// Leave unsubscribes the endpoint from a room. No-op when absent.
func (h *Hub) Leave(client *Client, roomID string) {
	h.rooms.leave(client, roomID)
}

// InRoom reports whether the endpoint currently belongs to the room.
func (h *Hub) InRoom(client *Client, roomID string) bool {
	return h.rooms.contains(client, roomID)
}

// MemberIDs returns the IDs of the endpoints subscribed to a room.
func (h *Hub) MemberIDs(roomID string) []string {
	members := h.rooms.members(roomID)
	ids := make([]string, 0, len(members))
	for _, c := range members {
		ids = append(ids, c.ID)
	}
	return ids
}

// Relay fans the event out to every member of the room except the sender.
func (h *Hub) Relay(roomID string, event interface{}, excludeID string) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.relay <- &relayEvent{
		Room:    roomID,
		Payload: data,
		Exclude: excludeID,
	}
	return nil
}
