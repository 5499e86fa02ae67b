package hub

import (
	"sync"
)

// rooms is the room registry: conversation ID -> set of subscribed endpoints.
// It owns only the transient membership relation; conversation data never
// passes through it. All mutation is serialized behind one mutex so two
// membership changes for the same room cannot race.
type rooms struct {
	mu     sync.RWMutex
	byRoom map[string]map[string]*Client // roomID -> clientID -> client
}

func newRooms() *rooms {
	return &rooms{
		byRoom: make(map[string]map[string]*Client),
	}
}

// join adds the client to a room. Idempotent.
func (r *rooms) join(c *Client, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byRoom[roomID]; !ok {
		r.byRoom[roomID] = make(map[string]*Client)
	}
	r.byRoom[roomID][c.ID] = c
}

// leave removes the client from a room. No-op when absent.
func (r *rooms) leave(c *Client, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.byRoom[roomID]; ok {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(r.byRoom, roomID)
		}
	}
}

// removeAll removes the client from every room it belongs to. Called exactly
// once per endpoint on terminal disconnect so no stale membership survives a
// dropped channel.
func (r *rooms) removeAll(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID, members := range r.byRoom {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(r.byRoom, roomID)
		}
	}
}

// contains reports whether the client currently belongs to the room.
func (r *rooms) contains(c *Client, roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.byRoom[roomID]
	if !ok {
		return false
	}
	_, ok = members[c.ID]
	return ok
}

// members returns a consistent snapshot of a room's membership. The sender is
// not filtered here; exclusion is the dispatcher's job.
func (r *rooms) members(roomID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.byRoom[roomID]
	if !ok {
		return nil
	}
	snapshot := make([]*Client, 0, len(members))
	for _, c := range members {
		snapshot = append(snapshot, c)
	}
	return snapshot
}
