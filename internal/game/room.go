package game

import "sync"

// Room groups clients that should see each other's state-change
// broadcasts. Membership mechanics beyond add/remove/broadcast live
// outside this core.
type Room struct {
	Name string

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewRoom constructs a room with no clients.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		clients: make(map[*Client]struct{}),
	}
}

// Add inserts a client into the room. Returns true if newly added.
func (r *Room) Add(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	c.room = r
	return true
}

// Remove deletes a client from the room. Returns true if removed.
func (r *Room) Remove(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	c.room = nil
	return true
}

// Broadcast queues a frame on every client in the room.
func (r *Room) Broadcast(frame string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for client := range r.clients {
		client.Send(frame)
	}
}

// Size returns the number of clients in the room.
func (r *Room) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
