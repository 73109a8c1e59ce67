package game

import "sync"

// Registry is the process-wide index of currently connected players.
// A missing id means "not connected right now", never "does not exist";
// callers needing existence fall through to the store.
//
// It also hands out per-player mutation locks. Holding Mutex(id) across a
// check plus its durable write is what keeps two concurrent purchases for
// the same player from both passing the funds check.
type Registry struct {
	mu      sync.RWMutex
	players map[int64]*Player

	locks sync.Map // player id -> *sync.Mutex
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[int64]*Player)}
}

// Register inserts a player at connect. Returns false if the id is
// already registered; the caller should refuse the second connection.
func (r *Registry) Register(p *Player) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, online := r.players[p.ID]; online {
		return false
	}
	r.players[p.ID] = p
	return true
}

// Unregister removes a player at disconnect.
func (r *Registry) Unregister(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
}

// Lookup returns the live player for id, if connected.
func (r *Registry) Lookup(id int64) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// Online returns the number of connected players.
func (r *Registry) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// Mutex returns the mutation lock for a player id. The lock exists
// independently of the player being online, so mutations addressed at a
// reconnecting player still serialize correctly.
func (r *Registry) Mutex(id int64) *sync.Mutex {
	lock, _ := r.locks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
