package game

import (
	"context"
	"fmt"

	"github.com/vovakirdan/iceberg-server/internal/store"
)

// IgnoreManager maintains each player's block list. Adds and removes are
// idempotent: repeating either is a silent no-op, matching what clients
// already expect from the protocol.
type IgnoreManager struct {
	registry *Registry
	store    store.PlayerStore
	presence *Resolver
}

// NewIgnoreManager builds an ignore list manager.
func NewIgnoreManager(registry *Registry, st store.PlayerStore, presence *Resolver) *IgnoreManager {
	return &IgnoreManager{registry: registry, store: st, presence: presence}
}

// List renders the player's ignore list in its wire form ("" when empty).
// Entries appear in insertion order.
func (m *IgnoreManager) List(p *Player) string {
	return encodeIgnores(p.IgnoredSnapshot())
}

// Add inserts targetID into the player's ignore set, caching the target's
// username as of now. Ignoring an id twice, or an id that does not exist,
// changes nothing and is not an error.
func (m *IgnoreManager) Add(ctx context.Context, p *Player, targetID int64) error {
	if p.ignores(targetID) {
		return nil
	}

	username, found, err := m.presence.Username(ctx, targetID)
	if err != nil {
		return fmt.Errorf("resolve ignore target: %w", err)
	}
	if !found {
		return nil
	}

	mu := m.registry.Mutex(p.ID)
	mu.Lock()
	defer mu.Unlock()

	if err := m.store.AddIgnore(ctx, p.ID, targetID, username); err != nil {
		return fmt.Errorf("persist ignore: %w", err)
	}
	p.addIgnore(IgnoreEntry{ID: targetID, Username: username})
	return nil
}

// Remove deletes targetID from the player's ignore set. Removing an
// absent id is a no-op.
func (m *IgnoreManager) Remove(ctx context.Context, p *Player, targetID int64) error {
	mu := m.registry.Mutex(p.ID)
	mu.Lock()
	defer mu.Unlock()

	if err := m.store.RemoveIgnore(ctx, p.ID, targetID); err != nil {
		return fmt.Errorf("persist ignore removal: %w", err)
	}
	p.removeIgnore(targetID)
	return nil
}
