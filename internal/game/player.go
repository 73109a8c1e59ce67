package game

import (
	"sync"

	"github.com/vovakirdan/iceberg-server/internal/store"
)

// IgnoreEntry is one ignore-list relation: the ignored player's id plus the
// username that was current when the relation was created.
type IgnoreEntry struct {
	ID       int64
	Username string
}

// Player is the live in-memory state of a connected player. While the
// player is online this is the authoritative view; every mutation is
// persisted immediately so the stored row never lags by more than the
// in-flight write.
//
// Field reads may come from other players' connection goroutines (presence
// queries), so all mutable state sits behind an RWMutex. Mutations are
// additionally serialized per player id by Registry.Mutex.
type Player struct {
	ID       int64
	Username string
	Member   bool

	mu        sync.RWMutex
	coins     int64
	inventory []int64
	owned     map[int64]struct{}
	outfit    Outfit
	ignored   []IgnoreEntry
}

// NewPlayer builds a live player from its stored representation.
func NewPlayer(row *store.PlayerRow, inventory []int64, ignores []store.IgnoreRow, member bool) *Player {
	p := &Player{
		ID:       row.ID,
		Username: row.Username,
		Member:   member,
		coins:    row.Coins,
		owned:    make(map[int64]struct{}, len(inventory)),
		outfit: Outfit{
			Color: row.Color,
			Head:  row.Head,
			Face:  row.Face,
			Neck:  row.Neck,
			Body:  row.Body,
			Hand:  row.Hand,
			Feet:  row.Feet,
			Flag:  row.Flag,
			Photo: row.Photo,
		},
	}
	for _, id := range inventory {
		if _, dup := p.owned[id]; dup {
			continue
		}
		p.inventory = append(p.inventory, id)
		p.owned[id] = struct{}{}
	}
	for _, ig := range ignores {
		p.ignored = append(p.ignored, IgnoreEntry{ID: ig.TargetID, Username: ig.Username})
	}
	return p
}

// Coins returns the current balance.
func (p *Player) Coins() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.coins
}

// Owns reports whether the item is in the owned set.
func (p *Player) Owns(itemID int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.owned[itemID]
	return ok
}

// InventorySnapshot returns the owned item ids in insertion order.
func (p *Player) InventorySnapshot() []int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]int64, len(p.inventory))
	copy(out, p.inventory)
	return out
}

// OutfitSnapshot returns a copy of the current outfit.
func (p *Player) OutfitSnapshot() Outfit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.outfit
}

// IgnoredSnapshot returns the ignore entries in insertion order.
func (p *Player) IgnoredSnapshot() []IgnoreEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]IgnoreEntry, len(p.ignored))
	copy(out, p.ignored)
	return out
}

// ignores reports whether targetID is already in the ignore set.
func (p *Player) ignores(targetID int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, e := range p.ignored {
		if e.ID == targetID {
			return true
		}
	}
	return false
}

// applyPurchase records a persisted purchase: the item joins the owned set
// and the balance takes the post-debit value reported by the store.
func (p *Player) applyPurchase(itemID, balance int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, dup := p.owned[itemID]; dup {
		return
	}
	p.inventory = append(p.inventory, itemID)
	p.owned[itemID] = struct{}{}
	p.coins = balance
}

// setSlot records a persisted outfit change.
func (p *Player) setSlot(slot Slot, itemID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outfit.set(slot, itemID)
}

// addIgnore records a persisted ignore insert. Duplicates are dropped.
func (p *Player) addIgnore(e IgnoreEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, have := range p.ignored {
		if have.ID == e.ID {
			return
		}
	}
	p.ignored = append(p.ignored, e)
}

// removeIgnore records a persisted ignore delete. Absence is tolerated.
func (p *Player) removeIgnore(targetID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, have := range p.ignored {
		if have.ID == targetID {
			p.ignored = append(p.ignored[:i], p.ignored[i+1:]...)
			return
		}
	}
}
