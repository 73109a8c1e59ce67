package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/iceberg-server/internal/catalog"
	"github.com/vovakirdan/iceberg-server/internal/store"
)

// Ledger enforces the ownership and economy invariants: no duplicate
// items, no negative balance, debit and grant atomically or not at all.
type Ledger struct {
	catalog  *catalog.Catalog
	store    store.PlayerStore
	registry *Registry
	presence *Resolver
	log      *zerolog.Logger

	now func() time.Time
}

// NewLedger builds an inventory ledger.
func NewLedger(cat *catalog.Catalog, st store.PlayerStore, registry *Registry, presence *Resolver, logger *zerolog.Logger) *Ledger {
	return &Ledger{
		catalog:  cat,
		store:    st,
		registry: registry,
		presence: presence,
		log:      logger,
		now:      time.Now,
	}
}

// ListOwned renders the player's inventory in its wire form.
func (l *Ledger) ListOwned(p *Player) string {
	return encodeInventory(p.InventorySnapshot())
}

// AddItem purchases an item for the player and returns the new balance.
//
// Rule violations (unknown or disabled item, duplicate ownership, short
// balance) come back as *DomainError and mutate nothing. The funds check,
// the durable debit+insert and the in-memory update all happen under the
// player's mutation lock, so concurrent purchases for one player cannot
// double-spend.
func (l *Ledger) AddItem(ctx context.Context, p *Player, itemID int64) (int64, error) {
	item, ok := l.catalog.Lookup(itemID)
	if !ok || item.Patched {
		return 0, ErrItemUnavailable
	}

	mu := l.registry.Mutex(p.ID)
	mu.Lock()
	defer mu.Unlock()

	if p.Owns(itemID) {
		return 0, ErrItemOwned
	}
	if p.Coins() < item.Cost {
		return 0, ErrInsufficientFunds
	}

	balance, err := l.store.PurchaseItem(ctx, p.ID, itemID, item.Cost)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrInsufficientFunds):
		return 0, ErrInsufficientFunds
	case errors.Is(err, store.ErrAlreadyOwned):
		return 0, ErrItemOwned
	default:
		return 0, fmt.Errorf("persist purchase: %w", err)
	}

	p.applyPurchase(itemID, balance)

	l.log.Info().
		Int64("player_id", p.ID).
		Int64("item_id", itemID).
		Int64("cost", item.Cost).
		Int64("balance", balance).
		Msg("item purchased")
	return balance, nil
}

// QueryAwards renders the target player's award items ("" when none).
// Works identically for online and offline targets.
func (l *Ledger) QueryAwards(ctx context.Context, targetID int64) (string, error) {
	owned, err := l.presence.OwnedItems(ctx, targetID)
	if err != nil {
		return "", err
	}
	var awards []int64
	for _, id := range owned {
		if item, ok := l.catalog.Lookup(id); ok && item.IsAward() {
			awards = append(awards, id)
		}
	}
	return encodeAwards(awards), nil
}

// QueryPins renders the target player's pins as id|issued|0 triples
// ("" when none). The issued stamp is the query time in unix seconds.
func (l *Ledger) QueryPins(ctx context.Context, targetID int64) (string, error) {
	owned, err := l.presence.OwnedItems(ctx, targetID)
	if err != nil {
		return "", err
	}
	var pins []int64
	for _, id := range owned {
		if item, ok := l.catalog.Lookup(id); ok && item.IsPin() {
			pins = append(pins, id)
		}
	}
	return encodePins(pins, l.now().Unix()), nil
}
