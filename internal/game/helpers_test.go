package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/iceberg-server/internal/catalog"
	"github.com/vovakirdan/iceberg-server/internal/log"
	"github.com/vovakirdan/iceberg-server/internal/store"
)

// memStore is an in-memory store.PlayerStore for game-layer tests.
type memStore struct {
	mu          sync.Mutex
	players     map[int64]*store.PlayerRow
	inventories map[int64][]int64
	ignores     map[int64][]store.IgnoreRow

	failNext error // next mutating call returns this and clears it
}

func newMemStore() *memStore {
	return &memStore{
		players:     make(map[int64]*store.PlayerRow),
		inventories: make(map[int64][]int64),
		ignores:     make(map[int64][]store.IgnoreRow),
	}
}

func (m *memStore) addPlayer(row store.PlayerRow, inventory ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[row.ID] = &row
	m.inventories[row.ID] = append([]int64(nil), inventory...)
}

func (m *memStore) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memStore) GetPlayer(_ context.Context, id int64) (*store.PlayerRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memStore) ListInventory(_ context.Context, playerID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.inventories[playerID]...), nil
}

func (m *memStore) ListIgnores(_ context.Context, playerID int64) ([]store.IgnoreRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.IgnoreRow(nil), m.ignores[playerID]...), nil
}

func (m *memStore) PurchaseItem(_ context.Context, playerID, itemID, cost int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return 0, err
	}
	row, ok := m.players[playerID]
	if !ok {
		return 0, store.ErrNotFound
	}
	for _, have := range m.inventories[playerID] {
		if have == itemID {
			return 0, store.ErrAlreadyOwned
		}
	}
	if row.Coins < cost {
		return 0, store.ErrInsufficientFunds
	}
	row.Coins -= cost
	m.inventories[playerID] = append(m.inventories[playerID], itemID)
	return row.Coins, nil
}

func (m *memStore) UpdateSlot(_ context.Context, playerID int64, slot string, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	row, ok := m.players[playerID]
	if !ok {
		return store.ErrNotFound
	}
	switch slot {
	case store.SlotColor:
		row.Color = itemID
	case store.SlotHead:
		row.Head = itemID
	case store.SlotFace:
		row.Face = itemID
	case store.SlotNeck:
		row.Neck = itemID
	case store.SlotBody:
		row.Body = itemID
	case store.SlotHand:
		row.Hand = itemID
	case store.SlotFeet:
		row.Feet = itemID
	case store.SlotFlag:
		row.Flag = itemID
	case store.SlotPhoto:
		row.Photo = itemID
	}
	return nil
}

func (m *memStore) AddIgnore(_ context.Context, playerID, targetID int64, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	for _, have := range m.ignores[playerID] {
		if have.TargetID == targetID {
			return nil
		}
	}
	m.ignores[playerID] = append(m.ignores[playerID], store.IgnoreRow{TargetID: targetID, Username: username})
	return nil
}

func (m *memStore) RemoveIgnore(_ context.Context, playerID, targetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	rows := m.ignores[playerID]
	for i, have := range rows {
		if have.TargetID == targetID {
			m.ignores[playerID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStore) Close() error { return nil }

// world bundles the game services over a memStore for tests.
type world struct {
	store    *memStore
	registry *Registry
	presence *Resolver
	ledger   *Ledger
	outfits  *OutfitController
	ignores  *IgnoreManager
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		catalog.Item{ID: 101, Name: "Party Hat", Cost: 300, Type: 2},
		catalog.Item{ID: 102, Name: "Scarf", Cost: 150, Type: 3},
		catalog.Item{ID: 413, Name: "Blue", Cost: 20, Type: 1},
		catalog.Item{ID: 700, Name: "Dance Trophy", Cost: 0, Type: catalog.TypeAward},
		catalog.Item{ID: 701, Name: "Quest Medal", Cost: 0, Type: catalog.TypeAward},
		catalog.Item{ID: 800, Name: "Anchor Pin", Cost: 0, Type: catalog.TypePin},
		catalog.Item{ID: 999, Name: "Patched Hat", Cost: 50, Patched: true},
	)
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ms := newMemStore()
	registry := NewRegistry()
	presence := NewResolver(registry, ms)
	w := &world{
		store:    ms,
		registry: registry,
		presence: presence,
		ledger:   NewLedger(testCatalog(), ms, registry, presence, log.Nop()),
		outfits:  NewOutfitController(registry, ms),
		ignores:  NewIgnoreManager(registry, ms, presence),
	}
	w.ledger.now = func() time.Time { return time.Unix(1700000000, 0) }
	return w
}

// connect seeds the store with row and brings the player online.
func (w *world) connect(t *testing.T, row store.PlayerRow, inventory ...int64) *Player {
	t.Helper()
	w.store.addPlayer(row, inventory...)
	p := NewPlayer(&row, inventory, nil, true)
	if !w.registry.Register(p) {
		t.Fatalf("player %d already registered", row.ID)
	}
	t.Cleanup(func() { w.registry.Unregister(row.ID) })
	return p
}
