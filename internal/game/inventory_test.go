package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/iceberg-server/internal/store"
)

func TestAddItemDebitsBalanceAndGrantsItem(t *testing.T) {
	w := newWorld(t)
	p := w.connect(t, store.PlayerRow{ID: 1, Username: "gary", Coins: 500, Color: 1, Photo: 1})
	ctx := context.Background()

	balance, err := w.ledger.AddItem(ctx, p, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(200), balance)
	assert.Equal(t, int64(200), p.Coins())
	assert.True(t, p.Owns(101))

	// Stored view matches the live one.
	row, err := w.store.GetPlayer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(200), row.Coins)
	items, err := w.store.ListInventory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{101}, items)
}

func TestAddItemDuplicateIsRejectedWithoutCharge(t *testing.T) {
	w := newWorld(t)
	p := w.connect(t, store.PlayerRow{ID: 1, Username: "gary", Coins: 500, Color: 1, Photo: 1})
	ctx := context.Background()

	_, err := w.ledger.AddItem(ctx, p, 101)
	require.NoError(t, err)

	_, err = w.ledger.AddItem(ctx, p, 101)
	de, ok := AsDomainError(err)
	require.True(t, ok, "want domain error, got %v", err)
	assert.Equal(t, CodeItemOwned, de.Code)
	assert.Equal(t, int64(200), p.Coins())
	assert.Equal(t, []int64{101}, p.InventorySnapshot())
}

func TestAddItemInsufficientFunds(t *testing.T) {
	w := newWorld(t)
	p := w.connect(t, store.PlayerRow{ID: 1, Username: "gary", Coins: 100, Color: 1, Photo: 1})

	_, err := w.ledger.AddItem(context.Background(), p, 101)
	de, ok := AsDomainError(err)
	require.True(t, ok, "want domain error, got %v", err)
	assert.Equal(t, CodeInsufficientFunds, de.Code)
	assert.Equal(t, int64(100), p.Coins())
	assert.False(t, p.Owns(101))
}

func TestAddItemUnknownOrPatched(t *testing.T) {
	w := newWorld(t)
	p := w.connect(t, store.PlayerRow{ID: 1, Username: "gary", Coins: 500, Color: 1, Photo: 1})
	ctx := context.Background()

	for _, itemID := range []int64{31337, 999} {
		_, err := w.ledger.AddItem(ctx, p, itemID)
		de, ok := AsDomainError(err)
		require.True(t, ok, "item %d: want domain error, got %v", itemID, err)
		assert.Equal(t, CodeItemUnavailable, de.Code)
	}
	assert.Equal(t, int64(500), p.Coins())
}

func TestAddItemPersistFailureMutatesNothing(t *testing.T) {
	w := newWorld(t)
	p := w.connect(t, store.PlayerRow{ID: 1, Username: "gary", Coins: 500, Color: 1, Photo: 1})
	w.store.failNext = context.DeadlineExceeded

	_, err := w.ledger.AddItem(context.Background(), p, 101)
	require.Error(t, err)
	_, isDomain := AsDomainError(err)
	assert.False(t, isDomain, "persistence failure must not be recoverable")
	assert.Equal(t, int64(500), p.Coins())
	assert.False(t, p.Owns(101))
}

func TestAddItemConcurrentCannotDoubleSpend(t *testing.T) {
	w := newWorld(t)
	p := w.connect(t, store.PlayerRow{ID: 1, Username: "gary", Coins: 300, Color: 1, Photo: 1})
	ctx := context.Background()

	// Both items cost 300 combined more than the balance covers once.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, itemID := range []int64{101, 102} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = w.ledger.AddItem(ctx, p, itemID)
		}()
	}
	wg.Wait()

	// 101 costs 300 and 102 costs 150: at most one purchase can have
	// passed the funds check, never both.
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			de, ok := AsDomainError(err)
			require.True(t, ok, "unexpected error: %v", err)
			assert.Equal(t, CodeInsufficientFunds, de.Code)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.GreaterOrEqual(t, p.Coins(), int64(0))
}

func TestListOwnedWireForm(t *testing.T) {
	w := newWorld(t)

	empty := w.connect(t, store.PlayerRow{ID: 1, Username: "a", Coins: 0, Color: 1, Photo: 1})
	assert.Equal(t, "", w.ledger.ListOwned(empty))

	single := w.connect(t, store.PlayerRow{ID: 2, Username: "b", Coins: 0, Color: 1, Photo: 1}, 101)
	assert.Equal(t, "101", w.ledger.ListOwned(single))

	many := w.connect(t, store.PlayerRow{ID: 3, Username: "c", Coins: 0, Color: 1, Photo: 1}, 101, 102, 413)
	assert.Equal(t, "101%102%413", w.ledger.ListOwned(many))
}

func TestQueryAwardsAndPins(t *testing.T) {
	w := newWorld(t)
	w.connect(t, store.PlayerRow{ID: 5, Username: "aunt", Coins: 0, Color: 1, Photo: 1},
		101, 700, 800, 701)
	ctx := context.Background()

	awards, err := w.ledger.QueryAwards(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "700|701", awards)

	pins, err := w.ledger.QueryPins(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "800|1700000000|0", pins)
}

func TestQueryAwardsEmptyResult(t *testing.T) {
	w := newWorld(t)
	w.connect(t, store.PlayerRow{ID: 5, Username: "aunt", Coins: 0, Color: 1, Photo: 1}, 101)

	awards, err := w.ledger.QueryAwards(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "", awards)
}

func TestQueryAwardsUnknownTarget(t *testing.T) {
	w := newWorld(t)

	_, err := w.ledger.QueryAwards(context.Background(), 31337)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
