package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/iceberg-server/internal/store"
)

func garyRow() store.PlayerRow {
	return store.PlayerRow{
		ID: 7, Username: "gary", Coins: 250,
		Color: 4, Head: 101, Face: 0, Neck: 102, Body: 0,
		Hand: 0, Feet: 0, Flag: 0, Photo: 9,
	}
}

func TestSummaryLiveAndStoredAreFieldEquivalent(t *testing.T) {
	w := newWorld(t)
	row := garyRow()
	ctx := context.Background()

	w.connect(t, row, 101, 102)
	live, err := w.presence.Summary(ctx, 7)
	require.NoError(t, err)

	w.registry.Unregister(7)
	stored, err := w.presence.Summary(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, live.ID, stored.ID)
	assert.Equal(t, live.Username, stored.Username)
	assert.Equal(t, live.Outfit, stored.Outfit)
	// The stored path cannot know historical membership and defaults to
	// member; the live path reports the session's real flag.
	assert.True(t, stored.Member)
}

func TestSummaryWireString(t *testing.T) {
	w := newWorld(t)
	w.store.addPlayer(garyRow())

	s, err := w.presence.Summary(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "7|gary|1|4|101|0|102|0|0|0|0|9|", s.WireString())
}

func TestSummaryUnknownPlayer(t *testing.T) {
	w := newWorld(t)

	_, err := w.presence.Summary(context.Background(), 31337)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestSummaryLiveReflectsUncommittedState(t *testing.T) {
	w := newWorld(t)
	p := w.connect(t, garyRow(), 101, 102)
	p.setSlot(SlotHead, 102)

	s, err := w.presence.Summary(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(102), s.Outfit.Head)
}

func TestOwnedItemsLiveAndStoredMatch(t *testing.T) {
	w := newWorld(t)
	w.connect(t, garyRow(), 101, 102, 413)
	ctx := context.Background()

	live, err := w.presence.OwnedItems(ctx, 7)
	require.NoError(t, err)

	w.registry.Unregister(7)
	stored, err := w.presence.OwnedItems(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, live, stored)
	assert.Equal(t, []int64{101, 102, 413}, stored)
}

func TestOwnedItemsUnknownPlayer(t *testing.T) {
	w := newWorld(t)

	_, err := w.presence.OwnedItems(context.Background(), 31337)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
