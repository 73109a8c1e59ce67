package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/iceberg-server/internal/store"
)

func outfitClient(t *testing.T, w *world, row store.PlayerRow, room *Room, inventory ...int64) *Client {
	t.Helper()
	p := w.connect(t, row, inventory...)
	c := NewClient("conn-"+row.Username, p)
	room.Add(c)
	t.Cleanup(func() { room.Remove(c) })
	return c
}

func TestUpdateSlotBroadcastsAndPersists(t *testing.T) {
	w := newWorld(t)
	room := NewRoom("town")
	c := outfitClient(t, w, store.PlayerRow{ID: 1, Username: "gary", Coins: 0, Color: 1, Photo: 1}, room, 101)
	observer := outfitClient(t, w, store.PlayerRow{ID: 2, Username: "rook", Coins: 0, Color: 1, Photo: 1}, room)

	err := w.outfits.UpdateSlot(context.Background(), c, "uph", 101)
	require.NoError(t, err)

	assert.Equal(t, int64(101), c.Player.OutfitSnapshot().Head)
	row, err := w.store.GetPlayer(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(101), row.Head)

	select {
	case frame := <-observer.Frames:
		assert.Equal(t, "%xt%uph%-1%1%101%", frame)
	default:
		t.Fatal("observer did not receive the broadcast")
	}
}

func TestUpdateSlotClearsOptionalSlot(t *testing.T) {
	w := newWorld(t)
	room := NewRoom("town")
	c := outfitClient(t, w, store.PlayerRow{ID: 1, Username: "gary", Coins: 0, Color: 1, Photo: 1, Head: 101}, room, 101)

	err := w.outfits.UpdateSlot(context.Background(), c, "uph", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.Player.OutfitSnapshot().Head)
}

func TestUpdateSlotRejectsUnownedItem(t *testing.T) {
	w := newWorld(t)
	room := NewRoom("town")
	c := outfitClient(t, w, store.PlayerRow{ID: 1, Username: "gary", Coins: 0, Color: 1, Photo: 1}, room)

	err := w.outfits.UpdateSlot(context.Background(), c, "uph", 101)
	assert.ErrorIs(t, err, ErrProtocol)
	assert.Equal(t, int64(0), c.Player.OutfitSnapshot().Head)

	row, rerr := w.store.GetPlayer(context.Background(), 1)
	require.NoError(t, rerr)
	assert.Equal(t, int64(0), row.Head)
}

func TestUpdateSlotRejectsUnknownTag(t *testing.T) {
	w := newWorld(t)
	room := NewRoom("town")
	c := outfitClient(t, w, store.PlayerRow{ID: 1, Username: "gary", Coins: 0, Color: 1, Photo: 1}, room, 101)

	err := w.outfits.UpdateSlot(context.Background(), c, "upz", 101)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestUpdateSlotRejectsClearingMandatorySlot(t *testing.T) {
	w := newWorld(t)
	room := NewRoom("town")
	c := outfitClient(t, w, store.PlayerRow{ID: 1, Username: "gary", Coins: 0, Color: 4, Photo: 9}, room)

	for _, tag := range []string{"upc", "upp"} {
		err := w.outfits.UpdateSlot(context.Background(), c, tag, 0)
		assert.ErrorIs(t, err, ErrProtocol, "tag %s", tag)
	}
	assert.Equal(t, int64(4), c.Player.OutfitSnapshot().Color)
	assert.Equal(t, int64(9), c.Player.OutfitSnapshot().Photo)
}
