package game

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vovakirdan/iceberg-server/internal/proto"
	"github.com/vovakirdan/iceberg-server/internal/store"
)

// Slot identifies one outfit slot. Its string value doubles as the
// persisted column name.
type Slot string

const (
	SlotColor Slot = store.SlotColor
	SlotHead  Slot = store.SlotHead
	SlotFace  Slot = store.SlotFace
	SlotNeck  Slot = store.SlotNeck
	SlotBody  Slot = store.SlotBody
	SlotHand  Slot = store.SlotHand
	SlotFeet  Slot = store.SlotFeet
	SlotFlag  Slot = store.SlotFlag
	SlotPhoto Slot = store.SlotPhoto
)

var slotsByTag = map[string]Slot{
	proto.CmdUpdateColor: SlotColor,
	proto.CmdUpdateHead:  SlotHead,
	proto.CmdUpdateFace:  SlotFace,
	proto.CmdUpdateNeck:  SlotNeck,
	proto.CmdUpdateBody:  SlotBody,
	proto.CmdUpdateHand:  SlotHand,
	proto.CmdUpdateFeet:  SlotFeet,
	proto.CmdUpdateFlag:  SlotFlag,
	proto.CmdUpdatePhoto: SlotPhoto,
}

// SlotForTag maps a wire clothing tag (upc, uph, ...) to its slot.
func SlotForTag(tag string) (Slot, bool) {
	s, ok := slotsByTag[tag]
	return s, ok
}

// Mandatory reports whether the slot may never be empty.
func (s Slot) Mandatory() bool {
	return s == SlotColor || s == SlotPhoto
}

// Column returns the persisted column name for the slot.
func (s Slot) Column() string { return string(s) }

// Outfit holds the nine equip-slot values. Zero means empty, which is
// never legal for Color and Photo.
type Outfit struct {
	Color int64
	Head  int64
	Face  int64
	Neck  int64
	Body  int64
	Hand  int64
	Feet  int64
	Flag  int64
	Photo int64
}

func (o *Outfit) set(slot Slot, itemID int64) {
	switch slot {
	case SlotColor:
		o.Color = itemID
	case SlotHead:
		o.Head = itemID
	case SlotFace:
		o.Face = itemID
	case SlotNeck:
		o.Neck = itemID
	case SlotBody:
		o.Body = itemID
	case SlotHand:
		o.Hand = itemID
	case SlotFeet:
		o.Feet = itemID
	case SlotFlag:
		o.Flag = itemID
	case SlotPhoto:
		o.Photo = itemID
	}
}

// OutfitController validates and applies equip-slot changes.
type OutfitController struct {
	registry *Registry
	store    store.PlayerStore
}

// NewOutfitController builds an outfit controller.
func NewOutfitController(registry *Registry, st store.PlayerStore) *OutfitController {
	return &OutfitController{registry: registry, store: st}
}

// UpdateSlot applies one equip-slot change for the client's player.
// Any returned error is connection-fatal: an unrecognized tag, a nonzero
// item the player does not own, or clearing a mandatory slot all indicate
// a client that is off the rails.
//
// The room broadcast goes out before the slot value is persisted, so
// observers in the room never see the change later than the owner does.
func (oc *OutfitController) UpdateSlot(ctx context.Context, c *Client, tag string, itemID int64) error {
	slot, ok := SlotForTag(tag)
	if !ok {
		return fmt.Errorf("%w: clothing tag %q", ErrProtocol, tag)
	}

	p := c.Player
	if itemID == 0 && slot.Mandatory() {
		return fmt.Errorf("%w: slot %s cannot be empty", ErrProtocol, slot)
	}
	if itemID != 0 && !p.Owns(itemID) {
		return fmt.Errorf("%w: item %d not owned", ErrProtocol, itemID)
	}

	mu := oc.registry.Mutex(p.ID)
	mu.Lock()
	defer mu.Unlock()

	if room := c.Room(); room != nil {
		room.Broadcast(proto.Reply(tag,
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(itemID, 10),
		))
	}

	if err := oc.store.UpdateSlot(ctx, p.ID, slot.Column(), itemID); err != nil {
		return fmt.Errorf("persist slot %s: %w", slot, err)
	}
	p.setSlot(slot, itemID)
	return nil
}
