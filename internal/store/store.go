package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no row exists for the requested player.
	ErrNotFound = errors.New("player not found")
	// ErrInsufficientFunds is returned when a purchase would drive coins negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAlreadyOwned is returned when an inventory insert hits an existing row.
	ErrAlreadyOwned = errors.New("item already owned")
)

// PlayerRow mirrors the players table: identity, balance and the nine
// persisted outfit slot columns.
type PlayerRow struct {
	ID       int64
	Username string
	Coins    int64

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

// IgnoreRow is one persisted ignore-list entry, with the username that was
// cached when the relation was created.
type IgnoreRow struct {
	TargetID int64
	Username string
}

// Outfit slot column names accepted by UpdateSlot.
const (
	SlotColor = "color"
	SlotHead  = "head"
	SlotFace  = "face"
	SlotNeck  = "neck"
	SlotBody  = "body"
	SlotHand  = "hand"
	SlotFeet  = "feet"
	SlotFlag  = "flag"
	SlotPhoto = "photo"
)

// PlayerStore is the durable record of player state. It is the fallback
// source for queries about offline players and the write target for every
// mutation of a live one.
type PlayerStore interface {
	// GetPlayer retrieves a player row by id. Returns ErrNotFound if absent.
	GetPlayer(ctx context.Context, id int64) (*PlayerRow, error)

	// ListInventory returns the player's owned item ids in insertion order.
	ListInventory(ctx context.Context, playerID int64) ([]int64, error)

	// ListIgnores returns the player's ignore entries in insertion order.
	ListIgnores(ctx context.Context, playerID int64) ([]IgnoreRow, error)

	// PurchaseItem atomically debits cost from the player's balance and
	// inserts the inventory row; either both apply or neither does.
	// Returns the balance after the debit.
	PurchaseItem(ctx context.Context, playerID, itemID, cost int64) (int64, error)

	// UpdateSlot persists one outfit slot column for the player.
	UpdateSlot(ctx context.Context, playerID int64, slot string, itemID int64) error

	// AddIgnore persists an ignore entry. Duplicate adds are no-ops.
	AddIgnore(ctx context.Context, playerID, targetID int64, username string) error

	// RemoveIgnore deletes an ignore entry. Absent entries are no-ops.
	RemoveIgnore(ctx context.Context, playerID, targetID int64) error

	// Close closes the underlying database connection.
	Close() error
}
