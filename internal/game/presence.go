package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/iceberg-server/internal/store"
)

// Summary is the public record of a player, shaped identically whether it
// came from live session state or from the stored row.
type Summary struct {
	ID       int64
	Username string
	Member   bool
	Outfit   Outfit
}

// WireString renders the pipe-delimited gp record: id, username, member
// flag and the nine slot values, with a trailing separator.
func (s Summary) WireString() string {
	member := "0"
	if s.Member {
		member = "1"
	}
	fields := []string{
		strconv.FormatInt(s.ID, 10),
		s.Username,
		member,
		strconv.FormatInt(s.Outfit.Color, 10),
		strconv.FormatInt(s.Outfit.Head, 10),
		strconv.FormatInt(s.Outfit.Face, 10),
		strconv.FormatInt(s.Outfit.Neck, 10),
		strconv.FormatInt(s.Outfit.Body, 10),
		strconv.FormatInt(s.Outfit.Hand, 10),
		strconv.FormatInt(s.Outfit.Feet, 10),
		strconv.FormatInt(s.Outfit.Flag, 10),
		strconv.FormatInt(s.Outfit.Photo, 10),
	}
	return strings.Join(fields, "|") + "|"
}

// Resolver answers queries about an arbitrary target player: live session
// state when the target is online, the stored row otherwise. A target
// with neither is ErrPlayerNotFound.
type Resolver struct {
	registry *Registry
	store    store.PlayerStore
}

// NewResolver builds a presence resolver.
func NewResolver(registry *Registry, st store.PlayerStore) *Resolver {
	return &Resolver{registry: registry, store: st}
}

// Summary resolves the target's public record.
//
// The stored path reports the member flag as set: per-row membership
// history is not persisted, so offline players read as members. Known
// fidelity gap, kept deliberately.
func (r *Resolver) Summary(ctx context.Context, targetID int64) (Summary, error) {
	if p, online := r.registry.Lookup(targetID); online {
		return Summary{
			ID:       p.ID,
			Username: p.Username,
			Member:   p.Member,
			Outfit:   p.OutfitSnapshot(),
		}, nil
	}

	row, err := r.store.GetPlayer(ctx, targetID)
	if errors.Is(err, store.ErrNotFound) {
		return Summary{}, ErrPlayerNotFound
	}
	if err != nil {
		return Summary{}, fmt.Errorf("load player %d: %w", targetID, err)
	}

	return Summary{
		ID:       row.ID,
		Username: row.Username,
		Member:   true,
		Outfit: Outfit{
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
	}, nil
}

// OwnedItems resolves the target's owned-item ids in insertion order,
// from the live inventory when online and the stored rows otherwise.
func (r *Resolver) OwnedItems(ctx context.Context, targetID int64) ([]int64, error) {
	if p, online := r.registry.Lookup(targetID); online {
		return p.InventorySnapshot(), nil
	}

	if _, err := r.store.GetPlayer(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("load player %d: %w", targetID, err)
	}

	items, err := r.store.ListInventory(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("load inventory %d: %w", targetID, err)
	}
	return items, nil
}

// Username resolves the target's current display name, preferring the
// live session. Reports found=false when the player does not exist.
func (r *Resolver) Username(ctx context.Context, targetID int64) (string, bool, error) {
	if p, online := r.registry.Lookup(targetID); online {
		return p.Username, true, nil
	}
	row, err := r.store.GetPlayer(ctx, targetID)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load player %d: %w", targetID, err)
	}
	return row.Username, true, nil
}
