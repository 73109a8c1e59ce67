package ws

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/iceberg-server/internal/game"
	"github.com/vovakirdan/iceberg-server/internal/proto"
)

// commandFunc handles one inbound command for a connected client.
// A returned error is connection-fatal; recoverable domain errors are
// answered inline and return nil.
type commandFunc func(ctx context.Context, h *Handler, c *game.Client, args []string) error

// commands is the closed dispatch table. Tags outside it are protocol
// violations.
var commands = map[string]commandFunc{
	proto.CmdGetIgnored:   handleGetIgnored,
	proto.CmdAddIgnore:    handleAddIgnore,
	proto.CmdRemoveIgnore: handleRemoveIgnore,

	proto.CmdGetInventory: handleGetInventory,
	proto.CmdGetPlayer:    handleGetPlayer,
	proto.CmdAddItem:      handleAddItem,
	proto.CmdQueryAwards:  handleQueryAwards,
	proto.CmdQueryPins:    handleQueryPins,

	proto.CmdUpdateColor: handleUpdateClothing,
	proto.CmdUpdateHead:  handleUpdateClothing,
	proto.CmdUpdateFace:  handleUpdateClothing,
	proto.CmdUpdateNeck:  handleUpdateClothing,
	proto.CmdUpdateBody:  handleUpdateClothing,
	proto.CmdUpdateHand:  handleUpdateClothing,
	proto.CmdUpdateFeet:  handleUpdateClothing,
	proto.CmdUpdateFlag:  handleUpdateClothing,
	proto.CmdUpdatePhoto: handleUpdateClothing,
}

func (h *Handler) dispatch(ctx context.Context, c *game.Client, frame proto.Frame) error {
	fn, ok := commands[frame.Cmd]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", game.ErrProtocol, frame.Cmd)
	}
	return fn(ctx, h, c, frame.Args)
}

// requireID enforces a single numeric argument, the most common command
// shape. Anything else is connection-fatal.
func requireID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: want 1 argument, got %d", game.ErrProtocol, len(args))
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric id %q", game.ErrProtocol, args[0])
	}
	return id, nil
}

func handleGetIgnored(_ context.Context, h *Handler, c *game.Client, _ []string) error {
	c.Send(proto.Reply(proto.CmdGetIgnored, h.ignores.List(c.Player)))
	return nil
}

func handleAddIgnore(ctx context.Context, h *Handler, c *game.Client, args []string) error {
	targetID, err := requireID(args)
	if err != nil {
		return err
	}
	return h.ignores.Add(ctx, c.Player, targetID)
}

func handleRemoveIgnore(ctx context.Context, h *Handler, c *game.Client, args []string) error {
	targetID, err := requireID(args)
	if err != nil {
		return err
	}
	return h.ignores.Remove(ctx, c.Player, targetID)
}

func handleGetInventory(_ context.Context, h *Handler, c *game.Client, _ []string) error {
	c.Send(proto.Reply(proto.CmdGetInventory, h.ledger.ListOwned(c.Player)))
	return nil
}

func handleGetPlayer(ctx context.Context, h *Handler, c *game.Client, args []string) error {
	targetID, err := requireID(args)
	if err != nil {
		return err
	}
	summary, err := h.presence.Summary(ctx, targetID)
	if err != nil {
		return err
	}
	c.Send(proto.Reply(proto.CmdGetPlayer, summary.WireString()))
	return nil
}

func handleAddItem(ctx context.Context, h *Handler, c *game.Client, args []string) error {
	itemID, err := requireID(args)
	if err != nil {
		return err
	}

	balance, err := h.ledger.AddItem(ctx, c.Player, itemID)
	if de, ok := game.AsDomainError(err); ok {
		c.Send(proto.ErrorReply(de.Code))
		return nil
	}
	if err != nil {
		return err
	}

	c.Send(proto.Reply(proto.CmdAddItem,
		strconv.FormatInt(itemID, 10),
		strconv.FormatInt(balance, 10),
	))
	return nil
}

func handleQueryAwards(ctx context.Context, h *Handler, c *game.Client, args []string) error {
	targetID, err := requireID(args)
	if err != nil {
		return err
	}
	awards, err := h.ledger.QueryAwards(ctx, targetID)
	if err != nil {
		return err
	}
	if awards == "" {
		c.Send(proto.Reply(proto.CmdQueryAwards))
		return nil
	}
	c.Send(proto.Reply(proto.CmdQueryAwards, awards))
	return nil
}

func handleQueryPins(ctx context.Context, h *Handler, c *game.Client, args []string) error {
	targetID, err := requireID(args)
	if err != nil {
		return err
	}
	pins, err := h.ledger.QueryPins(ctx, targetID)
	if err != nil {
		return err
	}
	if pins == "" {
		c.Send(proto.Reply(proto.CmdQueryPins))
		return nil
	}
	c.Send(proto.Reply(proto.CmdQueryPins, pins))
	return nil
}

func handleUpdateClothing(ctx context.Context, h *Handler, c *game.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: want 2 arguments, got %d", game.ErrProtocol, len(args))
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: non-numeric item id %q", game.ErrProtocol, args[0])
	}
	return h.outfits.UpdateSlot(ctx, c, strings.ToLower(args[1]), itemID)
}
