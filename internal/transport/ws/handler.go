package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/iceberg-server/internal/game"
	"github.com/vovakirdan/iceberg-server/internal/proto"
	"github.com/vovakirdan/iceberg-server/internal/store"
)

// Handler upgrades HTTP connections to websockets, authenticates the
// session ticket, loads the player into the registry and bridges XT
// frames to the game services.
type Handler struct {
	registry *game.Registry
	store    store.PlayerStore
	room     *game.Room
	tickets  *TicketConfig

	ledger   *game.Ledger
	outfits  *game.OutfitController
	ignores  *game.IgnoreManager
	presence *game.Resolver

	log *zerolog.Logger
}

// NewHandler builds a websocket handler.
func NewHandler(
	registry *game.Registry,
	st store.PlayerStore,
	room *game.Room,
	tickets *TicketConfig,
	ledger *game.Ledger,
	outfits *game.OutfitController,
	ignores *game.IgnoreManager,
	presence *game.Resolver,
	logger *zerolog.Logger,
) stdhttp.Handler {
	return &Handler{
		registry: registry,
		store:    st,
		room:     room,
		tickets:  tickets,
		ledger:   ledger,
		outfits:  outfits,
		ignores:  ignores,
		presence: presence,
		log:      logger,
	}
}

func (h *Handler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()
	connID := uuid.NewString()

	claims, err := VerifyTicket(h.tickets, r.URL.Query().Get("ticket"))
	if err != nil {
		h.log.Warn().Err(err).Str("conn_id", connID).Msg("ticket rejected")
		stdhttp.Error(w, "invalid ticket", stdhttp.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Str("conn_id", connID).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client, err := h.connect(ctx, connID, claims)
	if err != nil {
		h.log.Warn().Err(err).Str("conn_id", connID).Int64("player_id", claims.PlayerID).Msg("connect refused")
		conn.Close(websocket.StatusPolicyViolation, "connect refused")
		return
	}
	defer h.disconnect(client)

	h.log.Info().
		Str("conn_id", connID).
		Int64("player_id", client.Player.ID).
		Str("username", client.Player.Username).
		Msg("player connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if errors.Is(err, game.ErrProtocol) || errors.Is(err, game.ErrPlayerNotFound) {
			status = websocket.StatusPolicyViolation
			reason = "protocol violation"
			h.log.Warn().Err(err).Str("conn_id", connID).Int64("player_id", client.Player.ID).Msg("connection terminated")
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
			err = nil
		}
		if err != nil {
			status = websocket.StatusInternalError
			reason = "internal error"
			h.log.Error().Err(err).Str("conn_id", connID).Int64("player_id", client.Player.ID).Msg("connection failed")
		}
	}

	conn.Close(status, reason)
}

// connect loads the player's stored state and claims its registry slot.
// A second connection for an already-online player id is refused.
func (h *Handler) connect(ctx context.Context, connID string, claims *TicketClaims) (*game.Client, error) {
	row, err := h.store.GetPlayer(ctx, claims.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("load player: %w", err)
	}
	inventory, err := h.store.ListInventory(ctx, claims.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	ignores, err := h.store.ListIgnores(ctx, claims.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("load ignores: %w", err)
	}

	player := game.NewPlayer(row, inventory, ignores, claims.Member)
	if !h.registry.Register(player) {
		return nil, fmt.Errorf("player %d already connected", claims.PlayerID)
	}

	client := game.NewClient(connID, player)
	h.room.Add(client)
	return client, nil
}

func (h *Handler) disconnect(c *game.Client) {
	h.room.Remove(c)
	h.registry.Unregister(c.Player.ID)
	h.log.Info().
		Str("conn_id", c.ConnID).
		Int64("player_id", c.Player.ID).
		Msg("player disconnected")
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, client *game.Client) error {
	for {
		kind, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if kind != websocket.MessageText {
			return fmt.Errorf("%w: binary frame", game.ErrProtocol)
		}

		frame, err := proto.Parse(string(data))
		if err != nil {
			return fmt.Errorf("%w: %v", game.ErrProtocol, err)
		}

		h.log.Debug().
			Str("conn_id", client.ConnID).
			Str("cmd", frame.Cmd).
			Msg("frame received")

		if err := h.dispatch(ctx, client, frame); err != nil {
			return err
		}
	}
}

func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, client *game.Client) error {
	for {
		select {
		case frame, ok := <-client.Frames:
			if !ok {
				return nil
			}
			if err := conn.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
