package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/iceberg-server/internal/catalog"
	"github.com/vovakirdan/iceberg-server/internal/config"
	"github.com/vovakirdan/iceberg-server/internal/game"
	"github.com/vovakirdan/iceberg-server/internal/store"
	"github.com/vovakirdan/iceberg-server/internal/store/sqlite"
	"github.com/vovakirdan/iceberg-server/internal/transport/ws"
)

// defaultRoom is where every client lands at connect. Richer room routing
// belongs to the world layer, not this core.
const defaultRoom = "town"

// App wires together the game core, storage and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.PlayerStore
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init catalog: %w", err)
	}
	logger.Info().Str("catalog_path", cfg.CatalogPath).Int("items", cat.Len()).Msg("item catalog loaded")

	if cfg.TicketSecret == "" {
		st.Close()
		return nil, fmt.Errorf("ticket_secret must be configured")
	}

	registry := game.NewRegistry()
	room := game.NewRoom(defaultRoom)
	presence := game.NewResolver(registry, st)
	ledger := game.NewLedger(cat, st, registry, presence, logger)
	outfits := game.NewOutfitController(registry, st)
	ignores := game.NewIgnoreManager(registry, st, presence)

	tickets := &ws.TicketConfig{
		Secret: []byte(cfg.TicketSecret),
		Issuer: "iceberg",
		TTL:    24 * time.Hour,
	}

	handler := ws.NewHandler(registry, st, room, tickets, ledger, outfits, ignores, presence, logger)
	server := ws.NewServer(cfg, handler)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
