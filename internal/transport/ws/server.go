package ws

import (
	"fmt"
	stdhttp "net/http"

	"github.com/vovakirdan/iceberg-server/internal/config"
)

// NewServer builds the HTTP server hosting the health check and the
// websocket upgrade endpoint.
func NewServer(cfg *config.Config, handler stdhttp.Handler) *stdhttp.Server {
	mux := stdhttp.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/ws", handler)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
	_, _ = fmt.Fprint(w, "ok")
}
