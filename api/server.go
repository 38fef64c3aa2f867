package api

import (
	"net/http"
	"time"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/config"
)

// NewServer wraps the router in an http.Server with sane timeouts. No write
// timeout is set so the SSE event stream can stay open.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
