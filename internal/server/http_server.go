package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/oggyb/lunchmatch/internal/config"
)

// HTTPServer serves the REST API.
type HTTPServer struct {
	srv *http.Server
	log *slog.Logger
}

func NewHTTPServer(cfg *config.Config, handler http.Handler, log *slog.Logger) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// ListenAndServe blocks until the server stops. A graceful shutdown is not
// reported as an error.
func (s *HTTPServer) ListenAndServe() error {
	s.log.Info("starting HTTP server", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
