// Package web contains the HTTP listeners of schema-server: the public
// listener serving the document and the operations listener serving health,
// build info and metrics.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Server is an HTTP server bound to its listener at construction time.
type Server struct {
	name string
	srv  *http.Server
	ln   net.Listener
}

// NewServer binds addr and returns a Server ready to Start. Bind errors are
// returned here rather than from the serving goroutine.
func NewServer(name, addr string, handler http.Handler, readHeaderTimeout time.Duration) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("web: listen %s on %s: %w", name, addr, err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return &Server{
		name: name,
		srv:  srv,
		ln:   ln,
	}, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Start serves requests in a separate goroutine.
func (s *Server) Start() {
	log.Info().
		Str("server", s.name).
		Str("addr", s.Addr()).
		Msg("Starting HTTP server")

	go func() {
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("server", s.name).Msg("HTTP server stopped with error")
		}
	}()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	// Serve owns the listener once started; before that it is still ours.
	_ = s.ln.Close()
	if err != nil {
		return fmt.Errorf("web: shutdown %s: %w", s.name, err)
	}
	log.Info().Str("server", s.name).Msg("HTTP server stopped")
	return nil
}
