package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"blogapi/app/repositories"
	"blogapi/app/routes"
	"blogapi/config"

	"github.com/sirupsen/logrus"
)

// Server runs the blog API over a Store.
type Server struct {
	cfg        *config.Server
	log        logrus.FieldLogger
	httpServer *http.Server
	listener   net.Listener
	errCh      chan error
	mu         sync.RWMutex
}

// NewServer wires the routes for store into an HTTP server.
func NewServer(cfg *config.Server, store repositories.Store, log logrus.FieldLogger) *Server {
	return &Server{
		cfg: cfg,
		log: log,
		httpServer: &http.Server{
			Addr:         cfg.Address(),
			Handler:      routes.SetupRoutes(store, log),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		errCh: make(chan error, 1),
	}
}

// Start binds the listener and serves in the background. Once Start returns the server
// accepts connections, so port 0 may be used and read back with Addr.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.log.WithField("address", listener.Addr().String()).Info("server starting")

	go func() {
		err := s.httpServer.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- fmt.Errorf("server error: %w", err)
		}
		close(s.errCh)
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the base http URL of the running server.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Errors yields a serve failure, and is closed when serving stops.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.WithError(err).Error("shutdown error")
		return err
	}
	s.log.Info("server stopped")
	return nil
}

// RunServer opens the configured store, serves until ctx is done or a signal arrives, then
// shuts down and closes the store.
func RunServer(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) error {
	store, err := repositories.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.WithError(err).Error("failed to close store")
		}
	}()

	srv := NewServer(cfg.Server, store, log)
	if err := srv.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-srv.Errors():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}
