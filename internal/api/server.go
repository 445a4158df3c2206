package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/amaumene/rakuroku/internal/api/handlers"
	"github.com/amaumene/rakuroku/internal/api/middleware"
	"github.com/amaumene/rakuroku/internal/config"
	"github.com/sirupsen/logrus"
)

// loopbackHost is both the bind address and the host of the redirect URL
const loopbackHost = "127.0.0.1"

// Server receives the OAuth redirect on the loopback interface during login
type Server struct {
	server   *http.Server
	port     string
	tokens   chan string
	received atomic.Bool
	logger   *logrus.Logger
}

// NewServer creates a new redirect receiver bound to the loopback interface
func NewServer(cfg *config.Config, session handlers.Authenticator, logger *logrus.Logger) *Server {
	s := &Server{
		port:   cfg.CallbackPort,
		tokens: make(chan string, 1),
		logger: logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux, session)

	s.server = &http.Server{
		Addr:         loopbackHost + ":" + cfg.CallbackPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux, session handlers.Authenticator) {
	healthHandler := handlers.NewHealthHandler(s.waiting, s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	statusHandler := handlers.NewStatusHandler(session, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	callbackHandler := handlers.NewCallbackHandler(s.logger)
	mux.HandleFunc("/callback", callbackHandler.ServeHTTP)

	tokenHandler := handlers.NewTokenHandler(s.deliver, s.logger)
	mux.HandleFunc("/token", tokenHandler.ServeHTTP)
}

// deliver hands a token to the waiting login. Extra tokens are dropped.
func (s *Server) deliver(token string) {
	s.received.Store(true)
	select {
	case s.tokens <- token:
	default:
		s.logger.Debug("Token already received, dropping duplicate")
	}
}

func (s *Server) waiting() bool {
	return !s.received.Load()
}

// Handler returns the server's handler, routes and middleware included
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// RedirectURL is the address to register as the client's redirect URL
func (s *Server) RedirectURL() string {
	return "http://" + loopbackHost + ":" + s.port + "/callback"
}

// Tokens delivers the access token once the browser relays it
func (s *Server) Tokens() <-chan string {
	return s.tokens
}

// Start serves until ctx is cancelled or Shutdown is called
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("addr", s.server.Addr).Debug("Starting redirect receiver")

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("redirect receiver error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Debug("Shutting down redirect receiver")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
