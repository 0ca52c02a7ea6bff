// Package server provides the fixture dental application as an importable
// HTTP server, so journeys can run against it from tests without running
// main().
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"
)

// Config holds server configuration options.
type Config struct {
	Addr         string        // Listen address (e.g., ":5173" or ":0" for random port)
	ReadTimeout  time.Duration // HTTP read timeout
	WriteTimeout time.Duration // HTTP write timeout
	DBPath       string        // SQLite database path; ":memory:" for a throwaway store
	Email        string        // Login accepted by the application
	Password     string
	BrokenPages  []string // Paths answered with a bare 500
}

// DefaultConfig returns a configuration suitable for testing.
// Uses ":0" to bind to a random available port.
func DefaultConfig() Config {
	return Config{
		Addr:         ":0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		DBPath:       ":memory:",
		Email:        "test@dental.com",
		Password:     "123456",
	}
}

// Server is the fixture application's HTTP server.
type Server struct {
	httpServer *http.Server
	store      *Store
	listener   net.Listener
	addr       string
	mu         sync.Mutex
	running    bool
}

// NewServer opens the store and creates a server with the given
// configuration. The server is not started until Start() is called.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return nil, errors.New("login email and password are required")
	}

	store, err := OpenStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newApp(cfg, store).routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		httpServer: httpServer,
		store:      store,
	}, nil
}

// Handler returns the application's root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening and serving HTTP requests.
// Returns the actual address the server is listening on (useful when port is 0).
// This method is non-blocking - the server runs in a goroutine.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.addr, nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = ln
	s.addr = ln.Addr().String()
	s.running = true

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Server stopped: %v", err)
		}
	}()

	return s.addr, nil
}

// URL returns a browser-friendly base URL for the running server.
// Returns empty string if server is not running.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addr == "" {
		return ""
	}
	// Listening on all interfaces yields "[::]:port"; browsers need a host.
	_, port, err := net.SplitHostPort(s.addr)
	if err != nil {
		return ""
	}
	return "http://localhost:" + port
}

// Shutdown gracefully shuts down the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.running {
		s.running = false
		err = s.httpServer.Shutdown(ctx)
	}
	if s.store != nil {
		err = errors.Join(err, s.store.Close())
		s.store = nil
	}
	return err
}

// Addr returns the address the server is listening on.
// Returns empty string if server is not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
