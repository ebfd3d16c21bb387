package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"redikv/internal/redikv"

	"github.com/hashicorp/go-hclog"
)

const (
	DefaultReadBufferSize = 1024
	DefaultIdleTimeout    = 300 * time.Second
)

// Server accepts TCP clients and serves each one from its own goroutine.
type Server struct {
	executor       *redikv.Executor
	logger         hclog.Logger
	metrics        *redikv.Metrics
	idleTimeout    time.Duration
	readBufferSize int
	closeOnError   bool

	mu          sync.Mutex
	listener    net.Listener
	connections map[net.Conn]struct{}
	closing     bool
	workers     sync.WaitGroup
}

// Option is a functional server option.
type Option func(*Server)

func WithLogger(logger hclog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithMetrics(metrics *redikv.Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}

// Zero disables the read deadline
func WithIdleTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = timeout
	}
}

func WithReadBufferSize(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.readBufferSize = size
		}
	}
}

// When false, a client may keep issuing commands after a wrong-arity,
// unknown-command or syntax error. Protocol errors always close.
func WithCloseOnError(closeOnError bool) Option {
	return func(s *Server) {
		s.closeOnError = closeOnError
	}
}

// New builds a server around a store shared by every connection.
func New(store redikv.KeyValueStore, opts ...Option) *Server {
	s := &Server{
		logger:         hclog.NewNullLogger(),
		idleTimeout:    DefaultIdleTimeout,
		readBufferSize: DefaultReadBufferSize,
		closeOnError:   true,
		connections:    make(map[net.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.executor = redikv.NewExecutor(store, s.metrics)
	return s
}

// ListenAndServe binds addr and serves until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown. It returns nil after a
// clean shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosing() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("couldn't accept client", "error", err)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return nil
		}
		go s.handleConnection(conn)
	}
}

// Addr returns the listening address, nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting, closes open connections and waits for their
// workers to exit or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	if s.listener != nil {
		s.listener.Close()
	}
	for conn := range s.connections {
		conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("server stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing {
		return false
	}
	s.connections[conn] = struct{}{}
	s.workers.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.connections, conn)
	s.mu.Unlock()
	s.workers.Done()
}
