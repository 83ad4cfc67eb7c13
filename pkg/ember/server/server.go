// Package server runs the one-shot HTTP/1.1 listener: it binds a port, accepts
// connections forever and hands each one to a bounded pool of workers running
// the http11 Dispatcher.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/yourusername/ember/pkg/ember/http11"
	"github.com/yourusername/ember/pkg/ember/logger"
	"github.com/yourusername/ember/pkg/ember/router"
	"github.com/yourusername/ember/pkg/ember/socket"
)

// Server errors
var (
	// ErrServerStarted indicates a route was added or Serve called again
	// after serving began
	ErrServerStarted = errors.New("server: already serving")

	// ErrServerClosed is returned by Serve and ListenAndServe after Close
	ErrServerClosed = errors.New("server: closed")

	// ErrNilHandler indicates AddHandler was given a nil handler
	ErrNilHandler = errors.New("server: nil handler")
)

// Config holds server configuration
type Config struct {
	// Addr is the TCP address to listen on (e.g., ":9999")
	// Default: ":9999"
	Addr string

	// Workers is the number of connections served concurrently; further
	// accepted connections wait in FIFO order
	// Default: 64
	Workers int

	// ReadLimit is the size of the single read holding request line and headers
	// Default: 4096 bytes
	ReadLimit int

	// MaxBodyBytes caps Content-Length; negative disables the cap
	// Default: 10 MB
	MaxBodyBytes int64

	// ReadTimeout bounds reading one request
	// 0 means no deadline
	// Default: 0
	ReadTimeout time.Duration

	// WriteBufferSize is the size of the buffered response sink
	// Default: 4096 bytes
	WriteBufferSize int

	// Socket tunes the listener and accepted connections
	// Default: socket.DefaultConfig()
	Socket *socket.Config

	// Logger receives server and connection diagnostics
	// Default: logger.Default()
	Logger logger.Logger
}

// DefaultConfig returns the default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:            ":9999",
		Workers:         64,
		ReadLimit:       http11.DefaultLimit,
		MaxBodyBytes:    http11.DefaultMaxBodyBytes,
		ReadTimeout:     0,
		WriteBufferSize: http11.DefaultWriteBufferSize,
		Socket:          socket.DefaultConfig(),
		Logger:          logger.Default(),
	}
}

// Server is a one-shot HTTP/1.1 server.
//
// Design:
// - Routes are registered before serving and frozen when Serve starts
// - The accept loop never blocks on workers; each connection waits for a
//   worker slot in its own goroutine
// - Worker slots are granted in arrival order (semaphore.Weighted is FIFO)
// - Every accepted connection is closed exactly once by its worker
type Server struct {
	config Config
	log    logger.Logger

	mu         sync.Mutex
	builder    *router.Builder
	table      *router.Table
	dispatcher *http11.Dispatcher
	listener   net.Listener

	started  atomic.Bool
	shutdown atomic.Bool
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	workers *semaphore.Weighted

	conns   map[net.Conn]struct{}
	connsMu sync.Mutex

	stats Stats
}

// New creates a server. Zero config fields take their defaults.
func New(config Config) *Server {
	// Apply defaults
	if config.Addr == "" {
		config.Addr = ":9999"
	}
	if config.Workers <= 0 {
		config.Workers = 64
	}
	if config.ReadLimit <= 0 {
		config.ReadLimit = http11.DefaultLimit
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = http11.DefaultMaxBodyBytes
	}
	if config.WriteBufferSize <= 0 {
		config.WriteBufferSize = http11.DefaultWriteBufferSize
	}
	if config.Socket == nil {
		config.Socket = socket.DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = logger.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:  config,
		log:     config.Logger,
		builder: router.NewBuilder(),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		workers: semaphore.NewWeighted(int64(config.Workers)),
		conns:   make(map[net.Conn]struct{}),
	}
	s.stats.StartTime = time.Now()
	return s
}

// AddHandler registers h for an exact method and path. It fails once the
// server has started serving. Re-registering a pair replaces the handler.
func (s *Server) AddHandler(method, path string, h http11.Handler) error {
	if h == nil {
		return fmt.Errorf("%w for %s %s", ErrNilHandler, method, path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.Load() {
		return ErrServerStarted
	}
	s.builder.AddHandler(method, path, h)
	return nil
}

// AddHandlerFunc is AddHandler for a plain function.
func (s *Server) AddHandlerFunc(method, path string, f func(*http11.Request, http11.ResponseSink) error) error {
	if f == nil {
		return fmt.Errorf("%w for %s %s", ErrNilHandler, method, path)
	}
	return s.AddHandler(method, path, http11.HandlerFunc(f))
}

// Listen binds every interface on port and serves until Close.
// A bind failure is returned immediately.
func (s *Server) Listen(port int) error {
	s.mu.Lock()
	s.config.Addr = ":" + strconv.Itoa(port)
	s.mu.Unlock()
	return s.ListenAndServe()
}

// ListenAndServe binds config.Addr and serves until Close.
func (s *Server) ListenAndServe() error {
	if s.shutdown.Load() {
		return ErrServerClosed
	}

	s.mu.Lock()
	addr := s.config.Addr
	s.mu.Unlock()

	ln, err := socket.Listen(s.ctx, "tcp", addr, s.config.Socket)
	if err != nil {
		s.log.Error("bind failed", "addr", addr, "error", err)
		return fmt.Errorf("server: bind %s: %w", addr, err)
	}
	return s.Serve(context.Background(), ln)
}

// Serve accepts connections on ln until ctx is done, Close is called or the
// listener fails. The route table is frozen when Serve starts.
//
// It always returns a non-nil error: ErrServerClosed after a normal stop.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.shutdown.Load() {
		ln.Close()
		return ErrServerClosed
	}

	s.mu.Lock()
	if s.started.Load() {
		s.mu.Unlock()
		return ErrServerStarted
	}
	s.started.Store(true)
	s.table = s.builder.Build()
	s.dispatcher = http11.NewDispatcher(s.table, http11.DispatchConfig{
		Limit:           s.config.ReadLimit,
		MaxBodyBytes:    s.config.MaxBodyBytes,
		ReadTimeout:     s.config.ReadTimeout,
		WriteBufferSize: s.config.WriteBufferSize,
		Logger:          s.log,
	})
	s.listener = ln
	s.mu.Unlock()

	// Close may have raced with the setup above
	if s.shutdown.Load() {
		ln.Close()
		return ErrServerClosed
	}

	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	s.log.Info("listening",
		"addr", ln.Addr().String(),
		"workers", s.config.Workers,
		"routes", s.table.Len(),
	)

	var tempDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.shutdown.Load() || errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}

			s.stats.AcceptErrors.Add(1)

			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if tempDelay > time.Second {
					tempDelay = time.Second
				}
				s.log.Warn("accept failed, retrying", "error", err, "delay", tempDelay)

				select {
				case <-time.After(tempDelay):
					continue
				case <-s.done:
					return ErrServerClosed
				}
			}

			s.log.Error("accept failed", "error", err)
			// Release the listener and the ctx watcher. Connections already
			// held by a worker still finish
			s.stop()
			return fmt.Errorf("server: accept: %w", err)
		}
		tempDelay = 0

		if err := socket.TuneConn(conn, s.config.Socket); err != nil {
			s.log.Debug("socket tuning failed", "remote", conn.RemoteAddr().String(), "error", err)
		}

		s.handle(conn)
	}
}

// handle queues conn for a worker. It never blocks the accept loop.
// A connection accepted while the server is stopping is closed unserved.
func (s *Server) handle(conn net.Conn) {
	s.mu.Lock()
	if s.shutdown.Load() {
		s.mu.Unlock()
		conn.Close()
		return
	}
	// stop takes s.mu after setting shutdown, so this Add happens before
	// any Wait in Close or Shutdown
	s.wg.Add(1)
	s.mu.Unlock()

	s.stats.TotalConnections.Add(1)
	s.stats.QueuedConnections.Add(1)
	s.trackConnection(conn)

	go func() {
		defer s.wg.Done()
		defer s.untrackConnection(conn)

		if err := s.workers.Acquire(s.ctx, 1); err != nil {
			// Shutting down before a worker freed up
			s.stats.QueuedConnections.Add(-1)
			conn.Close()
			return
		}
		s.stats.QueuedConnections.Add(-1)
		s.stats.ActiveConnections.Add(1)
		defer func() {
			s.stats.ActiveConnections.Add(-1)
			s.workers.Release(1)
		}()

		s.stats.record(s.dispatcher.Serve(conn))
	}()
}

// Addr returns the bound listener address, nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Routes returns the registered routes.
func (s *Server) Routes() []router.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table != nil {
		return s.table.Routes()
	}
	return s.builder.Build().Routes()
}

// Stats returns server statistics
func (s *Server) Stats() *Stats {
	return &s.stats
}

// trackConnection adds a connection to tracking
func (s *Server) trackConnection(conn net.Conn) {
	s.connsMu.Lock()
	s.conns[conn] = struct{}{}
	s.connsMu.Unlock()
}

// untrackConnection removes a connection from tracking
func (s *Server) untrackConnection(conn net.Conn) {
	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()
}

// closeAllConnections closes all tracked connections
func (s *Server) closeAllConnections() {
	s.connsMu.Lock()
	conns := make([]net.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.connsMu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

func (s *Server) stop() bool {
	if !s.shutdown.CompareAndSwap(false, true) {
		return false
	}

	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	close(s.done)
	// Queued connections give up their wait
	s.cancel()
	return true
}

// Shutdown stops accepting, lets in-flight connections finish and waits for
// them or for ctx. Connections still waiting for a worker are closed unserved.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		s.closeAllConnections()
		return ctx.Err()
	}
}

// Close immediately closes the listener and all connections and waits for
// their workers to return. It is safe to call more than once.
func (s *Server) Close() error {
	stopped := s.stop()
	s.closeAllConnections()
	s.wg.Wait()
	if stopped {
		s.log.Info("server closed")
	}
	return nil
}
