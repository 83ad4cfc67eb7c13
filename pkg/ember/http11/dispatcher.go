package http11

import (
	"bufio"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"github.com/yourusername/ember/pkg/ember/logger"
)

// Outcome is how the Dispatcher finished with a connection.
type Outcome int

const (
	// OutcomeResponded means a handler ran and its response was flushed
	OutcomeResponded Outcome = iota

	// OutcomeBadRequest means parsing failed and the fixed 400 was sent
	OutcomeBadRequest

	// OutcomeNotFound means no route matched and the fixed 404 was sent
	OutcomeNotFound

	// OutcomeHandlerFailed means the handler returned an error or panicked
	OutcomeHandlerFailed

	// OutcomeAborted means the response could not be written to the peer
	OutcomeAborted
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeResponded:
		return "responded"
	case OutcomeBadRequest:
		return "bad_request"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeHandlerFailed:
		return "handler_failed"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// DispatchConfig holds configuration for a Dispatcher
type DispatchConfig struct {
	// Limit is the size of the single read holding request line and headers
	// Default: 4096 bytes
	Limit int

	// MaxBodyBytes caps Content-Length; negative disables the cap
	// Default: 10 MB
	MaxBodyBytes int64

	// ReadTimeout bounds the whole read phase (headers and body)
	// 0 means no deadline
	// Default: 0
	ReadTimeout time.Duration

	// WriteBufferSize is the size of the buffered ResponseSink
	// Default: 4096 bytes
	WriteBufferSize int

	// Logger receives per-connection diagnostics
	// Default: logger.Nop
	Logger logger.Logger
}

// DefaultDispatchConfig returns the default dispatch configuration
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		Limit:           DefaultLimit,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ReadTimeout:     0,
		WriteBufferSize: DefaultWriteBufferSize,
		Logger:          logger.Nop{},
	}
}

// Dispatcher runs the one-shot exchange on a connection: read, parse, route,
// invoke, close.
//
// Design:
// - Exactly one request per connection; no keep-alive, no pipelining
// - Parse failure answers the fixed 400, a missing route the fixed 404
// - The handler owns the whole response; nothing is added around it
// - The connection is closed on every path, including handler panics
//
// A Dispatcher holds no per-connection state and is safe for concurrent use.
type Dispatcher struct {
	routes          Resolver
	parser          Parser
	readTimeout     time.Duration
	writeBufferSize int
	log             logger.Logger
}

// NewDispatcher creates a Dispatcher resolving handlers through routes.
// Zero config fields take their defaults.
func NewDispatcher(routes Resolver, config DispatchConfig) *Dispatcher {
	if config.WriteBufferSize <= 0 {
		config.WriteBufferSize = DefaultWriteBufferSize
	}
	if config.Logger == nil {
		config.Logger = logger.Nop{}
	}

	return &Dispatcher{
		routes:          routes,
		parser:          Parser{Limit: config.Limit, MaxBodyBytes: config.MaxBodyBytes},
		readTimeout:     config.ReadTimeout,
		writeBufferSize: config.WriteBufferSize,
		log:             config.Logger,
	}
}

// Serve handles the single request on conn and closes it.
func (d *Dispatcher) Serve(conn net.Conn) Outcome {
	defer conn.Close()

	remote := remoteAddr(conn)

	if d.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(d.readTimeout)); err != nil {
			d.log.Warn("set read deadline failed", "remote", remote, "error", err)
		}
	}

	bw := GetBufioWriter(conn, d.writeBufferSize)
	defer PutBufioWriter(bw)

	req, err := d.parser.Parse(conn)
	if err != nil {
		d.log.Debug("malformed request", "remote", remote, "error", err)
		return d.respondFixed(bw, responseBadRequest, OutcomeBadRequest)
	}
	req.RemoteAddr = remote

	var h Handler
	var ok bool
	if d.routes != nil {
		h, ok = d.routes.Lookup(req.Method(), req.line.RoutePath())
	}
	if !ok {
		d.log.Debug("no route", "remote", remote, "error", fmt.Errorf("%w: %s %s", ErrNoRoute, req.Method(), req.Path()))
		return d.respondFixed(bw, responseNotFound, OutcomeNotFound)
	}

	return d.invoke(h, req, bw)
}

func (d *Dispatcher) respondFixed(bw *bufio.Writer, response []byte, outcome Outcome) Outcome {
	if _, err := bw.Write(response); err != nil {
		return OutcomeAborted
	}
	if err := bw.Flush(); err != nil {
		return OutcomeAborted
	}
	return outcome
}

// invoke calls h exactly once. A panic is contained here: it is logged with
// its stack and, if the handler had not written anything, answered with 500.
func (d *Dispatcher) invoke(h Handler, req *Request, bw *bufio.Writer) (outcome Outcome) {
	sink := &countingSink{w: bw}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrHandlerPanic, r)
			d.log.Error("handler panic",
				"remote", req.RemoteAddr,
				"request", req.line.String(),
				"error", err,
				"stack", string(debug.Stack()),
			)
			if sink.n == 0 {
				bw.Write(responseInternalError)
			}
			bw.Flush()
			outcome = OutcomeHandlerFailed
		}
	}()

	err := h.ServeRaw(req, sink)
	flushErr := bw.Flush()

	if err != nil {
		d.log.Error("handler failed", "remote", req.RemoteAddr, "request", req.line.String(), "error", err)
		return OutcomeHandlerFailed
	}
	if flushErr != nil {
		d.log.Debug("response flush failed", "remote", req.RemoteAddr, "error", flushErr)
		return OutcomeAborted
	}
	return OutcomeResponded
}

// countingSink tracks how many bytes a handler has written.
type countingSink struct {
	w *bufio.Writer
	n int64
}

func (s *countingSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.n += int64(n)
	return n, err
}

func (s *countingSink) Flush() error {
	return s.w.Flush()
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
