// Package socket binds the server's listening socket and tunes accepted
// connections. Platform-specific options are in tuning_unix.go and
// tuning_linux.go.
package socket

import (
	"context"
	"net"
	"syscall"
	"time"
)

// Config represents socket tuning configuration.
// Zero values mean "use system defaults".
type Config struct {
	// TCP_NODELAY - Disable Nagle's algorithm so the single response goes out at once
	// Default: true
	NoDelay bool

	// SO_KEEPALIVE - TCP keepalive probes on accepted connections
	// Default: false (every connection carries exactly one exchange)
	KeepAlive bool

	// SO_REUSEADDR - Allow rebinding a port with connections in TIME_WAIT
	// Default: true
	ReuseAddr bool

	// TCP_DEFER_ACCEPT - Don't wake the server until request bytes arrive (Linux only)
	// Value is the timeout; 0 disables it
	// Default: 0
	DeferAccept time.Duration

	// SO_RCVBUF / SO_SNDBUF in bytes
	// Default: 0 (system default)
	RecvBuffer int
	SendBuffer int
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		NoDelay:   true,
		KeepAlive: false,
		ReuseAddr: true,
	}
}

// Listen binds a stream listener on network/addr with cfg applied to the
// listening socket. A nil cfg means DefaultConfig.
func Listen(ctx context.Context, network, addr string, cfg *Config) (net.Listener, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			return controlListener(c, cfg)
		},
	}
	if !cfg.KeepAlive {
		// Negative disables keepalive on accepted connections
		lc.KeepAlive = -1
	}

	return lc.Listen(ctx, network, addr)
}

func controlListener(c syscall.RawConn, cfg *Config) error {
	var optErr error
	err := c.Control(func(fd uintptr) {
		if cfg.ReuseAddr {
			if optErr = setReuseAddr(fd); optErr != nil {
				return
			}
		}
		if cfg.DeferAccept > 0 {
			// Non-critical, older kernels may refuse it
			_ = setDeferAccept(fd, cfg.DeferAccept)
		}
	})
	if err != nil {
		return err
	}
	return optErr
}

// TuneConn applies per-connection options to an accepted connection.
// Connections that are not TCP are left alone.
//
// This should be called immediately after accepting a connection.
func TuneConn(conn net.Conn, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	// TCP_NODELAY is the only option whose failure is reported
	if err := tcpConn.SetNoDelay(cfg.NoDelay); err != nil {
		return err
	}
	if cfg.RecvBuffer > 0 {
		_ = tcpConn.SetReadBuffer(cfg.RecvBuffer)
	}
	if cfg.SendBuffer > 0 {
		_ = tcpConn.SetWriteBuffer(cfg.SendBuffer)
	}
	return nil
}
