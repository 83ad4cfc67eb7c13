package server

import (
	"sync/atomic"
	"time"

	"github.com/yourusername/ember/pkg/ember/http11"
)

// Stats represents server statistics
type Stats struct {
	// Total number of connections accepted
	TotalConnections atomic.Uint64

	// Connections currently held by a worker
	ActiveConnections atomic.Int64

	// Connections accepted and waiting for a worker
	QueuedConnections atomic.Int64

	// Dispatch outcomes
	Responded       atomic.Uint64
	BadRequests     atomic.Uint64
	NotFound        atomic.Uint64
	HandlerFailures atomic.Uint64
	Aborted         atomic.Uint64

	// Accept errors that did not stop the server
	AcceptErrors atomic.Uint64

	// Server start time
	StartTime time.Time
}

func (s *Stats) record(o http11.Outcome) {
	switch o {
	case http11.OutcomeResponded:
		s.Responded.Add(1)
	case http11.OutcomeBadRequest:
		s.BadRequests.Add(1)
	case http11.OutcomeNotFound:
		s.NotFound.Add(1)
	case http11.OutcomeHandlerFailed:
		s.HandlerFailures.Add(1)
	case http11.OutcomeAborted:
		s.Aborted.Add(1)
	}
}

// TotalRequests returns the number of connections the dispatcher finished.
func (s *Stats) TotalRequests() uint64 {
	return s.Responded.Load() + s.BadRequests.Load() + s.NotFound.Load() +
		s.HandlerFailures.Load() + s.Aborted.Load()
}

// Duration returns the time since the server started
func (s *Stats) Duration() time.Duration {
	return time.Since(s.StartTime)
}

// ConnectionsPerSecond returns the average connections per second
func (s *Stats) ConnectionsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.TotalConnections.Load()) / duration
}
