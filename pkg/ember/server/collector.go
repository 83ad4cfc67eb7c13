package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yourusername/ember/pkg/ember/http11"
)

const namespace = "ember"

// Collector exports a server's Stats to Prometheus. Values are read from the
// atomics on every scrape, so nothing needs updating in the hot path.
type Collector struct {
	server *Server

	connections *prometheus.Desc
	active      *prometheus.Desc
	queued      *prometheus.Desc
	outcomes    *prometheus.Desc
	acceptErrs  *prometheus.Desc
	workers     *prometheus.Desc
}

// NewCollector creates a Prometheus collector for s.
//
//	prometheus.MustRegister(server.NewCollector(srv))
func NewCollector(s *Server) *Collector {
	return &Collector{
		server: s,
		connections: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "server", "connections_total"),
			"Total number of connections accepted",
			nil, nil,
		),
		active: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "server", "active_connections"),
			"Connections currently held by a worker",
			nil, nil,
		),
		queued: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "server", "queued_connections"),
			"Connections waiting for a worker",
			nil, nil,
		),
		outcomes: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "server", "requests_total"),
			"Finished exchanges by outcome",
			[]string{"outcome"}, nil,
		),
		acceptErrs: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "server", "accept_errors_total"),
			"Accept errors the server recovered from",
			nil, nil,
		),
		workers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "server", "workers"),
			"Configured worker pool size",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.connections
	ch <- c.active
	ch <- c.queued
	ch <- c.outcomes
	ch <- c.acceptErrs
	ch <- c.workers
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.server.Stats()

	ch <- prometheus.MustNewConstMetric(c.connections, prometheus.CounterValue, float64(st.TotalConnections.Load()))
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(st.ActiveConnections.Load()))
	ch <- prometheus.MustNewConstMetric(c.queued, prometheus.GaugeValue, float64(st.QueuedConnections.Load()))
	ch <- prometheus.MustNewConstMetric(c.acceptErrs, prometheus.CounterValue, float64(st.AcceptErrors.Load()))
	ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(c.server.config.Workers))

	outcomes := []struct {
		o http11.Outcome
		v uint64
	}{
		{http11.OutcomeResponded, st.Responded.Load()},
		{http11.OutcomeBadRequest, st.BadRequests.Load()},
		{http11.OutcomeNotFound, st.NotFound.Load()},
		{http11.OutcomeHandlerFailed, st.HandlerFailures.Load()},
		{http11.OutcomeAborted, st.Aborted.Load()},
	}
	for _, oc := range outcomes {
		ch <- prometheus.MustNewConstMetric(c.outcomes, prometheus.CounterValue, float64(oc.v), oc.o.String())
	}
}

var _ prometheus.Collector = (*Collector)(nil)
