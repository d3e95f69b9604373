package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tenantgate"

// Collector holds the engine's Prometheus instruments.
type Collector struct {
	gatherer prometheus.Gatherer

	decisions        *prometheus.CounterVec
	decisionDuration *prometheus.HistogramVec
	quotaRefusals    *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	reconciled       prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers the instruments on reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Collector{
		gatherer: reg,
		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access",
			Name:      "decisions_total",
			Help:      "Access decisions by application, outcome and reason.",
		}, []string{"application", "allowed", "reason"}),
		decisionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "access",
			Name:      "decision_duration_seconds",
			Help:      "Time spent producing an access decision.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		quotaRefusals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quota",
			Name:      "refusals_total",
			Help:      "Creations refused because a plan limit was reached.",
		}, []string{"application", "resource"}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "transitions_total",
			Help:      "Subscription lifecycle changes by application and resulting status.",
		}, []string{"application", "status"}),
		reconciled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "reconciled_total",
			Help:      "Subscriptions persisted as expired by reconciliation.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled by the API.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration observed at the API layer.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
	}
}

// RecordDecision counts one access decision. An empty reason is recorded as "none".
func (c *Collector) RecordDecision(application string, allowed bool, reason string, elapsed time.Duration, operation string) {
	if c == nil {
		return
	}
	if reason == "" {
		reason = "none"
	}
	if application == "" {
		application = "unknown"
	}
	c.decisions.WithLabelValues(application, strconv.FormatBool(allowed), reason).Inc()
	c.decisionDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (c *Collector) RecordQuotaRefusal(application, resource string) {
	if c == nil {
		return
	}
	c.quotaRefusals.WithLabelValues(application, resource).Inc()
}

func (c *Collector) RecordTransition(application, status string) {
	if c == nil {
		return
	}
	c.transitions.WithLabelValues(application, status).Inc()
}

func (c *Collector) RecordReconciled(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.reconciled.Add(float64(n))
}

// RecordHTTPRequest counts a handled request. route should be the route pattern, not the raw path.
func (c *Collector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
