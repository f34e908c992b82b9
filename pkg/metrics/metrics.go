// Package metrics exposes counters of the API server and loops in Prometheus format.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "todofab"

type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	cycles        *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec

	generated *prometheus.CounterVec
	goals     *prometheus.CounterVec
	purged    *prometheus.CounterVec
}

// New creates metrics on a dedicated registry, with go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace, Subsystem: "http",
				Name: "requests_total",
				Help: "count of http requests by route and status code.",
			},
			[]string{"method", "route", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace, Subsystem: "http",
				Name:    "request_duration_seconds",
				Help:    "latency of http requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace, Subsystem: "loop",
				Name: "cycles_total",
				Help: "count of loop cycles by loop and result (ok or error).",
			},
			[]string{"loop", "result"},
		),
		cycleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace, Subsystem: "loop",
				Name:    "cycle_duration_seconds",
				Help:    "duration of loop cycles.",
				Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"loop"},
		),
		generated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace, Subsystem: "goal",
				Name: "tasks_generated_total",
				Help: "count of tasks generated for monthly goals.",
			},
			[]string{"trigger"},
		),
		goals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace, Subsystem: "goal",
				Name: "goals_total",
				Help: "count of monthly goals processed by loops, by action (completed, refreshed or failed).",
			},
			[]string{"action"},
		),
		purged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace, Subsystem: "cleanup",
				Name: "purged_total",
				Help: "count of records purged by cleanup, by kind (task or refresh_token).",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.requestDuration,
		m.cycles, m.cycleDuration,
		m.generated, m.goals, m.purged,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves metrics in Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(
		m.registry,
		promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError},
	))
}

// Middleware counts requests. Requests are labeled with the route pattern, not the raw path.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			begin := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = 500
				}
			}
			route := c.Path()
			if route == "" {
				route = "(unknown)"
			}
			meth := c.Request().Method
			m.requests.WithLabelValues(meth, route, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(meth, route).Observe(time.Since(begin).Seconds())
			return err
		}
	}
}

// Recording methods are no-op on nil *Metrics.

// Cycle records a cycle of the loop.
func (m *Metrics) Cycle(loop string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cycles.WithLabelValues(loop, result).Inc()
	m.cycleDuration.WithLabelValues(loop).Observe(d.Seconds())
}

// Generated records tasks generated for goals. trigger is "loop", "create" or "update".
func (m *Metrics) Generated(trigger string, n int64) {
	if m == nil {
		return
	}
	m.generated.WithLabelValues(trigger).Add(float64(n))
}

func (m *Metrics) GoalsCompleted(n int64) {
	if m == nil {
		return
	}
	m.goals.WithLabelValues("completed").Add(float64(n))
}

func (m *Metrics) GoalsRefreshed(n int64) {
	if m == nil {
		return
	}
	m.goals.WithLabelValues("refreshed").Add(float64(n))
}

func (m *Metrics) GoalsFailed(n int64) {
	if m == nil {
		return
	}
	m.goals.WithLabelValues("failed").Add(float64(n))
}

func (m *Metrics) TasksPurged(n int64) {
	if m == nil {
		return
	}
	m.purged.WithLabelValues("task").Add(float64(n))
}

func (m *Metrics) TokensPurged(n int64) {
	if m == nil {
		return
	}
	m.purged.WithLabelValues("refresh_token").Add(float64(n))
}
