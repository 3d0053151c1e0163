// Package observability exposes contract call metrics through Prometheus.
package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"apicontract/internal/contract"
	"apicontract/internal/core"
)

// Metrics counts contract calls by method, status and outcome and records
// their latency.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apicontract",
			Name:      "calls_total",
			Help:      "Contract calls by method, status code and outcome.",
		}, []string{"method", "status", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "apicontract",
			Name:      "call_duration_seconds",
			Help:      "Round trip time of contract calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "apicontract",
			Name:      "calls_in_flight",
			Help:      "Contract calls currently waiting for a response.",
		}),
	}

	for _, c := range []prometheus.Collector{m.calls, m.duration, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns contract hooks that feed m.
func (m *Metrics) Hooks() contract.Hooks {
	return contract.Hooks{
		OnRequestStart: func(ctx context.Context, _ contract.CallInfo) context.Context {
			m.inFlight.Inc()
			return ctx
		},
		OnRequestEnd: func(_ context.Context, result contract.CallResult) {
			m.inFlight.Dec()
			status := "none"
			if result.StatusCode != 0 {
				status = strconv.Itoa(result.StatusCode)
			}
			m.calls.WithLabelValues(result.Method, status, Outcome(result.Err)).Inc()
			m.duration.WithLabelValues(result.Method).Observe(result.Duration.Seconds())
		},
	}
}

// Outcome names the result of a call for the outcome label.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	for _, typ := range []core.ErrorType{
		core.ErrorTypeStatusMismatch,
		core.ErrorTypeContentType,
		core.ErrorTypeUnexpectedBody,
		core.ErrorTypeMalformedContract,
		core.ErrorTypeTransport,
		core.ErrorTypeInvalidRequest,
	} {
		if core.IsType(err, typ) {
			return string(typ)
		}
	}
	return "error"
}
