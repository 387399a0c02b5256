package utils

import (
	"time"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// resultSuccess is the result label of transactions that did not fail.
const resultSuccess = "success"

// Metrics is a decorator that counts transactions and measures their
// processing time, labeled by message path and by the error name of failed
// transactions.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ vestd.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registerer. It panics if the collectors are already registered.
func NewMetrics(reg prometheus.Registerer) Metrics {
	m := Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vestd",
				Name:      "tx_total",
				Help:      "The total number of processed transactions.",
			},
			[]string{"phase", "path", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "vestd",
				Name:      "tx_duration_seconds",
				Help:      "Histogram of transaction processing durations in seconds.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"phase", "path"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m Metrics) Check(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx, next vestd.Checker) (*vestd.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", tx, start, err)
	return res, err
}

func (m Metrics) Deliver(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx, next vestd.Deliverer) (*vestd.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m Metrics) observe(phase string, tx vestd.Tx, start time.Time, err error) {
	path := vestd.GetPath(tx)
	result := resultSuccess
	if err != nil {
		result = errors.Name(err)
	}
	m.requests.WithLabelValues(phase, path, result).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
