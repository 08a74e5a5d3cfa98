// Package metrics exposes checkout activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/application"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "checkout"

// knownResultCodes are the STK result codes reported as their own label value.
// Anything else the provider sends is counted as "other".
var knownResultCodes = map[string]bool{
	"0":    true,
	"1":    true,
	"1001": true,
	"1019": true,
	"1025": true,
	"1032": true,
	"1037": true,
	"2001": true,
	"9999": true,
}

// Collector records controller events. It implements application.Observer.
type Collector struct {
	attemptsStarted   prometheus.Counter
	attemptsAbandoned prometheus.Counter
	inFlight          prometheus.Gauge
	initiationErrors  *prometheus.CounterVec
	polls             *prometheus.CounterVec
	outcomes          *prometheus.CounterVec
	attemptDuration   *prometheus.HistogramVec
}

// New builds the collector and registers it with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		attemptsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_started_total",
			Help:      "Payment attempts started.",
		}),
		attemptsAbandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_abandoned_total",
			Help:      "Payment attempts abandoned before an outcome.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "attempts_in_flight",
			Help:      "Payment attempts awaiting an outcome.",
		}),
		initiationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "initiation_errors_total",
			Help:      "STK push initiations that failed, by error category.",
		}, []string{"category"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_queries_total",
			Help:      "STK push status queries, by result code.",
		}, []string{"result_code"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Payment attempts that reached a terminal outcome.",
		}, []string{"outcome"}),
		attemptDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempt_duration_seconds",
			Help:      "Time from initiation to terminal outcome.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 180, 240, 300},
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.attemptsStarted,
		c.attemptsAbandoned,
		c.inFlight,
		c.initiationErrors,
		c.polls,
		c.outcomes,
		c.attemptDuration,
	)
	return c
}

func (c *Collector) AttemptStarted() {
	c.attemptsStarted.Inc()
	c.inFlight.Inc()
}

func (c *Collector) InitiationFailed(category application.ErrorCategory) {
	c.initiationErrors.WithLabelValues(string(category)).Inc()
}

func (c *Collector) PollCompleted(resultCode string, err error) {
	c.polls.WithLabelValues(resultCodeLabel(resultCode, err)).Inc()
}

func (c *Collector) AttemptFinished(outcome domain.Outcome, elapsed time.Duration) {
	c.inFlight.Dec()
	c.outcomes.WithLabelValues(string(outcome.Kind)).Inc()
	c.attemptDuration.WithLabelValues(string(outcome.Kind)).Observe(elapsed.Seconds())
}

func (c *Collector) AttemptAbandoned() {
	c.inFlight.Dec()
	c.attemptsAbandoned.Inc()
}

func resultCodeLabel(resultCode string, err error) string {
	switch {
	case err != nil:
		return "error"
	case resultCode == "":
		return "none"
	case knownResultCodes[resultCode]:
		return resultCode
	default:
		return "other"
	}
}
