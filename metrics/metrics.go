// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/voxpop/models"
)

// Settlement outcomes used as the "outcome" label
const (
	OutcomeSettled         = "settled"
	OutcomeNotFound        = "not_found"
	OutcomeClosed          = "closed"
	OutcomeBudgetExhausted = "budget_exhausted"
	OutcomeInvalidOption   = "invalid_option"
	OutcomeDuplicateVote   = "duplicate_vote"
	OutcomeForbidden       = "forbidden"
	OutcomeInternal        = "internal"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	settlements        *prometheus.CounterVec
	settlementDuration prometheus.Histogram
	moneyPaid          prometheus.Counter
	pointsAwarded      prometheus.Counter
	achievements       prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil registry creates unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		settlements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxpop_settlements_total",
			Help: "Vote submissions by outcome",
		}, []string{"outcome"}),
		settlementDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxpop_settlement_duration_seconds",
			Help:    "Time spent settling a vote submission",
			Buckets: prometheus.DefBuckets,
		}),
		moneyPaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxpop_reward_money_paid_total",
			Help: "Reward money credited to wallets",
		}),
		pointsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxpop_reward_points_awarded_total",
			Help: "Reward points added to profiles",
		}),
		achievements: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxpop_achievements_granted_total",
			Help: "Achievements granted during settlement",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxpop_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voxpop_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Outcome classifies a settlement error into an outcome label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSettled
	case errors.Is(err, models.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, models.ErrSurveyClosed):
		return OutcomeClosed
	case errors.Is(err, models.ErrBudgetExhausted):
		return OutcomeBudgetExhausted
	case errors.Is(err, models.ErrInvalidOption):
		return OutcomeInvalidOption
	case errors.Is(err, models.ErrDuplicateVote):
		return OutcomeDuplicateVote
	case errors.Is(err, models.ErrForbidden):
		return OutcomeForbidden
	}
	return OutcomeInternal
}

// ObserveSettlement records one vote submission
func (m *Metrics) ObserveSettlement(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(Outcome(err)).Inc()
	m.settlementDuration.Observe(elapsed.Seconds())
}

// AddPayout records the rewards applied by a settled submission
func (m *Metrics) AddPayout(money, points int64, achievements int) {
	if m == nil {
		return
	}
	m.moneyPaid.Add(float64(money))
	m.pointsAwarded.Add(float64(points))
	m.achievements.Add(float64(achievements))
}

// Instrument wraps a handler with request counting and latency under the route label
func (m *Metrics) Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next(sw, r)

		m.httpRequests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the exposition format for the given gatherer
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
