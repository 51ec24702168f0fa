// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/voxpop/models"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeSettled},
		{models.ErrNotFound, OutcomeNotFound},
		{fmt.Errorf("wrapped: %w", models.ErrSurveyClosed), OutcomeClosed},
		{models.ErrBudgetExhausted, OutcomeBudgetExhausted},
		{&models.InvalidOptionError{Reason: "x"}, OutcomeInvalidOption},
		{&models.DuplicateVoteError{QuestionID: "q"}, OutcomeDuplicateVote},
		{models.ErrForbidden, OutcomeForbidden},
		{errors.New("disk on fire"), OutcomeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Outcome(tt.err); got != tt.want {
				t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestObserveSettlement(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSettlement(nil, 10*time.Millisecond)
	m.ObserveSettlement(nil, 10*time.Millisecond)
	m.ObserveSettlement(models.ErrBudgetExhausted, time.Millisecond)
	m.AddPayout(10, 5, 2)

	if got := testutil.ToFloat64(m.settlements.WithLabelValues(OutcomeSettled)); got != 2 {
		t.Errorf("settled = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.settlements.WithLabelValues(OutcomeBudgetExhausted)); got != 1 {
		t.Errorf("budget_exhausted = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.moneyPaid); got != 10 {
		t.Errorf("money = %v, want 10", got)
	}
	if got := testutil.ToFloat64(m.achievements); got != 2 {
		t.Errorf("achievements = %v, want 2", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveSettlement(nil, time.Second)
	m.AddPayout(1, 1, 1)

	called := false
	h := m.Instrument("GET /x", func(w http.ResponseWriter, r *http.Request) { called = true })
	h(httptest.NewRecorder(), httptest.NewRequest("GET", "/x", nil))
	if !called {
		t.Error("handler not called")
	}
}

func TestInstrumentAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	h := m.Instrument("GET /surveys/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.WriteHeader(http.StatusOK) // ignored
	})
	h(httptest.NewRecorder(), httptest.NewRequest("GET", "/surveys/abc", nil))

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET /surveys/{id}", "404")); got != 1 {
		t.Errorf("requests{404} = %v, want 1", got)
	}

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "voxpop_http_requests_total") {
		t.Error("exposition missing voxpop_http_requests_total")
	}
}
