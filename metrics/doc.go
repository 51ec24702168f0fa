// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus collectors for settlement and HTTP traffic.

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	mux.Handle("GET /metrics", metrics.Handler(reg))

Settlement metrics:

  - voxpop_settlements_total{outcome}: one per submission, labelled with the
    error class (settled, duplicate_vote, budget_exhausted, ...)
  - voxpop_settlement_duration_seconds
  - voxpop_reward_money_paid_total, voxpop_reward_points_awarded_total
  - voxpop_achievements_granted_total

HTTP metrics are labelled with the route pattern, not the raw path, so survey
ids do not explode cardinality.

A nil *Metrics is a valid no-op, which keeps the settlement engine usable
without a registry.
*/
package metrics
