// Package metrics defines and registers all custom Prometheus metrics for the
// PQRSD portal. It is the single source of truth for metric names, labels, and
// help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pqrsd"

// LoginsTotal counts login attempts against the auth collaborator.
// Label:
//   - result: "ok", "rejected" (bad credentials) or "unavailable"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// StaleSessionsTotal counts requests that presented a handle no longer backed
// by a live session (logged out, evicted, or expired).
var StaleSessionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_sessions_total",
		Help:      "Total number of requests rejected for presenting a stale session handle.",
	},
)

// TriageDecisionsTotal counts triage decisions persisted to the petition store.
// Label:
//   - decision: "accepted" or "rejected"
var TriageDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "triage_decisions_total",
		Help:      "Total number of triage decisions successfully persisted.",
	},
	[]string{"decision"},
)

// TransitionErrorsTotal counts petition transitions the portal refused.
// Label:
//   - reason: "unauthorized", "invalid_transition", "missing_field"
var TransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_errors_total",
		Help:      "Total number of refused petition transitions, by reason.",
	},
	[]string{"reason"},
)

// RegisterSessionGauge exposes the number of live sessions as a gauge. Call
// once at startup with SessionManager.Count.
func RegisterSessionGauge(count func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Current number of live sessions held by the portal.",
		},
		func() float64 { return float64(count()) },
	)
}
