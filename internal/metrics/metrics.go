// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExpensesRecorded counts successful expense mutations by kind
	// (add, edit, delete).
	ExpensesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billsplitter_expense_mutations_total",
		Help: "Successful expense mutations applied to group ledgers.",
	}, []string{"kind"})

	// SettlementsRecorded counts successful settlements.
	SettlementsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billsplitter_settlements_total",
		Help: "Settlements recorded between group members.",
	})

	// LockTimeouts counts mutations rejected because the group's exclusive
	// section could not be acquired in time.
	LockTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billsplitter_group_lock_timeouts_total",
		Help: "Group mutations rejected with a busy error.",
	})

	// PartialFailures counts settlements whose ledger update and audit
	// append diverged.
	PartialFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billsplitter_settlement_partial_failures_total",
		Help: "Settlements where the ledger update and log append diverged.",
	})

	// RequestDuration observes HTTP request latency by route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billsplitter_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "status"})
)
