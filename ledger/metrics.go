// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ledgerMetrics struct {
	commits    *prometheus.CounterVec
	rejections *prometheus.CounterVec
	sessions   prometheus.Gauge
}

func newLedgerMetrics(promRegistry prometheus.Registerer) *ledgerMetrics {
	promautoFactory := promauto.With(promRegistry)
	return &ledgerMetrics{
		commits: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quickly_vote_ledger_commits_total",
				Help: "number of committed ledger operations",
			},
			[]string{"op"},
		),
		rejections: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quickly_vote_ledger_rejections_total",
				Help: "number of rejected ledger operations",
			},
			[]string{"op", "kind"},
		),
		sessions: promautoFactory.NewGauge(
			prometheus.GaugeOpts{
				Name: "quickly_vote_ledger_sessions",
				Help: "number of sessions in the ledger",
			},
		),
	}
}

func (m *ledgerMetrics) committed(op string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(op).Inc()
}

func (m *ledgerMetrics) rejected(op string, kind Kind) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "internal"
	}
	m.rejections.WithLabelValues(op, string(kind)).Inc()
}

func (m *ledgerMetrics) setSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}
