// SPDX-License-Identifier: MIT

package safelanes

import (
	"strconv"
	"time"

	"github.com/naev/naev-sub006/universe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recalculation results used as the "result" label.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// Metrics holds the solver's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	recalculations *prometheus.CounterVec
	rounds         prometheus.Histogram
	factorization  prometheus.Histogram
	lanes          *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		recalculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "safelanes_recalculations_total",
			Help: "Safe-lane recalculations by result",
		}, []string{"result"}),
		rounds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "safelanes_rounds",
			Help:    "Greedy activation rounds per recalculation",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		factorization: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "safelanes_factorization_seconds",
			Help:    "Sparse Cholesky factorization time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		}),
		lanes: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "safelanes_lanes",
			Help: "Lanes owned per faction after the last recalculation",
		}, []string{"faction"}),
	}
}

func (m *Metrics) observeResult(result string) {
	if m == nil {
		return
	}
	m.recalculations.WithLabelValues(result).Inc()
}

func (m *Metrics) observeFactorization(d time.Duration) {
	if m == nil {
		return
	}
	m.factorization.Observe(d.Seconds())
}

// observeTable records rounds and replaces the per-faction lane gauges.
// Factions missing from names are labelled by numeric id.
func (m *Metrics) observeTable(t *OwnershipTable, names map[universe.FactionID]string) {
	if m == nil {
		return
	}
	m.rounds.Observe(float64(t.Rounds()))
	m.lanes.Reset()
	for f, n := range t.LaneCounts() {
		label, ok := names[f]
		if !ok || label == "" {
			label = strconv.Itoa(int(f))
		}
		m.lanes.WithLabelValues(label).Set(float64(n))
	}
}
