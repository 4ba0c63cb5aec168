// SPDX-License-Identifier: MIT

package safelanes_test

import (
	"strings"
	"testing"

	"github.com/naev/naev-sub006/safelanes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordRecalculations(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	s := testSolver(safelanes.WithMetrics(safelanes.NewMetrics(reg)))

	_, err := s.RecalculateUniverse(twoSpobs(t, 10))
	require.NoError(t, err)

	const want = `
# HELP safelanes_lanes Lanes owned per faction after the last recalculation
# TYPE safelanes_lanes gauge
safelanes_lanes{faction="Empire"} 1
# HELP safelanes_recalculations_total Safe-lane recalculations by result
# TYPE safelanes_recalculations_total counter
safelanes_recalculations_total{result="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want),
		"safelanes_lanes", "safelanes_recalculations_total"))

	s.Shutdown()
	_, err = s.RecalculateUniverse(twoSpobs(t, 10))
	require.NoError(t, err)

	const afterShutdown = `
# HELP safelanes_recalculations_total Safe-lane recalculations by result
# TYPE safelanes_recalculations_total counter
safelanes_recalculations_total{result="ok"} 1
safelanes_recalculations_total{result="skipped"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(afterShutdown),
		"safelanes_recalculations_total"))

	n, err := testutil.GatherAndCount(reg, "safelanes_factorization_seconds", "safelanes_rounds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
