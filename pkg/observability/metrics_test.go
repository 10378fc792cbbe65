package observability_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/ooor/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.Retrieved(observability.OutcomeReused)
	m.Retrieved(observability.OutcomeReused)
	m.Retrieved(observability.OutcomeCreated)
	m.Registered(nil)
	m.Registered(errors.New("redis down"))
	m.Reset()
	m.SetActive(3)

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 6, count)

	expected := `
# HELP ooor_session_retrievals_total Session retrievals by outcome.
# TYPE ooor_session_retrievals_total counter
ooor_session_retrievals_total{outcome="created"} 1
ooor_session_retrievals_total{outcome="reused"} 2
# HELP ooor_sessions_active Sessions currently held in the in-process registry.
# TYPE ooor_sessions_active gauge
ooor_sessions_active 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"ooor_session_retrievals_total", "ooor_sessions_active"))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.Retrieved(observability.OutcomeStale)
		m.Registered(nil)
		m.Reset()
		m.SetActive(1)
	})
}
