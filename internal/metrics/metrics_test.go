package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	// Given: a fresh registry
	reg := prometheus.NewRegistry()

	// When: creating the collectors and counting some events
	m := New(reg)
	m.Frames.Inc()
	m.DetectionMisses.WithLabelValues(StageGrid).Add(2)
	m.Outcomes.WithLabelValues("draw").Inc()

	// Then: the values are exposed through the registry
	assert.InDelta(t, 1, testutil.ToFloat64(m.Frames), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.DetectionMisses.WithLabelValues(StageGrid)), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	// Then: registering twice on the same registry panics
	assert.Panics(t, func() { New(reg) })
}
