package fsm

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every test uses its own machine name, so label sets never overlap and the
// tests can run in parallel against the global collectors.

func TestTransitionMetrics(t *testing.T) {
	t.Parallel()

	m := newTestMachine(t)
	m.Bind('a', stateIdle, nil, To(stateBusy))
	m.BindAny(stateBusy, nil, Stay[testState]())

	rec := &recorder{}

	require.NoError(t, m.Process(rec, 'a'))
	require.NoError(t, m.Process(rec, 'b'))
	require.NoError(t, m.Process(rec, 'c'))

	assert.InDelta(t, 1.0, testutil.ToFloat64(
		transitionsTotal.WithLabelValues(m.Name(), "idle", "busy", "exact")), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(
		transitionsTotal.WithLabelValues(m.Name(), "busy", "busy", "any")), 0)
}

func TestTransitionCountersCached(t *testing.T) {
	t.Parallel()

	m := newTestMachine(t)
	m.BindSet("ab", stateIdle, nil, Stay[testState]())
	m.BindAny(stateIdle, nil, To(stateBusy))
	m.BindAny(stateBusy, nil, To(stateIdle))

	rec := &recorder{}

	for _, symbol := range "ababxyxy" {
		require.NoError(t, m.Process(rec, symbol))
	}

	assert.Len(t, m.counters, 3)
	assert.InDelta(t, 4.0, testutil.ToFloat64(
		transitionsTotal.WithLabelValues(m.Name(), "idle", "idle", "exact")), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(
		transitionsTotal.WithLabelValues(m.Name(), "idle", "busy", "any")), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(
		transitionsTotal.WithLabelValues(m.Name(), "busy", "idle", "any")), 0)
}

func TestUnhandledMetrics(t *testing.T) {
	t.Parallel()

	m := newTestMachine(t)

	require.Error(t, m.Process(&recorder{}, 'x'))
	require.Error(t, m.Process(&recorder{}, 'y'))

	assert.InDelta(t, 2.0, testutil.ToFloat64(
		unhandledTransitionsTotal.WithLabelValues(m.Name(), "idle")), 0)
}

func TestActionErrorMetrics(t *testing.T) {
	t.Parallel()

	m := newTestMachine(t)
	m.BindAny(stateIdle, NewAction("boom", func(_ *recorder, _ Step[testState]) error {
		return errors.New("boom") //nolint:err113
	}), Stay[testState]())

	require.Error(t, m.Process(&recorder{}, 'x'))

	assert.InDelta(t, 1.0, testutil.ToFloat64(
		actionErrorsTotal.WithLabelValues(m.Name(), "idle", "boom")), 0)
}
