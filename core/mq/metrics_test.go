package mq_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamzdara/Sample-Codes/core/mq"
)

func TestPrometheusMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := mq.NewPrometheusMetrics("fanin", reg)
	require.NoError(t, err)

	composite := mq.NewCompositeQueue(mq.WithMetrics(metrics))
	defer composite.Close()

	a, b := newTrackingQueue("a"), newTrackingQueue("b")
	require.NoError(t, composite.AddChild(a))
	require.NoError(t, composite.AddChild(b))

	obs, err := composite.Subscribe("ping", func(context.Context, mq.Message) error { return nil })
	require.NoError(t, err)
	_, err = composite.Subscribe("pong", func(context.Context, mq.Message) error { return nil })
	require.NoError(t, err)

	composite.RemoveChild(b)
	composite.RemoveChild(b)
	require.True(t, composite.Unsubscribe(obs))
	assert.ErrorIs(t, composite.AddChild(nil), mq.ErrNilQueue)

	expected := `
# HELP fanin_composite_bindings Live child-level subscriptions
# TYPE fanin_composite_bindings gauge
fanin_composite_bindings 1
# HELP fanin_composite_children Attached child queue entries
# TYPE fanin_composite_children gauge
fanin_composite_children 1
# HELP fanin_composite_observers Active composite observers
# TYPE fanin_composite_observers gauge
fanin_composite_observers 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"fanin_composite_bindings", "fanin_composite_children", "fanin_composite_observers"))

	assert.Equal(t, 2.0, counterValue(t, reg, mq.OpAddChild, "true"))
	assert.Equal(t, 1.0, counterValue(t, reg, mq.OpAddChild, "false"))
	assert.Equal(t, 2.0, counterValue(t, reg, mq.OpSubscribe, "true"))
	assert.Equal(t, 1.0, counterValue(t, reg, mq.OpRemoveChild, "true"))
	assert.Equal(t, 1.0, counterValue(t, reg, mq.OpRemoveChild, "false"))
	assert.Equal(t, 1.0, counterValue(t, reg, mq.OpUnsubscribe, "true"))
}

func TestNewPrometheusMetrics_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := mq.NewPrometheusMetrics("fanin", reg)
	require.NoError(t, err)

	_, err = mq.NewPrometheusMetrics("fanin", reg)
	assert.Error(t, err)
}

func counterValue(t *testing.T, reg *prometheus.Registry, operation, success string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "fanin_composite_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["operation"] == operation && labels["success"] == success {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
