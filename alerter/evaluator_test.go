package alerter

import (
	"testing"
	"time"

	"github.com/iulianpascalau/hydra-monitoring/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultThresholds() Thresholds {
	return Thresholds{
		CPUUsage:    90.0,
		MemoryUsage: 85.0,
		Latency:     250.0,
	}
}

func TestNewEvaluator(t *testing.T) {
	t.Parallel()

	t.Run("invalid thresholds should error", func(t *testing.T) {
		eval, err := NewEvaluator(Thresholds{CPUUsage: 0, MemoryUsage: 85, Latency: 250})

		assert.Nil(t, eval)
		assert.True(t, eval.IsInterfaceNil())
		assert.Equal(t, ErrInvalidThresholds, err)
	})
	t.Run("should work", func(t *testing.T) {
		eval, err := NewEvaluator(defaultThresholds())

		assert.NotNil(t, eval)
		assert.False(t, eval.IsInterfaceNil())
		assert.Nil(t, err)
	})
}

func TestEvaluator_Evaluate(t *testing.T) {
	t.Parallel()

	eval, err := NewEvaluator(defaultThresholds())
	require.NoError(t, err)

	timestamp := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)

	t.Run("no reading over threshold should produce no candidates", func(t *testing.T) {
		metric := common.Metric{Host: "host-1", CPUUsage: 40.0, MemoryUsage: 50.0, Latency: 120.0, Timestamp: timestamp}
		assert.Empty(t, eval.Evaluate(metric))
	})
	t.Run("readings exactly at threshold should not trigger", func(t *testing.T) {
		metric := common.Metric{Host: "host-1", CPUUsage: 90.0, MemoryUsage: 85.0, Latency: 250.0, Timestamp: timestamp}
		assert.Empty(t, eval.Evaluate(metric))
	})
	t.Run("single condition crossed", func(t *testing.T) {
		metric := common.Metric{Host: "host-1", CPUUsage: 95.5, MemoryUsage: 50.0, Latency: 120.0, Timestamp: timestamp}
		candidates := eval.Evaluate(metric)

		require.Len(t, candidates, 1)
		assert.Equal(t, common.AlertTypeCPUHigh, candidates[0].Type)
		assert.Equal(t, 95.5, candidates[0].Value)
		assert.Equal(t, "host-1", candidates[0].Host)
		assert.Equal(t, timestamp, candidates[0].Timestamp)
	})
	t.Run("all three conditions crossed", func(t *testing.T) {
		metric := common.Metric{Host: "host-2", CPUUsage: 99.0, MemoryUsage: 90.0, Latency: 300.0, Timestamp: timestamp}
		candidates := eval.Evaluate(metric)

		require.Len(t, candidates, 3)
		assert.Equal(t, common.AlertTypeCPUHigh, candidates[0].Type)
		assert.Equal(t, 99.0, candidates[0].Value)
		assert.Equal(t, common.AlertTypeMemoryHigh, candidates[1].Type)
		assert.Equal(t, 90.0, candidates[1].Value)
		assert.Equal(t, common.AlertTypeLatencyHigh, candidates[2].Type)
		assert.Equal(t, 300.0, candidates[2].Value)
		for _, candidate := range candidates {
			assert.Equal(t, "host-2", candidate.Host)
			assert.Equal(t, timestamp, candidate.Timestamp)
		}
	})
}

func TestEvaluator_UpdateThresholds(t *testing.T) {
	t.Parallel()

	eval, err := NewEvaluator(defaultThresholds())
	require.NoError(t, err)

	metric := common.Metric{Host: "host-1", CPUUsage: 75.0, MemoryUsage: 10.0, Latency: 10.0, Timestamp: time.Now()}
	require.Empty(t, eval.Evaluate(metric))

	eval.UpdateThresholds(Thresholds{CPUUsage: 70.0, MemoryUsage: 85.0, Latency: 250.0})
	candidates := eval.Evaluate(metric)
	require.Len(t, candidates, 1)
	assert.Equal(t, common.AlertTypeCPUHigh, candidates[0].Type)

	// invalid update is discarded, previous thresholds stay active
	eval.UpdateThresholds(Thresholds{CPUUsage: -1.0, MemoryUsage: 85.0, Latency: 250.0})
	require.Len(t, eval.Evaluate(metric), 1)
}
