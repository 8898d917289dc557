package process

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iulianpascalau/hydra-monitoring/common"
	"github.com/iulianpascalau/hydra-monitoring/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetric() common.Metric {
	return common.Metric{
		Host:        "host-1",
		CPUUsage:    99.0,
		MemoryUsage: 50.0,
		Latency:     100.0,
		Timestamp:   time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewPipeline(t *testing.T) {
	t.Parallel()

	t.Run("nil storage should error", func(t *testing.T) {
		pipe, err := NewPipeline(nil, &testsCommon.EvaluatorStub{})

		assert.Nil(t, pipe)
		assert.True(t, pipe.IsInterfaceNil())
		assert.Equal(t, ErrNilStorage, err)
	})
	t.Run("nil evaluator should error", func(t *testing.T) {
		pipe, err := NewPipeline(&testsCommon.StoreStub{}, nil)

		assert.Nil(t, pipe)
		assert.Equal(t, ErrNilEvaluator, err)
	})
	t.Run("should work", func(t *testing.T) {
		pipe, err := NewPipeline(&testsCommon.StoreStub{}, &testsCommon.EvaluatorStub{})

		assert.NotNil(t, pipe)
		assert.False(t, pipe.IsInterfaceNil())
		assert.Nil(t, err)
	})
}

func TestPipeline_Ingest(t *testing.T) {
	t.Parallel()

	t.Run("empty host is a contract violation", func(t *testing.T) {
		pipe, _ := NewPipeline(&testsCommon.StoreStub{}, &testsCommon.EvaluatorStub{})

		_, err := pipe.Ingest(context.Background(), common.Metric{})
		assert.Equal(t, ErrEmptyHost, err)
	})
	t.Run("metric persistence failure aborts before evaluation", func(t *testing.T) {
		expectedErr := errors.New("db insert error")
		evaluatorCalled := false
		store := &testsCommon.StoreStub{
			InsertMetricHandler: func(ctx context.Context, metric common.Metric) (common.Metric, error) {
				return common.Metric{}, expectedErr
			},
		}
		evaluator := &testsCommon.EvaluatorStub{
			EvaluateHandler: func(metric common.Metric) []common.AlertCandidate {
				evaluatorCalled = true
				return nil
			},
		}

		pipe, _ := NewPipeline(store, evaluator)
		_, err := pipe.Ingest(context.Background(), testMetric())

		assert.ErrorIs(t, err, expectedErr)
		assert.False(t, evaluatorCalled)
	})
	t.Run("no candidates means no alert writes", func(t *testing.T) {
		alertsWritten := false
		store := &testsCommon.StoreStub{
			InsertMetricHandler: func(ctx context.Context, metric common.Metric) (common.Metric, error) {
				metric.ID = 7
				return metric, nil
			},
			InsertAlertsHandler: func(ctx context.Context, alerts []common.Alert) error {
				alertsWritten = true
				return nil
			},
		}

		pipe, _ := NewPipeline(store, &testsCommon.EvaluatorStub{})
		persisted, err := pipe.Ingest(context.Background(), testMetric())

		require.NoError(t, err)
		assert.Equal(t, int64(7), persisted.ID)
		assert.False(t, alertsWritten)
	})
	t.Run("candidates become active alerts in one batch", func(t *testing.T) {
		var savedAlerts []common.Alert
		store := &testsCommon.StoreStub{
			InsertMetricHandler: func(ctx context.Context, metric common.Metric) (common.Metric, error) {
				metric.ID = 3
				return metric, nil
			},
			InsertAlertsHandler: func(ctx context.Context, alerts []common.Alert) error {
				savedAlerts = alerts
				return nil
			},
		}
		metric := testMetric()
		evaluator := &testsCommon.EvaluatorStub{
			EvaluateHandler: func(m common.Metric) []common.AlertCandidate {
				assert.Equal(t, int64(3), m.ID) // the persisted metric is evaluated
				return []common.AlertCandidate{
					{Host: m.Host, Type: common.AlertTypeCPUHigh, Value: m.CPUUsage, Timestamp: m.Timestamp},
					{Host: m.Host, Type: common.AlertTypeLatencyHigh, Value: m.Latency, Timestamp: m.Timestamp},
				}
			},
		}

		pipe, _ := NewPipeline(store, evaluator)
		persisted, err := pipe.Ingest(context.Background(), metric)

		require.NoError(t, err)
		assert.Equal(t, int64(3), persisted.ID)
		require.Len(t, savedAlerts, 2)
		for _, alert := range savedAlerts {
			assert.Equal(t, common.AlertStatusActive, alert.Status)
			assert.Equal(t, metric.Host, alert.Host)
			assert.Equal(t, metric.Timestamp, alert.Timestamp)
		}
		assert.Equal(t, common.AlertTypeCPUHigh, savedAlerts[0].Type)
		assert.Equal(t, metric.CPUUsage, savedAlerts[0].Value)
	})
	t.Run("alert batch failure surfaces the error, metric stays persisted", func(t *testing.T) {
		expectedErr := errors.New("db batch error")
		store := &testsCommon.StoreStub{
			InsertAlertsHandler: func(ctx context.Context, alerts []common.Alert) error {
				return expectedErr
			},
		}
		evaluator := &testsCommon.EvaluatorStub{
			EvaluateHandler: func(m common.Metric) []common.AlertCandidate {
				return []common.AlertCandidate{
					{Host: m.Host, Type: common.AlertTypeCPUHigh, Value: m.CPUUsage, Timestamp: m.Timestamp},
				}
			},
		}

		pipe, _ := NewPipeline(store, evaluator)
		persisted, err := pipe.Ingest(context.Background(), testMetric())

		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, "host-1", persisted.Host)
	})
}
