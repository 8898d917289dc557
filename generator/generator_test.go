package generator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iulianpascalau/hydra-monitoring/common"
	"github.com/iulianpascalau/hydra-monitoring/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	t.Parallel()

	t.Run("nil pipeline should error", func(t *testing.T) {
		gen, err := NewGenerator(ArgsGenerator{
			Hosts:    []string{"h1"},
			Interval: time.Second,
		})

		assert.Nil(t, gen)
		assert.True(t, gen.IsInterfaceNil())
		assert.Equal(t, ErrNilPipeline, err)
	})
	t.Run("no hosts should error", func(t *testing.T) {
		gen, err := NewGenerator(ArgsGenerator{
			Pipeline: &testsCommon.PipelineStub{},
			Interval: time.Second,
		})

		assert.Nil(t, gen)
		assert.ErrorIs(t, err, ErrInvalidGeneratorArgs)
	})
	t.Run("non-positive interval should error", func(t *testing.T) {
		gen, err := NewGenerator(ArgsGenerator{
			Pipeline: &testsCommon.PipelineStub{},
			Hosts:    []string{"h1"},
		})

		assert.Nil(t, gen)
		assert.ErrorIs(t, err, ErrInvalidGeneratorArgs)
	})
	t.Run("should work", func(t *testing.T) {
		gen, err := NewGenerator(ArgsGenerator{
			Pipeline: &testsCommon.PipelineStub{},
			Hosts:    []string{"h1"},
			Interval: time.Second,
		})

		assert.NotNil(t, gen)
		assert.False(t, gen.IsInterfaceNil())
		assert.Nil(t, err)
	})
}

func TestGenerator_EmitSamples(t *testing.T) {
	t.Parallel()

	var mut sync.Mutex
	ingested := make([]common.Metric, 0)
	pipe := &testsCommon.PipelineStub{
		IngestHandler: func(ctx context.Context, metric common.Metric) (common.Metric, error) {
			mut.Lock()
			ingested = append(ingested, metric)
			mut.Unlock()
			return metric, nil
		},
	}

	gen, err := NewGenerator(ArgsGenerator{
		Pipeline: pipe,
		Hosts:    []string{"dev-host-1", "dev-host-2", "dev-host-3"},
		Interval: time.Second,
	})
	require.NoError(t, err)

	err = gen.emitSamples(context.Background())
	require.NoError(t, err)

	mut.Lock()
	defer mut.Unlock()
	require.Len(t, ingested, 3)
	for i, metric := range ingested {
		assert.NotEmpty(t, metric.Host)
		assert.GreaterOrEqual(t, metric.CPUUsage, 5.0)
		assert.LessOrEqual(t, metric.CPUUsage, 95.0)
		assert.GreaterOrEqual(t, metric.MemoryUsage, 10.0)
		assert.LessOrEqual(t, metric.MemoryUsage, 95.0)
		assert.GreaterOrEqual(t, metric.Latency, 10.0)
		assert.LessOrEqual(t, metric.Latency, 300.0)
		// all hosts sampled at the same instant
		assert.Equal(t, ingested[0].Timestamp, metric.Timestamp)
		assert.Equal(t, gen.hosts[i], metric.Host)
	}
}

func TestGenerator_FailuresDoNotStopTheLoop(t *testing.T) {
	t.Parallel()

	var mut sync.Mutex
	calls := 0
	pipe := &testsCommon.PipelineStub{
		IngestHandler: func(ctx context.Context, metric common.Metric) (common.Metric, error) {
			mut.Lock()
			calls++
			current := calls
			mut.Unlock()
			if current == 1 {
				return common.Metric{}, errors.New("transient store outage")
			}
			return metric, nil
		},
	}

	gen, err := NewGenerator(ArgsGenerator{
		Pipeline:   pipe,
		Hosts:      []string{"h1"},
		Interval:   10 * time.Millisecond,
		MaxBackoff: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	gen.Start()

	require.Eventually(t, func() bool {
		mut.Lock()
		defer mut.Unlock()
		return calls >= 3
	}, 2*time.Second, 10*time.Millisecond)

	err = gen.Close()
	require.NoError(t, err)
}

func TestGenerator_CloseWithoutStart(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(ArgsGenerator{
		Pipeline: &testsCommon.PipelineStub{},
		Hosts:    []string{"h1"},
		Interval: time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, gen.Close())
}
