package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSamples(t *testing.T) {
	t.Parallel()

	t.Run("not an array should error", func(t *testing.T) {
		samples, err := parseSamples([]byte(`{"host":"h1"}`))

		assert.Nil(t, samples)
		assert.ErrorIs(t, err, errNotAnArray)
	})
	t.Run("missing host should error", func(t *testing.T) {
		samples, err := parseSamples([]byte(`[{"cpu_usage": 10}]`))

		assert.Nil(t, samples)
		assert.ErrorIs(t, err, errMissingHost)
	})
	t.Run("invalid timestamp should error", func(t *testing.T) {
		samples, err := parseSamples([]byte(`[{"host":"h1","timestamp":"yesterday"}]`))

		assert.Nil(t, samples)
		assert.Error(t, err)
	})
	t.Run("bare array should work", func(t *testing.T) {
		doc := `[
			{"host":"h1","cpu_usage":12.5,"memory_usage":40.0,"latency":110.0,"timestamp":"2025-10-31T12:00:00Z"},
			{"host":"h2","cpu_usage":95.0,"memory_usage":20.0,"latency":300.0}
		]`

		samples, err := parseSamples([]byte(doc))

		require.NoError(t, err)
		require.Len(t, samples, 2)
		assert.Equal(t, "h1", samples[0].Host)
		assert.Equal(t, 12.5, samples[0].CPUUsage)
		assert.Equal(t, 40.0, samples[0].MemoryUsage)
		assert.Equal(t, 110.0, samples[0].Latency)
		assert.Equal(t, time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC), samples[0].Timestamp)
		// a sample without a timestamp gets stamped on parse
		assert.False(t, samples[1].Timestamp.IsZero())
	})
	t.Run("wrapped array should work", func(t *testing.T) {
		doc := `{"samples":[{"host":"h1","cpu_usage":50.0,"memory_usage":50.0,"latency":50.0,"timestamp":"2025-10-31T12:00:00Z"}]}`

		samples, err := parseSamples([]byte(doc))

		require.NoError(t, err)
		require.Len(t, samples, 1)
		assert.Equal(t, "h1", samples[0].Host)
	})
}

func TestSynthesizeSamples(t *testing.T) {
	t.Parallel()

	endingAt := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	hosts := []string{"h1", "h2"}

	samples := synthesizeSamples(hosts, 10, endingAt)

	require.Len(t, samples, 20)
	// oldest first, newest last, spaced one step apart
	assert.Equal(t, endingAt.Add(-9*sampleStep), samples[0].Timestamp)
	assert.Equal(t, endingAt, samples[len(samples)-1].Timestamp)

	for _, sample := range samples {
		assert.Contains(t, hosts, sample.Host)
		assert.GreaterOrEqual(t, sample.CPUUsage, 20.0)
		assert.Less(t, sample.CPUUsage, 90.0)
		assert.GreaterOrEqual(t, sample.MemoryUsage, 25.0)
		assert.Less(t, sample.MemoryUsage, 90.0)
		// latency tracks cpu load
		assert.GreaterOrEqual(t, sample.Latency, sample.CPUUsage*2)
		assert.Less(t, sample.Latency, sample.CPUUsage*2+80)
	}
}

func TestSplitHosts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"h1", "h2"}, splitHosts(" h1, h2 ,"))
	assert.Empty(t, splitHosts(" , "))
}
