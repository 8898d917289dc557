package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/iulianpascalau/hydra-monitoring/common"
	"github.com/tidwall/gjson"
)

const sampleStep = 5 * time.Minute

// parseSamples extracts telemetry samples from a JSON document. The document can
// be a bare array or an object wrapping the array under a "samples" key.
func parseSamples(data []byte) ([]common.Metric, error) {
	root := gjson.ParseBytes(data)
	if root.Get("samples").Exists() {
		root = root.Get("samples")
	}
	if !root.IsArray() {
		return nil, errNotAnArray
	}

	samples := make([]common.Metric, 0)
	var parseErr error
	root.ForEach(func(_, item gjson.Result) bool {
		host := item.Get("host")
		if !host.Exists() || len(host.String()) == 0 {
			parseErr = fmt.Errorf("%w at sample %d", errMissingHost, len(samples))
			return false
		}

		timestamp := time.Now().UTC()
		if rawTs := item.Get("timestamp"); rawTs.Exists() {
			parsed, err := time.Parse(time.RFC3339, rawTs.String())
			if err != nil {
				parseErr = fmt.Errorf("invalid timestamp for host %s: %w", host.String(), err)
				return false
			}
			timestamp = parsed
		}

		samples = append(samples, common.Metric{
			Host:        host.String(),
			CPUUsage:    item.Get("cpu_usage").Float(),
			MemoryUsage: item.Get("memory_usage").Float(),
			Latency:     item.Get("latency").Float(),
			Timestamp:   timestamp,
		})

		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return samples, nil
}

// synthesizeSamples builds a history of count samples per host, spaced sampleStep
// apart and ending at the provided instant. Latency loosely follows the cpu load
// so the seeded data produces plausible correlated charts.
func synthesizeSamples(hosts []string, count int, endingAt time.Time) []common.Metric {
	samples := make([]common.Metric, 0, len(hosts)*count)

	for idx := count - 1; idx >= 0; idx-- {
		at := endingAt.Add(-time.Duration(idx) * sampleStep)
		for _, host := range hosts {
			cpu := 20 + rand.Float64()*70
			samples = append(samples, common.Metric{
				Host:        host,
				CPUUsage:    round2(cpu),
				MemoryUsage: round2(25 + rand.Float64()*65),
				Latency:     round2(cpu*2 + rand.Float64()*80),
				Timestamp:   at,
			})
		}
	}

	return samples
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
