package alerter

import (
	"errors"
	"sync"

	"github.com/iulianpascalau/hydra-monitoring/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("alerter")

// ErrInvalidThresholds signals that a non-positive cutoff was provided
var ErrInvalidThresholds = errors.New("thresholds must be strictly positive")

// Thresholds holds the cutoffs evaluated against each sample. A reading strictly
// above a cutoff triggers the corresponding alert type.
type Thresholds struct {
	CPUUsage    float64
	MemoryUsage float64
	Latency     float64
}

// evaluator maps one metric sample to the alert conditions it crosses
type evaluator struct {
	mut        sync.RWMutex
	thresholds Thresholds
}

// NewEvaluator creates an evaluator with the provided cutoffs
func NewEvaluator(thresholds Thresholds) (*evaluator, error) {
	if thresholds.CPUUsage <= 0 || thresholds.MemoryUsage <= 0 || thresholds.Latency <= 0 {
		return nil, ErrInvalidThresholds
	}

	return &evaluator{
		thresholds: thresholds,
	}, nil
}

// Evaluate returns one candidate per crossed condition. Conditions are
// independent, a single sample can trigger zero up to all three types. The
// candidate keeps the sample's own timestamp so backfilled data alerts with the
// instant it was observed, not the instant it was evaluated.
func (e *evaluator) Evaluate(metric common.Metric) []common.AlertCandidate {
	e.mut.RLock()
	thresholds := e.thresholds
	e.mut.RUnlock()

	candidates := make([]common.AlertCandidate, 0, 3)
	if metric.CPUUsage > thresholds.CPUUsage {
		candidates = append(candidates, common.AlertCandidate{
			Host:      metric.Host,
			Type:      common.AlertTypeCPUHigh,
			Value:     metric.CPUUsage,
			Timestamp: metric.Timestamp,
		})
	}
	if metric.MemoryUsage > thresholds.MemoryUsage {
		candidates = append(candidates, common.AlertCandidate{
			Host:      metric.Host,
			Type:      common.AlertTypeMemoryHigh,
			Value:     metric.MemoryUsage,
			Timestamp: metric.Timestamp,
		})
	}
	if metric.Latency > thresholds.Latency {
		candidates = append(candidates, common.AlertCandidate{
			Host:      metric.Host,
			Type:      common.AlertTypeLatencyHigh,
			Value:     metric.Latency,
			Timestamp: metric.Timestamp,
		})
	}

	return candidates
}

// UpdateThresholds swaps the cutoffs at runtime, invalid values are discarded
func (e *evaluator) UpdateThresholds(thresholds Thresholds) {
	if thresholds.CPUUsage <= 0 || thresholds.MemoryUsage <= 0 || thresholds.Latency <= 0 {
		log.Warn("discarding invalid thresholds update",
			"cpu", thresholds.CPUUsage, "memory", thresholds.MemoryUsage, "latency", thresholds.Latency)
		return
	}

	e.mut.Lock()
	e.thresholds = thresholds
	e.mut.Unlock()

	log.Info("thresholds updated",
		"cpu", thresholds.CPUUsage, "memory", thresholds.MemoryUsage, "latency", thresholds.Latency)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *evaluator) IsInterfaceNil() bool {
	return e == nil
}
