package process

import (
	"context"
	"fmt"

	"github.com/iulianpascalau/hydra-monitoring/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("process")

// pipeline orchestrates "store metric -> evaluate -> store triggered alerts" as
// one logical unit. It holds no mutable state, so it is safe to invoke
// concurrently from request handlers and the background generator.
type pipeline struct {
	storage   Storage
	evaluator Evaluator
}

// NewPipeline creates a new ingestion pipeline instance
func NewPipeline(storage Storage, evaluator Evaluator) (*pipeline, error) {
	if check.IfNil(storage) {
		return nil, ErrNilStorage
	}
	if check.IfNil(evaluator) {
		return nil, ErrNilEvaluator
	}

	return &pipeline{
		storage:   storage,
		evaluator: evaluator,
	}, nil
}

// Ingest persists the sample, evaluates it against the thresholds and persists
// every triggered alert with the active status in one atomic batch. A metric
// persistence failure aborts before evaluation; an alert batch failure leaves
// the metric persisted and surfaces the error to the caller.
func (p *pipeline) Ingest(ctx context.Context, metric common.Metric) (common.Metric, error) {
	if len(metric.Host) == 0 {
		return common.Metric{}, ErrEmptyHost
	}

	persisted, err := p.storage.InsertMetric(ctx, metric)
	if err != nil {
		return common.Metric{}, fmt.Errorf("failed to persist metric: %w", err)
	}

	candidates := p.evaluator.Evaluate(persisted)
	if len(candidates) == 0 {
		return persisted, nil
	}

	alerts := make([]common.Alert, 0, len(candidates))
	for _, candidate := range candidates {
		alerts = append(alerts, common.Alert{
			Host:      candidate.Host,
			Type:      candidate.Type,
			Value:     candidate.Value,
			Timestamp: candidate.Timestamp,
			Status:    common.AlertStatusActive,
		})
	}

	err = p.storage.InsertAlerts(ctx, alerts)
	if err != nil {
		return persisted, fmt.Errorf("failed to persist triggered alerts: %w", err)
	}

	log.Debug("sample triggered alerts", "host", persisted.Host, "count", len(alerts))

	return persisted, nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *pipeline) IsInterfaceNil() bool {
	return p == nil
}
