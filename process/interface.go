package process

import (
	"context"

	"github.com/iulianpascalau/hydra-monitoring/common"
)

// Storage defines the persistence operations required by the ingestion pipeline
type Storage interface {
	// InsertMetric persists one sample and returns it with the assigned identity
	InsertMetric(ctx context.Context, metric common.Metric) (common.Metric, error)

	// InsertAlerts persists the whole batch atomically
	InsertAlerts(ctx context.Context, alerts []common.Alert) error

	IsInterfaceNil() bool
}

// Evaluator maps one metric sample to the alert conditions it crosses
type Evaluator interface {
	// Evaluate is pure and deterministic for a fixed set of thresholds
	Evaluate(metric common.Metric) []common.AlertCandidate

	IsInterfaceNil() bool
}
