package testsCommon

import (
	"context"

	"github.com/iulianpascalau/hydra-monitoring/common"
)

// PipelineStub -
type PipelineStub struct {
	IngestHandler func(ctx context.Context, metric common.Metric) (common.Metric, error)
}

// Ingest -
func (stub *PipelineStub) Ingest(ctx context.Context, metric common.Metric) (common.Metric, error) {
	if stub.IngestHandler != nil {
		return stub.IngestHandler(ctx, metric)
	}

	return metric, nil
}

// IsInterfaceNil -
func (stub *PipelineStub) IsInterfaceNil() bool {
	return stub == nil
}
