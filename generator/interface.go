package generator

import (
	"context"

	"github.com/iulianpascalau/hydra-monitoring/common"
)

// Pipeline defines the ingestion entry point fed by the generator. It is the
// same entry point the HTTP layer uses, so synthetic samples trigger alerts
// exactly like submitted ones.
type Pipeline interface {
	Ingest(ctx context.Context, metric common.Metric) (common.Metric, error)
	IsInterfaceNil() bool
}
