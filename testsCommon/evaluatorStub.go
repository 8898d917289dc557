package testsCommon

import (
	"github.com/iulianpascalau/hydra-monitoring/common"
)

// EvaluatorStub -
type EvaluatorStub struct {
	EvaluateHandler func(metric common.Metric) []common.AlertCandidate
}

// Evaluate -
func (stub *EvaluatorStub) Evaluate(metric common.Metric) []common.AlertCandidate {
	if stub.EvaluateHandler != nil {
		return stub.EvaluateHandler(metric)
	}

	return make([]common.AlertCandidate, 0)
}

// IsInterfaceNil -
func (stub *EvaluatorStub) IsInterfaceNil() bool {
	return stub == nil
}
