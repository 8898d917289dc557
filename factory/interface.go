package factory

import "github.com/iulianpascalau/hydra-monitoring/alerter"

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}

// Generator defines the operation of the background synthetic sample feed
type Generator interface {
	Start()
	Close() error
	IsInterfaceNil() bool
}

// ThresholdsHandler is implemented by the evaluator to accept new cutoffs at runtime
type ThresholdsHandler interface {
	UpdateThresholds(thresholds alerter.Thresholds)
	IsInterfaceNil() bool
}
