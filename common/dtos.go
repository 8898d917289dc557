package common

import "time"

// AlertStatus is the lifecycle state of an alert record
type AlertStatus string

const (
	// AlertStatusActive marks an alert that was triggered and not yet resolved
	AlertStatusActive AlertStatus = "active"
	// AlertStatusResolved marks an alert that was closed by an operator
	AlertStatusResolved AlertStatus = "resolved"
)

// IsValid returns true if the status belongs to the known domain
func (status AlertStatus) IsValid() bool {
	return status == AlertStatusActive || status == AlertStatusResolved
}

// condition names emitted by the evaluator
const (
	AlertTypeCPUHigh     = "cpu_high"
	AlertTypeMemoryHigh  = "memory_high"
	AlertTypeLatencyHigh = "latency_high"
)

// Metric is one telemetry observation at one instant for one host. The timestamp
// is caller-supplied so backfilled or replayed samples keep their original instant.
type Metric struct {
	ID          int64     `json:"id"`
	Host        string    `json:"host"`
	CPUUsage    float64   `json:"cpu_usage"`
	MemoryUsage float64   `json:"memory_usage"`
	Latency     float64   `json:"latency"`
	Timestamp   time.Time `json:"timestamp"`
}

// Alert records that a specific metric condition was observed. Host, value and
// timestamp are copies of the triggering metric's fields, there is no foreign key.
type Alert struct {
	ID        int64       `json:"id"`
	Host      string      `json:"host"`
	Type      string      `json:"type"`
	Value     float64     `json:"value"`
	Timestamp time.Time   `json:"timestamp"`
	Status    AlertStatus `json:"status"`
}

// AlertCandidate is one triggered condition produced by the evaluator, not yet persisted
type AlertCandidate struct {
	Host      string
	Type      string
	Value     float64
	Timestamp time.Time
}

// TrendsReport holds averaged readings over a recent window
type TrendsReport struct {
	CPUAvg     float64 `json:"cpu_avg"`
	MemoryAvg  float64 `json:"memory_avg"`
	LatencyAvg float64 `json:"latency_avg"`
	Samples    int64   `json:"samples"`
}
