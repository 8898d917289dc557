package api

import (
	"context"
	"time"

	"github.com/iulianpascalau/hydra-monitoring/common"
)

// Pipeline defines the ingestion flow invoked on the write path
type Pipeline interface {
	// Ingest persists the sample and every alert it triggers
	Ingest(ctx context.Context, metric common.Metric) (common.Metric, error)

	IsInterfaceNil() bool
}

// Storage defines the query and lifecycle operations served by the read endpoints
type Storage interface {
	// RecentMetrics returns up to limit metrics newest-first, optionally filtered to one host
	RecentMetrics(ctx context.Context, host string, limit int) ([]common.Metric, error)

	// ActiveAlerts returns every alert still in the active state, newest-first
	ActiveAlerts(ctx context.Context) ([]common.Alert, error)

	// Alerts returns up to limit alerts regardless of status, newest-first
	Alerts(ctx context.Context, limit int) ([]common.Alert, error)

	// InsertAlert persists a single alert record created directly at the boundary
	InsertAlert(ctx context.Context, alert common.Alert) (common.Alert, error)

	// ResolveAlert flips the alert status to resolved
	ResolveAlert(ctx context.Context, id int64) error

	// Trends averages the readings recorded since the provided instant
	Trends(ctx context.Context, since time.Time) (common.TrendsReport, error)

	// Ping verifies connectivity without mutating state
	Ping(ctx context.Context) error

	// Close shuts down the database connection
	Close() error

	IsInterfaceNil() bool
}
