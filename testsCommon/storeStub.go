package testsCommon

import (
	"context"
	"time"

	"github.com/iulianpascalau/hydra-monitoring/common"
)

// StoreStub -
type StoreStub struct {
	InsertMetricHandler  func(ctx context.Context, metric common.Metric) (common.Metric, error)
	InsertAlertsHandler  func(ctx context.Context, alerts []common.Alert) error
	InsertAlertHandler   func(ctx context.Context, alert common.Alert) (common.Alert, error)
	RecentMetricsHandler func(ctx context.Context, host string, limit int) ([]common.Metric, error)
	ActiveAlertsHandler  func(ctx context.Context) ([]common.Alert, error)
	AlertsHandler        func(ctx context.Context, limit int) ([]common.Alert, error)
	GetAlertHandler      func(ctx context.Context, id int64) (common.Alert, error)
	ResolveAlertHandler  func(ctx context.Context, id int64) error
	TrendsHandler        func(ctx context.Context, since time.Time) (common.TrendsReport, error)
	PingHandler          func(ctx context.Context) error
	CloseHandler         func() error
}

// InsertMetric -
func (stub *StoreStub) InsertMetric(ctx context.Context, metric common.Metric) (common.Metric, error) {
	if stub.InsertMetricHandler != nil {
		return stub.InsertMetricHandler(ctx, metric)
	}

	return metric, nil
}

// InsertAlerts -
func (stub *StoreStub) InsertAlerts(ctx context.Context, alerts []common.Alert) error {
	if stub.InsertAlertsHandler != nil {
		return stub.InsertAlertsHandler(ctx, alerts)
	}

	return nil
}

// InsertAlert -
func (stub *StoreStub) InsertAlert(ctx context.Context, alert common.Alert) (common.Alert, error) {
	if stub.InsertAlertHandler != nil {
		return stub.InsertAlertHandler(ctx, alert)
	}

	return alert, nil
}

// RecentMetrics -
func (stub *StoreStub) RecentMetrics(ctx context.Context, host string, limit int) ([]common.Metric, error) {
	if stub.RecentMetricsHandler != nil {
		return stub.RecentMetricsHandler(ctx, host, limit)
	}

	return make([]common.Metric, 0), nil
}

// ActiveAlerts -
func (stub *StoreStub) ActiveAlerts(ctx context.Context) ([]common.Alert, error) {
	if stub.ActiveAlertsHandler != nil {
		return stub.ActiveAlertsHandler(ctx)
	}

	return make([]common.Alert, 0), nil
}

// Alerts -
func (stub *StoreStub) Alerts(ctx context.Context, limit int) ([]common.Alert, error) {
	if stub.AlertsHandler != nil {
		return stub.AlertsHandler(ctx, limit)
	}

	return make([]common.Alert, 0), nil
}

// GetAlert -
func (stub *StoreStub) GetAlert(ctx context.Context, id int64) (common.Alert, error) {
	if stub.GetAlertHandler != nil {
		return stub.GetAlertHandler(ctx, id)
	}

	return common.Alert{}, nil
}

// ResolveAlert -
func (stub *StoreStub) ResolveAlert(ctx context.Context, id int64) error {
	if stub.ResolveAlertHandler != nil {
		return stub.ResolveAlertHandler(ctx, id)
	}

	return nil
}

// Trends -
func (stub *StoreStub) Trends(ctx context.Context, since time.Time) (common.TrendsReport, error) {
	if stub.TrendsHandler != nil {
		return stub.TrendsHandler(ctx, since)
	}

	return common.TrendsReport{}, nil
}

// Ping -
func (stub *StoreStub) Ping(ctx context.Context) error {
	if stub.PingHandler != nil {
		return stub.PingHandler(ctx)
	}

	return nil
}

// Close -
func (stub *StoreStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *StoreStub) IsInterfaceNil() bool {
	return stub == nil
}
