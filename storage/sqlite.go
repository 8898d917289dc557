package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iulianpascalau/hydra-monitoring/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("storage")

// ErrAlertNotFound signals that no alert exists with the requested identity
var ErrAlertNotFound = errors.New("alert not found")

// sqliteStorage is the sqlite implementation for the metric and alert stores
type sqliteStorage struct {
	db               *sql.DB
	retentionSeconds int
	cancelFunc       context.CancelFunc
	wg               sync.WaitGroup
}

// NewSQLiteStorage creates the database, schema, and optionally starts the
// retention cleaner (retentionSeconds == 0 keeps every metric forever)
func NewSQLiteStorage(dbPath string, retentionSeconds int) (*sqliteStorage, error) {
	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single pooled connection keeps concurrent writers serialized at the
	// driver level and makes :memory: databases visible to every caller
	db.SetMaxOpenConns(1)

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &sqliteStorage{
		db:               db,
		retentionSeconds: retentionSeconds,
		cancelFunc:       cancel,
	}

	if retentionSeconds > 0 {
		s.startRetentionCleaner(ctx)
	}

	return s, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS metrics (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		host         TEXT    NOT NULL,
		cpu_usage    REAL    NOT NULL,
		memory_usage REAL    NOT NULL,
		latency      REAL    NOT NULL,
		timestamp    INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		host      TEXT    NOT NULL,
		type      TEXT    NOT NULL,
		value     REAL    NOT NULL,
		timestamp INTEGER NOT NULL,
		status    TEXT    NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_metrics_host ON metrics(host);
	CREATE INDEX IF NOT EXISTS idx_metrics_timestamp ON metrics(timestamp);
	CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
	CREATE INDEX IF NOT EXISTS idx_alerts_timestamp ON alerts(timestamp);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// InsertMetric persists one sample and returns it with the assigned identity.
// Timestamps are stored as Unix milliseconds, exactly as supplied by the caller.
func (s *sqliteStorage) InsertMetric(ctx context.Context, metric common.Metric) (common.Metric, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO metrics (host, cpu_usage, memory_usage, latency, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, metric.Host, metric.CPUUsage, metric.MemoryUsage, metric.Latency, metric.Timestamp.UnixMilli())
	if err != nil {
		return common.Metric{}, fmt.Errorf("failed to insert metric: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return common.Metric{}, err
	}

	metric.ID = id
	return metric, nil
}

// InsertAlerts persists the whole batch inside a single transaction: either all
// triggered alerts for a metric land, or none do
func (s *sqliteStorage) InsertAlerts(ctx context.Context, alerts []common.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, alert := range alerts {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO alerts (host, type, value, timestamp, status)
			VALUES (?, ?, ?, ?, ?)
		`, alert.Host, alert.Type, alert.Value, alert.Timestamp.UnixMilli(), string(alert.Status))
		if err != nil {
			return fmt.Errorf("failed to insert alert: %w", err)
		}
	}

	return tx.Commit()
}

// InsertAlert persists a single alert record and returns it with the assigned identity
func (s *sqliteStorage) InsertAlert(ctx context.Context, alert common.Alert) (common.Alert, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (host, type, value, timestamp, status)
		VALUES (?, ?, ?, ?, ?)
	`, alert.Host, alert.Type, alert.Value, alert.Timestamp.UnixMilli(), string(alert.Status))
	if err != nil {
		return common.Alert{}, fmt.Errorf("failed to insert alert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return common.Alert{}, err
	}

	alert.ID = id
	return alert, nil
}

// RecentMetrics returns up to limit metrics ordered newest-first, optionally
// filtered to one host (empty host means all hosts)
func (s *sqliteStorage) RecentMetrics(ctx context.Context, host string, limit int) ([]common.Metric, error) {
	query := `
		SELECT id, host, cpu_usage, memory_usage, latency, timestamp
		FROM metrics
	`
	args := make([]interface{}, 0, 2)
	if len(host) > 0 {
		query += " WHERE host = ?"
		args = append(args, host)
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.Metric, 0, limit)
	for rows.Next() {
		var m common.Metric
		var ts int64

		err = rows.Scan(&m.ID, &m.Host, &m.CPUUsage, &m.MemoryUsage, &m.Latency, &ts)
		if err != nil {
			return nil, err
		}

		m.Timestamp = time.UnixMilli(ts).UTC()
		results = append(results, m)
	}

	return results, rows.Err()
}

// ActiveAlerts returns every alert still in the active state, newest-first.
// The result is deliberately unbounded.
func (s *sqliteStorage) ActiveAlerts(ctx context.Context) ([]common.Alert, error) {
	return s.queryAlerts(ctx, `
		SELECT id, host, type, value, timestamp, status
		FROM alerts
		WHERE status = ?
		ORDER BY timestamp DESC, id DESC
	`, string(common.AlertStatusActive))
}

// Alerts returns up to limit alerts regardless of status, newest-first
func (s *sqliteStorage) Alerts(ctx context.Context, limit int) ([]common.Alert, error) {
	return s.queryAlerts(ctx, `
		SELECT id, host, type, value, timestamp, status
		FROM alerts
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
}

func (s *sqliteStorage) queryAlerts(ctx context.Context, query string, args ...interface{}) ([]common.Alert, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.Alert, 0)
	for rows.Next() {
		var a common.Alert
		var ts int64
		var status string

		err = rows.Scan(&a.ID, &a.Host, &a.Type, &a.Value, &ts, &status)
		if err != nil {
			return nil, err
		}

		a.Timestamp = time.UnixMilli(ts).UTC()
		a.Status = common.AlertStatus(status)
		results = append(results, a)
	}

	return results, rows.Err()
}

// GetAlert loads one alert by identity
func (s *sqliteStorage) GetAlert(ctx context.Context, id int64) (common.Alert, error) {
	var a common.Alert
	var ts int64
	var status string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, host, type, value, timestamp, status
		FROM alerts
		WHERE id = ?
	`, id).Scan(&a.ID, &a.Host, &a.Type, &a.Value, &ts, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return common.Alert{}, ErrAlertNotFound
	}
	if err != nil {
		return common.Alert{}, err
	}

	a.Timestamp = time.UnixMilli(ts).UTC()
	a.Status = common.AlertStatus(status)
	return a, nil
}

// ResolveAlert flips the alert status to resolved. Resolving an already resolved
// alert is a no-op, an unknown identity returns ErrAlertNotFound.
func (s *sqliteStorage) ResolveAlert(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE alerts SET status = ? WHERE id = ?",
		string(common.AlertStatusResolved), id)
	if err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlertNotFound
	}

	return nil
}

// Trends averages the readings recorded since the provided instant
func (s *sqliteStorage) Trends(ctx context.Context, since time.Time) (common.TrendsReport, error) {
	var report common.TrendsReport

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(cpu_usage), 0), COALESCE(AVG(memory_usage), 0), COALESCE(AVG(latency), 0)
		FROM metrics
		WHERE timestamp >= ?
	`, since.UnixMilli()).Scan(&report.Samples, &report.CPUAvg, &report.MemoryAvg, &report.LatencyAvg)
	if err != nil {
		return common.TrendsReport{}, fmt.Errorf("query failed: %w", err)
	}

	return report, nil
}

// Ping verifies database connectivity without mutating state
func (s *sqliteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// cleanRetainedMetrics executes the retention cleanup query synchronously.
// Alerts are never deleted, retention applies to raw samples only.
func (s *sqliteStorage) cleanRetainedMetrics(ctx context.Context) error {
	cutoff := time.Now().Add(-time.Duration(s.retentionSeconds) * time.Second).UnixMilli()
	_, err := s.db.ExecContext(ctx, "DELETE FROM metrics WHERE timestamp < ?", cutoff)
	return err
}

func (s *sqliteStorage) startRetentionCleaner(ctx context.Context) {
	// max(RetentionSeconds/10, 60)
	intervalSec := s.retentionSeconds / 10
	if intervalSec < 60 {
		intervalSec = 60
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		common.RunPeriodically(ctx, time.Duration(intervalSec)*time.Second, func(ctx context.Context) {
			log.Debug("running retention cleanup")

			err := s.cleanRetainedMetrics(ctx)
			if err != nil {
				log.Warn("failed to cleanup retained metrics", "error", err)
			}
		})
	}()
}

// Close closes the database and stops background routines
func (s *sqliteStorage) Close() error {
	s.cancelFunc()
	s.wg.Wait()
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
