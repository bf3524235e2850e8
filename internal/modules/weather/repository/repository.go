package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"cloudpico-analyzer/internal/modules/weather/analysis"
	"cloudpico-analyzer/internal/modules/weather/loader"
	"cloudpico-analyzer/internal/modules/weather/types"
)

//go:embed sql/insert-run.sql
var insertRunSQL string

//go:embed sql/insert-record.sql
var insertRecordSQL string

//go:embed sql/insert-metric-stats.sql
var insertMetricStatsSQL string

//go:embed sql/get-runs.sql
var getRunsSQL string

//go:embed sql/get-metric-stats.sql
var getMetricStatsSQL string

//go:embed sql/get-records.sql
var getRecordsSQL string

// Run is one completed analysis, ready to archive.
type Run struct {
	Source    string
	StartedAt time.Time
	Load      loader.Result
	Result    analysis.Result
}

// RunSummary is an archived run without its records.
type RunSummary struct {
	ID           int64
	Source       string
	StartedAt    time.Time
	Strategy     string
	RecordCount  int
	LineCount    int
	Skipped      int
	Truncated    int
	TempTrend    *float64
	RainyDays    int
	RainyAverage float64
	RainyPercent *float64
}

type MetricStats struct {
	Metric string
	Stats  types.Statistics
}

type ArchiveRepository interface {
	SaveRun(ctx context.Context, run Run) (int64, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	GetMetricStats(ctx context.Context, runID int64) ([]MetricStats, error)
	GetRecords(ctx context.Context, runID int64) ([]types.Record, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ArchiveRepository {
	return &repositoryImpl{db: db}
}

// SaveRun stores the run, its records and its statistics in one
// transaction and returns the new run id.
func (r *repositoryImpl) SaveRun(ctx context.Context, run Run) (id int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("rollback archive run", "error", rbErr)
			}
		}
	}()

	res := run.Result
	trend := res.Trend
	result, err := tx.ExecContext(ctx, insertRunSQL,
		run.Source,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		res.Strategy.String(),
		res.Store.Len(),
		run.Load.Lines,
		run.Load.Skipped,
		run.Load.Truncated,
		nullable(trend.TemperatureChange),
		trend.RainyDays,
		trend.RainyAverage,
		nullable(trend.RainyPercent),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	recordStmt, err := tx.PrepareContext(ctx, insertRecordSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare record insert: %w", err)
	}
	defer func() { _ = recordStmt.Close() }()

	for i := 0; i < res.Store.Len(); i++ {
		rec := res.Store.At(i)
		if _, err = recordStmt.ExecContext(ctx,
			id, i, rec.Date,
			rec.Temperature, rec.Humidity, rec.Pressure, rec.WindSpeed, rec.Rainfall,
			analysis.HeatIndex(rec.Temperature, rec.Humidity),
		); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	for _, ms := range res.Metrics {
		if _, err = tx.ExecContext(ctx, insertMetricStatsSQL,
			id, ms.Metric.Key(), ms.Stats.Min, ms.Stats.Max, ms.Stats.Mean, ms.Stats.StdDev,
		); err != nil {
			return 0, fmt.Errorf("insert %s stats: %w", ms.Metric.Key(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func (r *repositoryImpl) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := r.db.QueryContext(ctx, getRunsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close runs rows", "error", err)
		}
	}()

	var out []RunSummary
	for rows.Next() {
		var (
			s         RunSummary
			startedAt string
			tempTrend sql.NullFloat64
			rainyPct  sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.Source, &startedAt, &s.Strategy, &s.RecordCount, &s.LineCount,
			&s.Skipped, &s.Truncated, &tempTrend, &s.RainyDays, &s.RainyAverage, &rainyPct); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
		}
		s.StartedAt = t
		s.TempTrend = fromNull(tempTrend)
		s.RainyPercent = fromNull(rainyPct)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetMetricStats(ctx context.Context, runID int64) ([]MetricStats, error) {
	rows, err := r.db.QueryContext(ctx, getMetricStatsSQL, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close metric stats rows", "error", err)
		}
	}()

	var out []MetricStats
	for rows.Next() {
		var ms MetricStats
		if err := rows.Scan(&ms.Metric, &ms.Stats.Min, &ms.Stats.Max, &ms.Stats.Mean, &ms.Stats.StdDev); err != nil {
			return nil, err
		}
		out = append(out, ms)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetRecords(ctx context.Context, runID int64) ([]types.Record, error) {
	rows, err := r.db.QueryContext(ctx, getRecordsSQL, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close records rows", "error", err)
		}
	}()

	var out []types.Record
	for rows.Next() {
		var rec types.Record
		if err := rows.Scan(&rec.Date, &rec.Temperature, &rec.Humidity, &rec.Pressure, &rec.WindSpeed, &rec.Rainfall); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
