package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"cloudpico-analyzer/internal/migrate"
	"cloudpico-analyzer/internal/modules/weather/analysis"
	"cloudpico-analyzer/internal/modules/weather/repository"
	"cloudpico-analyzer/internal/modules/weather/views"
)

const defaultRunLimit = 20

var errUnknownCommand = errors.New("unknown command")

func runCommand(ctx context.Context, conn *sql.DB, args []string, w io.Writer) error {
	switch args[0] {
	case "migrate":
		if err := migrate.Run(conn); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "migrations applied")
		return err

	case "runs":
		limit := defaultRunLimit
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid limit %q", args[1])
			}
			limit = n
		}
		return listRuns(ctx, repository.NewRepository(conn), limit, w)

	case "show":
		if len(args) < 2 {
			return errors.New("missing run id")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", args[1], err)
		}
		return showRun(ctx, repository.NewRepository(conn), id, w)

	default:
		return errUnknownCommand
	}
}

func listRuns(ctx context.Context, repo repository.ArchiveRepository, limit int, w io.Writer) error {
	runs, err := repo.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\trecords=%d skipped=%d truncated=%d trend=%s rainy=%s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Source,
			r.Strategy,
			r.RecordCount,
			r.Skipped,
			r.Truncated,
			orNA(r.TempTrend),
			orNA(r.RainyPercent),
		); err != nil {
			return err
		}
	}
	return nil
}

func showRun(ctx context.Context, repo repository.ArchiveRepository, id int64, w io.Writer) error {
	stats, err := repo.GetMetricStats(ctx, id)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return fmt.Errorf("run %d not found", id)
	}
	for _, ms := range stats {
		if _, err := fmt.Fprintf(w, "%-12s min=%.2f max=%.2f mean=%.2f std=%.2f\n",
			ms.Metric, ms.Stats.Min, ms.Stats.Max, ms.Stats.Mean, ms.Stats.StdDev); err != nil {
			return err
		}
	}

	records, err := repo.GetRecords(ctx, id)
	if err != nil {
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f\n",
			r.Date, r.Temperature, r.Humidity, r.Pressure, r.WindSpeed, r.Rainfall,
			analysis.HeatIndex(r.Temperature, r.Humidity)); err != nil {
			return err
		}
	}
	return nil
}

func orNA(v *float64) string {
	if v == nil {
		return views.NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
