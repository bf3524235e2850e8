// Package app wires the analysis pipeline: load, compute, then emit to
// every configured writer.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"cloudpico-analyzer/internal/config"
	"cloudpico-analyzer/internal/db"
	"cloudpico-analyzer/internal/migrate"
	"cloudpico-analyzer/internal/modules/weather/analysis"
	"cloudpico-analyzer/internal/modules/weather/export"
	"cloudpico-analyzer/internal/modules/weather/loader"
	"cloudpico-analyzer/internal/modules/weather/repository"
	"cloudpico-analyzer/internal/modules/weather/views"
	"cloudpico-analyzer/internal/mqtt"
)

var ErrUsage = errors.New("usage")

// InputPath returns the single positional argument of args (os.Args layout).
func InputPath(args []string) (string, error) {
	if len(args) != 2 {
		prog := "analyzer"
		if len(args) > 0 {
			prog = filepath.Base(args[0])
		}
		return "", fmt.Errorf("%w: %s <weather_data.csv>", ErrUsage, prog)
	}
	return args[1], nil
}

// Run analyses the file at inputPath. Console output goes to stdout.
// Only an unreadable input fails the run unless cfg.StrictOutput is set.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, inputPath string, stdout io.Writer) error {
	if logger == nil {
		logger = slog.Default()
	}
	startedAt := time.Now()

	if err := views.LoadTemplates(); err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	s, loadRes, err := loader.Load(inputPath, cfg.MaxRecords)
	if err != nil {
		return err
	}
	logger.Info("loaded weather records",
		"path", inputPath,
		"records", loadRes.Loaded,
		"skipped", loadRes.Skipped,
		"truncated", loadRes.Truncated,
	)
	if loadRes.Truncated > 0 {
		logger.Warn("record capacity reached, remaining lines ignored",
			"capacity", s.Capacity(),
			"truncated", loadRes.Truncated,
		)
	}

	if err := views.RenderLoaded(stdout, s.Len()); err != nil {
		return fmt.Errorf("render load summary: %w", err)
	}

	res := analysis.Analyze(s, cfg.VarianceStrategy)

	reportPath := filepath.Join(cfg.OutputDir, export.ReportFile)
	if err := output(cfg, logger, "report", reportPath, func() error {
		return export.WriteReport(reportPath, res)
	}); err != nil {
		return err
	}

	csvPath := filepath.Join(cfg.OutputDir, export.CSVFile)
	if err := output(cfg, logger, "csv", csvPath, func() error {
		return export.WriteCSV(csvPath, s)
	}); err != nil {
		return err
	}

	if cfg.XLSXPath != "" {
		if err := output(cfg, logger, "xlsx", cfg.XLSXPath, func() error {
			return export.WriteXLSX(cfg.XLSXPath, res)
		}); err != nil {
			return err
		}
	}

	if err := views.RenderTrends(stdout, res.Trend); err != nil {
		return fmt.Errorf("render trends: %w", err)
	}

	run := repository.Run{
		Source:    inputPath,
		StartedAt: startedAt,
		Load:      loadRes,
		Result:    res,
	}
	if cfg.ArchivePath != "" {
		if id, err := archive(ctx, cfg.ArchivePath, logger, run); err != nil {
			logger.Warn("archive failed", "path", cfg.ArchivePath, "error", err)
		} else {
			logger.Info("run archived", "path", cfg.ArchivePath, "run_id", id)
		}
	}

	if cfg.MQTTBroker != "" {
		if err := publish(ctx, cfg, logger, mqtt.NewSummary(inputPath, loadRes, res)); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger.Warn("summary publish failed", "broker", cfg.MQTTBroker, "error", err)
		}
	}

	return nil
}

// output runs one file writer. Failures are logged and swallowed unless
// cfg.StrictOutput is set.
func output(cfg config.Config, logger *slog.Logger, kind, path string, write func() error) error {
	if err := write(); err != nil {
		if cfg.StrictOutput {
			return fmt.Errorf("write %s: %w", kind, err)
		}
		logger.Error("output not written", "kind", kind, "path", path, "error", err)
	}
	return nil
}

func archive(ctx context.Context, path string, logger *slog.Logger, run repository.Run) (int64, error) {
	conn, err := db.Open(path, logger)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logger.Warn("close archive", "error", err)
		}
	}()

	if err := migrate.Run(conn); err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	return repository.NewRepository(conn).SaveRun(ctx, run)
}

func publish(ctx context.Context, cfg config.Config, logger *slog.Logger, summary mqtt.Summary) error {
	p := mqtt.NewPublisher(cfg, logger)
	defer p.Disconnect()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.MQTTConnectTimeout)
	defer cancel()

	if err := p.Connect(connectCtx); err != nil {
		// A parent cancellation is not a broker problem.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return p.PublishSummary(summary)
}
