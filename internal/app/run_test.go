package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudpico-analyzer/internal/config"
	"cloudpico-analyzer/internal/db"
	"cloudpico-analyzer/internal/modules/weather/export"
	"cloudpico-analyzer/internal/modules/weather/loader"
	"cloudpico-analyzer/internal/modules/weather/repository"
	"cloudpico-analyzer/internal/stats"
)

const sampleCSV = `date,temperature,humidity,pressure,windSpeed,rainfall
2024-01-01,20.0,50.0,1010.0,5.0,0.0
2024-01-02,22.0,60.0,1012.0,7.0,5.0
2024-01-02,22.5,60.0
2024-01-03,21.0,55.0,1011.0,6.0,0.0
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:             "dev",
		MaxRecords:         1000,
		VarianceStrategy:   stats.OnePass,
		OutputDir:          t.TempDir(),
		MQTTPort:           1883,
		MQTTClientID:       "analyzer-test",
		MQTTTopic:          "weather/analysis/summary",
		MQTTConnectTimeout: 300 * time.Millisecond,
	}
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weather.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInputPath(t *testing.T) {
	got, err := InputPath([]string{"/usr/bin/analyzer", "data.csv"})
	require.NoError(t, err)
	assert.Equal(t, "data.csv", got)

	for _, args := range [][]string{nil, {"analyzer"}, {"analyzer", "a.csv", "b.csv"}} {
		_, err := InputPath(args)
		assert.ErrorIs(t, err, ErrUsage, "args %q", args)
	}

	_, err = InputPath([]string{"/usr/bin/analyzer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyzer <weather_data.csv>")
}

func TestRun_WritesOutputsAndConsole(t *testing.T) {
	cfg := baseConfig(t)
	var stdout bytes.Buffer

	err := Run(context.Background(), cfg, quietLogger(), writeInput(t, sampleCSV), &stdout)
	require.NoError(t, err)

	want := "Successfully loaded 3 weather records.\n" +
		"\nWeather Trend Analysis\n" +
		"=====================\n" +
		"Temperature Trend: 0.50°C per day\n" +
		"Average Rainfall: 5.00 mm per rainy day\n" +
		"Rainy Days: 1 (33.3%)\n"
	assert.Equal(t, want, stdout.String())

	report, err := os.ReadFile(filepath.Join(cfg.OutputDir, export.ReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(report), "Analysis Period: 2024-01-01 to 2024-01-03\n")
	assert.Contains(t, string(report), "Total Records Analyzed: 3\n")

	csvData, err := os.ReadFile(filepath.Join(cfg.OutputDir, export.CSVFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Date,Temperature,Humidity,Pressure,WindSpeed,Rainfall,HeatIndex", lines[0])
	assert.Equal(t, "2024-01-01,20.00,50.00,1010.00,5.00,0.00,14.05", lines[1])
}

func TestRun_EmptyInput(t *testing.T) {
	cfg := baseConfig(t)
	var stdout bytes.Buffer

	err := Run(context.Background(), cfg, quietLogger(), writeInput(t, "date,temperature\n"), &stdout)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Successfully loaded 0 weather records.\n")
	assert.Contains(t, stdout.String(), "Temperature Trend: n/a\n")
	assert.Contains(t, stdout.String(), "Rainy Days: 0 (n/a)\n")

	report, err := os.ReadFile(filepath.Join(cfg.OutputDir, export.ReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(report), "Analysis Period: n/a\n")
}

func TestRun_MissingInput(t *testing.T) {
	cfg := baseConfig(t)
	var stdout bytes.Buffer

	err := Run(context.Background(), cfg, quietLogger(), filepath.Join(t.TempDir(), "nope.csv"), &stdout)
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrFileNotReadable)
	assert.Empty(t, stdout.String())
}

func TestRun_OutputFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	input := writeInput(t, sampleCSV)

	t.Run("lenient", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.OutputDir = filepath.Join(blocker, "out")
		var stdout bytes.Buffer

		require.NoError(t, Run(context.Background(), cfg, quietLogger(), input, &stdout))
		assert.Contains(t, stdout.String(), "Weather Trend Analysis")
	})

	t.Run("strict", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.OutputDir = filepath.Join(blocker, "out")
		cfg.StrictOutput = true

		err := Run(context.Background(), cfg, quietLogger(), input, io.Discard)
		require.Error(t, err)
		assert.ErrorIs(t, err, export.ErrFileNotWritable)
	})
}

func TestRun_CapacityTruncates(t *testing.T) {
	cfg := baseConfig(t)
	cfg.MaxRecords = 2
	var stdout bytes.Buffer

	require.NoError(t, Run(context.Background(), cfg, quietLogger(), writeInput(t, sampleCSV), &stdout))
	assert.True(t, strings.HasPrefix(stdout.String(), "Successfully loaded 2 weather records.\n"))
}

func TestRun_ArchivesRun(t *testing.T) {
	cfg := baseConfig(t)
	cfg.ArchivePath = filepath.Join(t.TempDir(), "archive", "runs.db")
	cfg.VarianceStrategy = stats.TwoPass
	input := writeInput(t, sampleCSV)

	require.NoError(t, Run(context.Background(), cfg, quietLogger(), input, io.Discard))
	require.NoError(t, Run(context.Background(), cfg, quietLogger(), input, io.Discard))

	conn, err := db.Open(cfg.ArchivePath, quietLogger())
	require.NoError(t, err)
	defer func() { _ = db.Close(conn) }()

	runs, err := repository.NewRepository(conn).ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, input, runs[0].Source)
	assert.Equal(t, "twopass", runs[0].Strategy)
	assert.Equal(t, 3, runs[0].RecordCount)
	assert.Equal(t, 1, runs[0].Skipped)
}

func TestRun_XLSXExport(t *testing.T) {
	cfg := baseConfig(t)
	cfg.XLSXPath = filepath.Join(cfg.OutputDir, "weather.xlsx")

	require.NoError(t, Run(context.Background(), cfg, quietLogger(), writeInput(t, sampleCSV), io.Discard))
	info, err := os.Stat(cfg.XLSXPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRun_UnreachableBrokerIsNotFatal(t *testing.T) {
	cfg := baseConfig(t)
	cfg.MQTTBroker = "127.0.0.1"
	cfg.MQTTPort = 1
	var stdout bytes.Buffer

	require.NoError(t, Run(context.Background(), cfg, quietLogger(), writeInput(t, sampleCSV), &stdout))
	assert.Contains(t, stdout.String(), "Rainy Days: 1 (33.3%)")
}

func TestRun_CancelledDuringPublish(t *testing.T) {
	cfg := baseConfig(t)
	cfg.MQTTBroker = "127.0.0.1"
	cfg.MQTTPort = 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, cfg, quietLogger(), writeInput(t, sampleCSV), io.Discard)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
