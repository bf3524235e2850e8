package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cloudpico-analyzer/internal/modules/weather/store"
	"cloudpico-analyzer/internal/stats"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// MaxRecords bounds the record store; 0 disables the bound.
	MaxRecords       int
	VarianceStrategy stats.Strategy

	// OutputDir receives weather_report.txt and processed_weather_data.csv.
	OutputDir string
	// StrictOutput turns output-file failures into run failures.
	StrictOutput bool
	// XLSXPath enables the workbook export when set.
	XLSXPath string

	// ArchivePath enables the SQLite run archive when set.
	ArchivePath string

	// MQTTBroker enables summary publishing when set.
	MQTTBroker         string
	MQTTPort           int
	MQTTClientID       string
	MQTTTopic          string
	MQTTConnectTimeout time.Duration
}

// LoadFromEnv reads the configuration from the environment. A .env file in
// the working directory is loaded first when present; it never overrides
// variables that are already set.
func LoadFromEnv() (Config, error) {
	_ = godotenv.Load(".env")

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	maxRecordsStr := strings.TrimSpace(os.Getenv("MAX_RECORDS"))
	if maxRecordsStr == "" {
		maxRecordsStr = strconv.Itoa(store.DefaultCapacity)
	}
	maxRecords, err := strconv.Atoi(maxRecordsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MAX_RECORDS %q: %w", maxRecordsStr, err)
	}
	if maxRecords < 0 {
		return Config{}, fmt.Errorf("MAX_RECORDS must not be negative, got %d", maxRecords)
	}

	strategyStr := strings.TrimSpace(os.Getenv("VARIANCE_STRATEGY"))
	if strategyStr == "" {
		strategyStr = string(stats.OnePass)
	}
	strategy, err := stats.ParseStrategy(strategyStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid VARIANCE_STRATEGY: %w", err)
	}

	outputDir := strings.TrimSpace(os.Getenv("OUTPUT_DIR"))
	if outputDir == "" {
		outputDir = "."
	}

	strictOutput := false
	if v := strings.TrimSpace(os.Getenv("STRICT_OUTPUT")); v != "" {
		strictOutput, err = strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid STRICT_OUTPUT %q: %w", v, err)
		}
	}

	mqttPortStr := strings.TrimSpace(os.Getenv("MQTT_PORT"))
	if mqttPortStr == "" {
		mqttPortStr = "1883"
	}
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}

	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "cloudpico-analyzer"
	}

	mqttTopic := strings.TrimSpace(os.Getenv("MQTT_TOPIC"))
	if mqttTopic == "" {
		mqttTopic = "weather/analysis/summary"
	}

	connectTimeoutStr := strings.TrimSpace(os.Getenv("MQTT_CONNECT_TIMEOUT"))
	if connectTimeoutStr == "" {
		connectTimeoutStr = "5s"
	}
	connectTimeout, err := time.ParseDuration(connectTimeoutStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_CONNECT_TIMEOUT %q: %w", connectTimeoutStr, err)
	}
	if connectTimeout <= 0 {
		return Config{}, fmt.Errorf("MQTT_CONNECT_TIMEOUT must be positive, got %v", connectTimeout)
	}

	return Config{
		AppEnv:             appEnv,
		LogLevel:           level,
		MaxRecords:         maxRecords,
		VarianceStrategy:   strategy,
		OutputDir:          outputDir,
		StrictOutput:       strictOutput,
		XLSXPath:           strings.TrimSpace(os.Getenv("EXPORT_XLSX_PATH")),
		ArchivePath:        strings.TrimSpace(os.Getenv("ARCHIVE_SQLITE_PATH")),
		MQTTBroker:         strings.TrimSpace(os.Getenv("MQTT_BROKER")),
		MQTTPort:           mqttPort,
		MQTTClientID:       mqttClientID,
		MQTTTopic:          mqttTopic,
		MQTTConnectTimeout: connectTimeout,
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
