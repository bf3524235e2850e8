//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const repoRootRel = ".."   // relative to ./e2e
const mainPkgRel = "./cmd" // main.go lives in cmd/

const (
	mqttPort     = nat.Port("1883/tcp")
	summaryTopic = "weather/analysis/summary"
)

func TestSmoke_AnalyzeAndPublish(t *testing.T) {
	repoRoot := repoRootPath(t)
	host, port := startBroker(t)
	bin := buildBinary(t, repoRoot)

	outDir := t.TempDir()
	cmd := exec.Command(bin, filepath.Join(repoRoot, "testdata", "weather.csv"))
	cmd.Env = append(os.Environ(),
		"APP_ENV=prod",
		"LOG_LEVEL=debug",
		"OUTPUT_DIR="+outDir,
		"EXPORT_XLSX_PATH="+filepath.Join(outDir, "weather.xlsx"),
		"ARCHIVE_SQLITE_PATH="+filepath.Join(outDir, "archive.db"),
		"MQTT_BROKER="+host,
		"MQTT_PORT="+port.Port(),
		"MQTT_TOPIC="+summaryTopic,
		"MQTT_CONNECT_TIMEOUT=10s",
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("run analyzer: %v", err)
	}

	want := "Successfully loaded 7 weather records.\n" +
		"\nWeather Trend Analysis\n" +
		"=====================\n" +
		"Temperature Trend: 0.82°C per day\n" +
		"Average Rainfall: 3.63 mm per rainy day\n" +
		"Rainy Days: 3 (42.9%)\n"
	if got := stdout.String(); got != want {
		t.Fatalf("stdout mismatch\n got: %q\nwant: %q", got, want)
	}

	for _, name := range []string{"weather_report.txt", "processed_weather_data.csv", "weather.xlsx", "archive.db"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}

	csvData, err := os.ReadFile(filepath.Join(outDir, "processed_weather_data.csv"))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(csvData)), "\n"); len(lines) != 8 {
		t.Fatalf("csv lines=%d want=8", len(lines))
	}

	payload := receiveRetained(t, host, port.Port())
	var summary struct {
		Records int    `json:"records"`
		Skipped int    `json:"skipped_lines"`
		From    string `json:"from"`
		To      string `json:"to"`
		Trend   struct {
			RainyDays int `json:"rainy_days"`
		} `json:"trend"`
	}
	if err := json.Unmarshal(payload, &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, payload)
	}
	if summary.Records != 7 || summary.Skipped != 2 {
		t.Fatalf("records=%d skipped=%d want 7 and 2", summary.Records, summary.Skipped)
	}
	if summary.From != "2024-03-01" || summary.To != "2024-03-08" {
		t.Fatalf("span=%s..%s", summary.From, summary.To)
	}
	if summary.Trend.RainyDays != 3 {
		t.Fatalf("rainy_days=%d want=3", summary.Trend.RainyDays)
	}
}

func TestSmoke_ExitCodes(t *testing.T) {
	bin := buildBinary(t, repoRootPath(t))

	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments"},
		{name: "too many arguments", args: []string{"a.csv", "b.csv"}},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "missing.csv")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(bin, tt.args...)
			cmd.Dir = t.TempDir()
			cmd.Env = append(os.Environ(), "APP_ENV=prod")

			err := cmd.Run()
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("want exit error, got %v", err)
			}
			if code := exitErr.ExitCode(); code != 1 {
				t.Fatalf("exit code=%d want=1", code)
			}
		})
	}
}

func startBroker(t *testing.T) (string, nat.Port) {
	t.Helper()

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2",
		ExposedPorts: []string{string(mqttPort)},
		Cmd:          []string{"mosquitto", "-c", "/mosquitto-no-auth.conf"},
		WaitingFor:   wait.ForListeningPort(mqttPort).WithStartupTimeout(30 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start mosquitto container: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, mqttPort)
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return host, port
}

func receiveRetained(t *testing.T, host, port string) []byte {
	t.Helper()

	opts := mqtt.NewClientOptions().
		AddBroker("tcp://" + host + ":" + port).
		SetClientID("e2e-subscriber")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		t.Fatalf("subscriber connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	msgs := make(chan []byte, 1)
	token := client.Subscribe(summaryTopic, 1, func(_ mqtt.Client, m mqtt.Message) {
		select {
		case msgs <- m.Payload():
		default:
		}
	})
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		t.Fatalf("subscribe: %v", token.Error())
	}

	select {
	case p := <-msgs:
		return p
	case <-time.After(10 * time.Second):
		t.Fatalf("no retained summary on %s", summaryTopic)
		return nil
	}
}

func repoRootPath(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	repo := filepath.Clean(filepath.Join(wd, repoRootRel))
	if _, err := os.Stat(filepath.Join(repo, "go.mod")); err != nil {
		t.Fatalf("repo root %q does not contain go.mod: %v", repo, err)
	}

	return repo
}

func buildBinary(t *testing.T, repoRoot string) string {
	t.Helper()

	out := filepath.Join(t.TempDir(), "cloudpico-analyzer")

	build := exec.Command("go", "build", "-o", out, mainPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(b))
	}

	return out
}
