//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const repoRootRel = ".."   // relative to ./e2e
const mainPkgRel = "./cmd" // main.go lives in cmd/

const stationID = "KE2ETEST1"

func TestSmoke_UploadAndTelemetry(t *testing.T) {
	repoRoot := repoRootPath(t)
	host, port := startMosquitto(t)

	uploads := make(chan url.Values, 8)
	wu := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case uploads <- r.URL.Query():
		default:
		}
		w.Write([]byte("success\n"))
	}))
	defer wu.Close()

	telemetry := subscribe(t, host, port)

	bin := buildBinary(t, repoRoot)

	var stdout bytes.Buffer
	cmd := exec.Command(bin)
	cmd.Dir = t.TempDir() // keep a developer .env out of the run
	cmd.Env = append(os.Environ(),
		"APP_ENV=dev",
		"LOG_LEVEL=debug",
		"WU_STATION_ID="+stationID,
		"WU_STATION_KEY=e2e-secret",
		"WEATHER_UPLOAD_URL="+wu.URL,
		"MEASUREMENT_INTERVAL=1",
		"POLL_INTERVAL=200ms",
		"SENSOR_DRIVER=simulated",
		"DISPLAY_DRIVER=terminal",
		"MQTT_BROKER="+host,
		"MQTT_PORT="+port.Port(),
		"MQTT_CLIENT_ID=weatherhat-e2e",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("start station: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	select {
	case q := <-uploads:
		if q.Get("ID") != stationID || q.Get("action") != "updateraw" || q.Get("tempf") == "" {
			t.Fatalf("unexpected upload query: %v", q)
		}
	case <-time.After(20 * time.Second):
		t.Fatal("no upload received")
	}

	select {
	case msg := <-telemetry:
		var body map[string]any
		if err := json.Unmarshal(msg, &body); err != nil {
			t.Fatalf("decode telemetry: %v", err)
		}
		if body["station_id"] != stationID {
			t.Fatalf("telemetry station_id = %v, want %s", body["station_id"], stationID)
		}
	case <-time.After(20 * time.Second):
		t.Fatal("no telemetry received")
	}

	stopStation(t, cmd)

	if !strings.Contains(stdout.String(), "Exiting application") {
		t.Errorf("stdout missing exit message:\n%s", stdout.String())
	}
	if strings.Contains(stdout.String(), "e2e-secret") {
		t.Errorf("station key leaked to stdout")
	}
}

func startMosquitto(t *testing.T) (string, nat.Port) {
	t.Helper()

	ctx := context.Background()
	mqttPort := nat.Port("1883/tcp")

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		Cmd:          []string{"mosquitto", "-c", "/mosquitto-no-auth.conf"},
		ExposedPorts: []string{string(mqttPort)},
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
	mapped, err := c.MappedPort(ctx, mqttPort)
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return host, mapped
}

func subscribe(t *testing.T, host string, port nat.Port) <-chan []byte {
	t.Helper()

	msgs := make(chan []byte, 8)
	opts := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port.Port())).
		SetClientID("weatherhat-e2e-sub")

	client := paho.NewClient(opts)
	if token := client.Connect(); !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		t.Fatalf("subscriber connect: %v", token.Error())
	}
	t.Cleanup(func() { client.Disconnect(250) })

	topic := fmt.Sprintf("stations/%s/telemetry", stationID)
	token := client.Subscribe(topic, 1, func(_ paho.Client, m paho.Message) {
		select {
		case msgs <- m.Payload():
		default:
		}
	})
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		t.Fatalf("subscribe %s: %v", topic, token.Error())
	}
	return msgs
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

	out := filepath.Join(t.TempDir(), "weatherhat")

	build := exec.Command("go", "build", "-o", out, mainPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(b))
	}

	return out
}

func stopStation(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	_ = cmd.Process.Signal(syscall.SIGINT)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		t.Fatalf("station did not exit in time")
	case err := <-done:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				t.Fatalf("station exited non-zero: %v", err)
			}
			t.Fatalf("station wait error: %v", err)
		}
	}
}
