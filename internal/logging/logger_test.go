package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"weatherhat/internal/config"
)

func TestNew_ProdWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}
	logger := newWithWriter(&buf, cfg, "1.2.3", "weatherhat")

	logger.Info("temperature increased", "temp_f", 72.3)
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("line is not valid JSON: %v", err)
	}
	for key, want := range map[string]any{
		"level":   "INFO",
		"msg":     "temperature increased",
		"app":     "weatherhat",
		"version": "1.2.3",
		"env":     "prod",
		"temp_f":  72.3,
	} {
		if rec[key] != want {
			t.Errorf("%s = %v, want %v", key, rec[key], want)
		}
	}
	if _, ok := rec["time"]; !ok {
		t.Errorf("record has no time")
	}
}

func TestNew_DevRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "dev", LogLevel: slog.LevelDebug}
	logger := newWithWriter(&buf, cfg, "dev", "weatherhat")

	logger.Debug("station key", "key", config.SecretString("hunter2"))

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("output leaks secret: %q", out)
	}
	if !strings.Contains(out, "station key") {
		t.Errorf("output = %q, want message", out)
	}
}
