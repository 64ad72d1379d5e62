package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"weatherhat/internal/app"
	"weatherhat/internal/config"
	"weatherhat/internal/logging"
	"weatherhat/internal/station"
)

var version = "dev"
var appName = "weatherhat"

const title = "Pi Weather Station (Sense HAT)"

func banner() string {
	rule := strings.Repeat("#", len(title)+4)
	return fmt.Sprintf("\n%s\n# %s #\n%s\n", rule, title, rule)
}

func main() {
	fmt.Println(banner())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.Run(ctx, cfg)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nExiting application")
		return
	}
	if station.IsFatal(err) {
		slog.Error("run failed", "err", err)
		stop()
		os.Exit(1)
	}

	slog.Info("shutting down")
}
