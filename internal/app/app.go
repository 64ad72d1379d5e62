package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"weatherhat/internal/config"
	"weatherhat/internal/display"
	"weatherhat/internal/estimator"
	"weatherhat/internal/mqtt"
	"weatherhat/internal/sensor"
	"weatherhat/internal/station"
	"weatherhat/internal/upload"
)

const mqttConnectTimeout = 5 * time.Second

type board interface {
	estimator.Board
	Close() error
}

func Run(ctx context.Context, cfg config.Config) error {
	return run(ctx, cfg, os.Stdout)
}

// run wires the hardware and services from cfg and blocks in the station
// loop. out receives terminal display output.
func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	slog.Info("initializing station",
		"station_id", cfg.StationID,
		"sensor", cfg.SensorDriver,
		"display", cfg.DisplayDriver,
		"interval_min", cfg.MeasurementInterval,
		"upload", cfg.UploadEnabled,
	)

	b, err := openBoard(cfg)
	if err != nil {
		return fmt.Errorf("open sensor board: %w", err)
	}
	defer b.Close()

	est, err := estimator.New(b, thermometer(cfg, b), cfg.CompensationFactor)
	if err != nil {
		return err
	}

	matrix, err := openDisplay(cfg, out)
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}
	defer matrix.Close()

	if err := matrix.ShowMessage("Init", display.Yellow, display.Blue); err != nil {
		return err
	}
	if err := matrix.Clear(); err != nil {
		return err
	}

	opts := station.Options{
		StationID:    cfg.StationID,
		StationKey:   cfg.StationKey,
		Interval:     cfg.MeasurementInterval,
		PollInterval: cfg.PollInterval,
		Logger:       slog.Default(),
	}

	if cfg.UploadEnabled {
		up, err := upload.New(cfg.UploadURL, cfg.StationID, cfg.StationKey.Unmask(), cfg.UploadTimeout)
		if err != nil {
			return err
		}
		opts.Uploader = up
	}

	if cfg.MQTTEnabled() {
		client, err := mqtt.NewClient(cfg, slog.Default())
		if err != nil {
			return err
		}
		defer client.Disconnect()

		connectCtx, cancel := context.WithTimeout(ctx, mqttConnectTimeout)
		if err := client.Connect(connectCtx); err != nil {
			// paho keeps retrying in the background; publishes fail until it connects.
			slog.Warn("mqtt connect failed; station continues without telemetry mirror until reconnected",
				"error", err,
			)
		}
		cancel()
		opts.Publisher = client
	}

	st, err := station.New(est, matrix, opts)
	if err != nil {
		return err
	}

	slog.Info("station running")
	err = st.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.Info("station shutting down")
	}
	return err
}

func openBoard(cfg config.Config) (board, error) {
	switch cfg.SensorDriver {
	case "sensehat":
		return sensor.OpenSenseHat(cfg.I2CBus)
	case "bme280":
		return sensor.OpenBME280(cfg.I2CBus, cfg.BME280Address)
	case "simulated":
		return sensor.NewSimulated(nil), nil
	}
	return nil, fmt.Errorf("unknown sensor driver %q", cfg.SensorDriver)
}

func thermometer(cfg config.Config, b board) estimator.CPUThermometer {
	if sim, ok := b.(*sensor.Simulated); ok {
		return sim
	}
	if cfg.CPUTempSource == "vcgencmd" {
		return sensor.VcgencmdThermometer{}
	}
	return sensor.SysfsThermometer{Path: cfg.CPUThermalPath}
}

func openDisplay(cfg config.Config, out io.Writer) (display.Matrix, error) {
	switch cfg.DisplayDriver {
	case "sensehat":
		return display.OpenFramebuffer()
	case "terminal":
		return display.NewTerminal(out), nil
	}
	return nil, fmt.Errorf("unknown display driver %q", cfg.DisplayDriver)
}
