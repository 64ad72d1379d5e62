// Package station runs the sampling loop: one reading per poll tick and, on
// each measurement-interval minute, a trend update and a best-effort upload.
package station

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"weatherhat/internal/config"
	"weatherhat/internal/display"
	"weatherhat/internal/estimator"
	"weatherhat/internal/mqtt"
	"weatherhat/internal/upload"
)

type Estimator interface {
	Estimate(ctx context.Context) (estimator.Reading, error)
}

type Display interface {
	SetPixels(pixels []display.RGB) error
}

type Uploader interface {
	Send(ctx context.Context, obs upload.Observation) (string, error)
}

type Publisher interface {
	PublishTelemetry(t mqtt.Telemetry) error
}

type State int

const (
	StateRunning State = iota
	StateStopped
)

func (s State) String() string {
	if s == StateStopped {
		return "stopped"
	}
	return "running"
}

type Options struct {
	StationID  string
	StationKey config.SecretString
	// Interval is the measurement interval in minutes, 1..60.
	Interval     int
	PollInterval time.Duration

	// Uploader nil disables uploads. Publisher nil disables the MQTT mirror.
	Uploader  Uploader
	Publisher Publisher

	Logger *slog.Logger
	Now    func() time.Time
}

type Station struct {
	est     Estimator
	disp    Display
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
	poll    time.Duration
	mu      sync.Mutex
	state   State
	primed  bool
	lastMin int
	lastF   float64
	trend   Trend
}

func New(est Estimator, disp Display, opts Options) (*Station, error) {
	if est == nil || disp == nil {
		return nil, errors.New("station: estimator and display are required")
	}
	if opts.Interval <= 0 || opts.Interval > 60 {
		return nil, fmt.Errorf("station: measurement interval %d out of range 1..60", opts.Interval)
	}
	s := &Station{
		est:     est,
		disp:    disp,
		opts:    opts,
		logger:  opts.Logger,
		now:     opts.Now,
		poll:    opts.PollInterval,
		lastMin: -1,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.poll <= 0 {
		s.poll = time.Second
	}
	return s, nil
}

func (s *Station) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Station) Trend() Trend {
	return s.trend
}

// LastReportedF is the Fahrenheit value the current trend was computed
// against.
func (s *Station) LastReportedF() float64 {
	return s.lastF
}

func (s *Station) stop() {
	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
}

// Prime takes the startup reading and seeds the last reported temperature
// with it, so the first boundary compares like with like.
func (s *Station) Prime(ctx context.Context) error {
	if s.State() == StateStopped {
		return ErrStopped
	}
	r, err := s.est.Estimate(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("initial reading: %w", err)
	}
	s.lastF = estimator.Round1(estimator.CToF(r.TemperatureC))
	s.primed = true
	s.logger.Info("initial reading",
		"temp_f", s.lastF,
		"humidity", estimator.Round1(r.Humidity),
		"pressure_hpa", estimator.Round1(r.PressureHPa),
	)
	return nil
}

// Tick performs one poll step. Only sensor and display failures are
// returned; upload and publish failures are logged.
func (s *Station) Tick(ctx context.Context) error {
	if s.State() == StateStopped {
		return ErrStopped
	}
	if !s.primed {
		if err := s.Prime(ctx); err != nil {
			return err
		}
	}

	r, err := s.est.Estimate(ctx)
	if err != nil {
		// a read cut short by shutdown is not a sensor fault
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("reading: %w", err)
	}
	f := estimator.Round1(estimator.CToF(r.TemperatureC))
	s.logger.Debug("reading", "current_f", f, "last_reported_f", s.lastF)

	minute := s.now().Minute()
	if minute == s.lastMin {
		return nil
	}
	s.lastMin = minute
	if minute != 0 && minute%s.opts.Interval != 0 {
		return nil
	}
	return s.report(ctx, r, f)
}

func (s *Station) report(ctx context.Context, r estimator.Reading, f float64) error {
	trend := TrendOf(s.lastF, f)
	if err := s.disp.SetPixels(trend.Glyph()); err != nil {
		return err
	}
	s.logger.Info("measurement", "trend", trend.String(), "temp_f", f, "last_reported_f", s.lastF)
	s.trend = trend
	s.lastF = f

	obs := upload.Observation{
		TempF:    f,
		Humidity: r.Humidity,
		BaromIn:  estimator.HPaToInHg(r.PressureHPa),
	}
	s.logger.Debug("upload parameters",
		"ID", s.opts.StationID,
		"PASSWORD", s.opts.StationKey,
		"tempf", obs.TempF,
		"humidity", obs.Humidity,
		"baromin", obs.BaromIn,
	)

	if s.opts.Uploader == nil {
		s.logger.Info("skipping upload")
	} else if body, err := s.opts.Uploader.Send(ctx, obs); err != nil {
		s.logger.Error("upload failed", "error", err)
	} else {
		s.logger.Info("upload complete", "response", body)
	}

	if s.opts.Publisher != nil {
		err := s.opts.Publisher.PublishTelemetry(mqtt.Telemetry{
			StationID:    s.opts.StationID,
			Timestamp:    s.now().UTC(),
			TemperatureC: estimator.Round1(r.TemperatureC),
			TemperatureF: f,
			Humidity:     estimator.Round1(r.Humidity),
			Pressure:     estimator.Round1(r.PressureHPa),
			Trend:        trend.String(),
		})
		if err != nil {
			s.logger.Warn("telemetry publish failed", "error", err)
		}
	}
	return nil
}

// Run primes the station and ticks every poll interval until ctx is done or a
// fatal error occurs. The station is stopped when Run returns.
func (s *Station) Run(ctx context.Context) error {
	defer s.stop()

	if err := s.Prime(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		if err := s.Tick(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
