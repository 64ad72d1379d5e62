// Package estimator derives an ambient temperature from the board sensors,
// compensating for heat coming off the host processor and smoothing the
// result over the last few samples.
package estimator

import (
	"context"
	"fmt"
	"math"
)

// DefaultCompensationFactor is the heat-coupling divisor applied to the gap
// between CPU and raw ambient temperature. It is a tuned heuristic.
const DefaultCompensationFactor = 1.5

// Board is the subset of the sensor board the estimator reads.
type Board interface {
	TemperatureFromHumidity() (float64, error)
	TemperatureFromPressure() (float64, error)
	Humidity() (float64, error)
	Pressure() (float64, error)
}

// CPUThermometer reports the host processor temperature in Celsius.
type CPUThermometer interface {
	CPUTemperature(ctx context.Context) (float64, error)
}

// Reading is one smoothed sample. Humidity and pressure are passed through
// for reporting only.
type Reading struct {
	TemperatureC float64
	Humidity     float64 // %rH
	PressureHPa  float64
}

type Estimator struct {
	board    Board
	cpu      CPUThermometer
	factor   float64
	smoother *Smoother
}

func New(board Board, cpu CPUThermometer, factor float64) (*Estimator, error) {
	if board == nil {
		return nil, fmt.Errorf("estimator construct: board is required")
	}
	if cpu == nil {
		return nil, fmt.Errorf("estimator construct: cpu thermometer is required")
	}
	if factor <= 0 {
		return nil, fmt.Errorf("estimator construct: compensation factor must be positive, got %v", factor)
	}
	return &Estimator{board: board, cpu: cpu, factor: factor, smoother: NewSmoother()}, nil
}

// Estimate reads every sensor once and feeds the compensated temperature
// through the smoother. Any read failure is returned unchanged in the chain.
func (e *Estimator) Estimate(ctx context.Context) (Reading, error) {
	tHum, err := e.board.TemperatureFromHumidity()
	if err != nil {
		return Reading{}, fmt.Errorf("temperature from humidity sensor: %w", err)
	}
	tPress, err := e.board.TemperatureFromPressure()
	if err != nil {
		return Reading{}, fmt.Errorf("temperature from pressure sensor: %w", err)
	}
	tCPU, err := e.cpu.CPUTemperature(ctx)
	if err != nil {
		return Reading{}, fmt.Errorf("cpu temperature: %w", err)
	}
	humidity, err := e.board.Humidity()
	if err != nil {
		return Reading{}, fmt.Errorf("humidity: %w", err)
	}
	pressure, err := e.board.Pressure()
	if err != nil {
		return Reading{}, fmt.Errorf("pressure: %w", err)
	}

	raw := (tHum + tPress) / 2
	corrected := Compensate(raw, tCPU, e.factor)

	return Reading{
		TemperatureC: e.smoother.Add(corrected),
		Humidity:     humidity,
		PressureHPa:  pressure,
	}, nil
}

// Compensate removes the share of CPU self-heating from a raw ambient value:
// raw - (cpu-raw)/factor.
func Compensate(raw, cpu, factor float64) float64 {
	return raw - (cpu-raw)/factor
}

func CToF(c float64) float64 {
	return c*1.8 + 32
}

func FToC(f float64) float64 {
	return (f - 32) / 1.8
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

const inHgPerHPa = 0.0295299830714

func HPaToInHg(hpa float64) float64 {
	return hpa * inHgPerHPa
}
