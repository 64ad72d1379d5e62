package sensor

import (
	"context"
	"math"
	"time"
)

// Simulated stands in for real hardware off the Pi. Values drift slowly and
// deterministically with the wall clock.
type Simulated struct {
	now func() time.Time
}

func NewSimulated(now func() time.Time) *Simulated {
	if now == nil {
		now = time.Now
	}
	return &Simulated{now: now}
}

func (s *Simulated) phase() float64 {
	t := s.now()
	sec := float64(t.Hour()*3600 + t.Minute()*60 + t.Second())
	return 2 * math.Pi * sec / 3600
}

func (s *Simulated) ambient() float64 {
	return 21 + 2*math.Sin(s.phase())
}

// the two chips never agree exactly
func (s *Simulated) TemperatureFromHumidity() (float64, error) {
	return s.ambient() + 0.3, nil
}

func (s *Simulated) TemperatureFromPressure() (float64, error) {
	return s.ambient() - 0.3, nil
}

func (s *Simulated) Humidity() (float64, error) {
	return 45 + 5*math.Cos(s.phase()), nil
}

func (s *Simulated) Pressure() (float64, error) {
	return 1013.25 + math.Sin(s.phase()/2), nil
}

func (s *Simulated) Close() error {
	return nil
}

// CPUTemperature runs the simulated processor a fixed amount above ambient.
func (s *Simulated) CPUTemperature(context.Context) (float64, error) {
	return s.ambient() + 18, nil
}
