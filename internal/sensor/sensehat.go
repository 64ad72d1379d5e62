package sensor

import (
	"io"

	"periph.io/x/conn/v3/i2c"
)

// SenseHat reads the two environmental chips of the Raspberry Pi Sense HAT.
// Both report their own die temperature.
type SenseHat struct {
	bus      i2c.Bus
	humidity *HTS221
	pressure *LPS25H
}

func NewSenseHat(bus i2c.Bus) (*SenseHat, error) {
	hts, err := NewHTS221(bus)
	if err != nil {
		return nil, err
	}
	lps, err := NewLPS25H(bus)
	if err != nil {
		return nil, err
	}
	return &SenseHat{bus: bus, humidity: hts, pressure: lps}, nil
}

func (s *SenseHat) TemperatureFromHumidity() (float64, error) {
	t, _, err := s.humidity.Sense()
	return t, err
}

func (s *SenseHat) TemperatureFromPressure() (float64, error) {
	t, _, err := s.pressure.Sense()
	return t, err
}

func (s *SenseHat) Humidity() (float64, error) {
	_, h, err := s.humidity.Sense()
	return h, err
}

func (s *SenseHat) Pressure() (float64, error) {
	_, p, err := s.pressure.Sense()
	return p, err
}

func (s *SenseHat) Close() error {
	if c, ok := s.bus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
