package sensor

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// HTS221 humidity/temperature sensor on the Sense HAT.
const (
	hts221Addr   = 0x5F
	hts221WhoAmI = 0xBC

	regWhoAmI   = 0x0F
	regCtrl1    = 0x20
	regOutStart = 0x28
	hts221Calib = 0x30

	// multi-byte reads need the auto-increment bit on the register address
	autoIncrement = 0x80
)

// power on, block data update, 1 Hz
const hts221Ctrl1 = 0x85

type hts221Calibration struct {
	h0RH, h1RH   float64
	t0C, t1C     float64
	h0Out, h1Out float64
	t0Out, t1Out float64
}

type HTS221 struct {
	dev   i2c.Dev
	calib hts221Calibration
}

func NewHTS221(bus i2c.Bus) (*HTS221, error) {
	h := &HTS221{dev: i2c.Dev{Bus: bus, Addr: hts221Addr}}

	id := []byte{0}
	if err := h.dev.Tx([]byte{regWhoAmI}, id); err != nil {
		return nil, sensorErr("hts221", "who am i", err)
	}
	if id[0] != hts221WhoAmI {
		return nil, sensorErr("hts221", "who am i", fmt.Errorf("unexpected id %#02x", id[0]))
	}
	if err := h.dev.Tx([]byte{regCtrl1, hts221Ctrl1}, nil); err != nil {
		return nil, sensorErr("hts221", "power on", err)
	}

	c := make([]byte, 16)
	if err := h.dev.Tx([]byte{hts221Calib | autoIncrement}, c); err != nil {
		return nil, sensorErr("hts221", "read calibration", err)
	}
	h.calib = parseHTS221Calibration(c)
	if h.calib.t1Out == h.calib.t0Out || h.calib.h1Out == h.calib.h0Out {
		return nil, sensorErr("hts221", "read calibration", fmt.Errorf("degenerate calibration % x", c))
	}
	return h, nil
}

// parseHTS221Calibration decodes registers 0x30-0x3F.
func parseHTS221Calibration(c []byte) hts221Calibration {
	msb := uint16(c[5])
	t0x8 := uint16(c[2]) | (msb&0x03)<<8
	t1x8 := uint16(c[3]) | (msb&0x0C)<<6
	return hts221Calibration{
		h0RH:  float64(c[0]) / 2,
		h1RH:  float64(c[1]) / 2,
		t0C:   float64(t0x8) / 8,
		t1C:   float64(t1x8) / 8,
		h0Out: float64(int16(binary.LittleEndian.Uint16(c[6:8]))),
		h1Out: float64(int16(binary.LittleEndian.Uint16(c[10:12]))),
		t0Out: float64(int16(binary.LittleEndian.Uint16(c[12:14]))),
		t1Out: float64(int16(binary.LittleEndian.Uint16(c[14:16]))),
	}
}

// Sense returns temperature in Celsius and relative humidity in percent.
func (h *HTS221) Sense() (float64, float64, error) {
	out := make([]byte, 4)
	if err := h.dev.Tx([]byte{regOutStart | autoIncrement}, out); err != nil {
		return 0, 0, sensorErr("hts221", "read output", err)
	}
	rawH := float64(int16(binary.LittleEndian.Uint16(out[0:2])))
	rawT := float64(int16(binary.LittleEndian.Uint16(out[2:4])))

	c := h.calib
	temp := c.t0C + (rawT-c.t0Out)*(c.t1C-c.t0C)/(c.t1Out-c.t0Out)
	hum := c.h0RH + (rawH-c.h0Out)*(c.h1RH-c.h0RH)/(c.h1Out-c.h0Out)
	return temp, clampPercent(hum), nil
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
