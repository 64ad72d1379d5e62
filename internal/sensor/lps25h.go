package sensor

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// LPS25H pressure/temperature sensor on the Sense HAT.
const (
	lps25hAddr   = 0x5C
	lps25hWhoAmI = 0xBD

	// power on, 1 Hz
	lps25hCtrl1 = 0x90
)

type LPS25H struct {
	dev i2c.Dev
}

func NewLPS25H(bus i2c.Bus) (*LPS25H, error) {
	p := &LPS25H{dev: i2c.Dev{Bus: bus, Addr: lps25hAddr}}

	id := []byte{0}
	if err := p.dev.Tx([]byte{regWhoAmI}, id); err != nil {
		return nil, sensorErr("lps25h", "who am i", err)
	}
	if id[0] != lps25hWhoAmI {
		return nil, sensorErr("lps25h", "who am i", fmt.Errorf("unexpected id %#02x", id[0]))
	}
	if err := p.dev.Tx([]byte{regCtrl1, lps25hCtrl1}, nil); err != nil {
		return nil, sensorErr("lps25h", "power on", err)
	}
	return p, nil
}

// Sense returns temperature in Celsius and pressure in hPa.
func (p *LPS25H) Sense() (float64, float64, error) {
	out := make([]byte, 5)
	if err := p.dev.Tx([]byte{regOutStart | autoIncrement}, out); err != nil {
		return 0, 0, sensorErr("lps25h", "read output", err)
	}
	t, hpa := decodeLPS25H(out)
	return t, hpa, nil
}

func decodeLPS25H(out []byte) (float64, float64) {
	// 24-bit two's complement pressure, sign-extended through the top byte
	raw := int32(uint32(out[0])<<8|uint32(out[1])<<16|uint32(out[2])<<24) >> 8
	rawT := int16(binary.LittleEndian.Uint16(out[3:5]))

	pressure := float64(raw) / 4096
	temp := 42.5 + float64(rawT)/480
	return temp, pressure
}
