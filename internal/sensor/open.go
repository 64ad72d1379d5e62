package sensor

import (
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// OpenSenseHat initializes the host drivers and probes both Sense HAT chips
// on the named I2C bus ("" picks the default, usually /dev/i2c-1).
func OpenSenseHat(busName string) (*SenseHat, error) {
	if _, err := host.Init(); err != nil {
		return nil, sensorErr("host", "init", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, sensorErr("i2c", "open "+busName, err)
	}
	hat, err := NewSenseHat(bus)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return hat, nil
}

func OpenBME280(busName string, addr uint16) (*BME280, error) {
	if _, err := host.Init(); err != nil {
		return nil, sensorErr("host", "init", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, sensorErr("i2c", "open "+busName, err)
	}
	dev, err := NewBME280(bus, addr)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return dev, nil
}
