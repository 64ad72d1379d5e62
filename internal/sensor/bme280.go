package sensor

import (
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

type envSensor interface {
	Sense(e *physic.Env) error
	Halt() error
}

// BME280 serves a single Bosch BME280 as both temperature sources.
type BME280 struct {
	dev envSensor
	bus i2c.BusCloser
}

func NewBME280(bus i2c.BusCloser, addr uint16) (*BME280, error) {
	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, sensorErr("bme280", "init", err)
	}
	return &BME280{dev: dev, bus: bus}, nil
}

func (b *BME280) sense() (physic.Env, error) {
	var env physic.Env
	if err := b.dev.Sense(&env); err != nil {
		return physic.Env{}, sensorErr("bme280", "sense", err)
	}
	return env, nil
}

func (b *BME280) TemperatureFromHumidity() (float64, error) {
	env, err := b.sense()
	return env.Temperature.Celsius(), err
}

func (b *BME280) TemperatureFromPressure() (float64, error) {
	return b.TemperatureFromHumidity()
}

func (b *BME280) Humidity() (float64, error) {
	env, err := b.sense()
	return float64(env.Humidity) / float64(physic.PercentRH), err
}

func (b *BME280) Pressure() (float64, error) {
	env, err := b.sense()
	return float64(env.Pressure) / float64(100*physic.Pascal), err
}

func (b *BME280) Close() error {
	err := b.dev.Halt()
	if b.bus != nil {
		if cerr := b.bus.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
