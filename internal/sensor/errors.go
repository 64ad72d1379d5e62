package sensor

import "fmt"

// SensorError is returned for any failed hardware or OS temperature query.
// The station treats it as fatal.
type SensorError struct {
	Device string
	Op     string
	Err    error
}

func (e *SensorError) Error() string {
	return fmt.Sprintf("sensor %s: %s: %v", e.Device, e.Op, e.Err)
}

func (e *SensorError) Unwrap() error {
	return e.Err
}

func sensorErr(device, op string, err error) error {
	return &SensorError{Device: device, Op: op, Err: err}
}
