package sensor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const DefaultThermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

// SysfsThermometer reads a thermal zone reported in millidegrees Celsius.
type SysfsThermometer struct {
	Path string
}

func (s SysfsThermometer) CPUTemperature(context.Context) (float64, error) {
	path := s.Path
	if path == "" {
		path = DefaultThermalZonePath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, sensorErr("cpu", "read "+path, err)
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, sensorErr("cpu", "parse "+path, err)
	}
	return milli / 1000, nil
}

// VcgencmdThermometer asks the VideoCore firmware via `vcgencmd measure_temp`.
type VcgencmdThermometer struct {
	Path string
}

func (v VcgencmdThermometer) CPUTemperature(ctx context.Context) (float64, error) {
	path := v.Path
	if path == "" {
		path = "vcgencmd"
	}
	const vcgencmdTimeout = 3 * time.Second
	ctx, cancel := context.WithTimeout(ctx, vcgencmdTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "measure_temp").Output()
	if err != nil {
		return 0, sensorErr("cpu", "vcgencmd measure_temp", err)
	}
	t, err := parseMeasureTemp(string(out))
	if err != nil {
		return 0, sensorErr("cpu", "vcgencmd measure_temp", err)
	}
	return t, nil
}

// parseMeasureTemp parses output such as "temp=48.3'C".
func parseMeasureTemp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, ok := strings.CutPrefix(s, "temp=")
	if !ok {
		return 0, fmt.Errorf("unexpected output %q", s)
	}
	v = strings.TrimSuffix(v, "'C")
	return strconv.ParseFloat(v, 64)
}
