package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultUploadURL is the Weather Underground PWS upload endpoint.
const DefaultUploadURL = "https://weatherstation.wunderground.com/weatherstation/updateweatherstation.php"

type Config struct {
	AppEnv       string     `envconfig:"APP_ENV" default:"dev" validate:"oneof=dev prod"`
	LogLevelName string     `envconfig:"LOG_LEVEL" default:"info"`
	LogLevel     slog.Level `ignored:"true"`

	StationID  string       `envconfig:"WU_STATION_ID" validate:"required"`
	StationKey SecretString `envconfig:"WU_STATION_KEY" validate:"required"`

	// MeasurementInterval is in minutes.
	MeasurementInterval int           `envconfig:"MEASUREMENT_INTERVAL" default:"10" validate:"gt=0,lte=60"`
	PollInterval        time.Duration `envconfig:"POLL_INTERVAL" default:"1s" validate:"gt=0"`
	CompensationFactor  float64       `envconfig:"COMPENSATION_FACTOR" default:"1.5" validate:"gt=0"`

	UploadEnabled bool          `envconfig:"WEATHER_UPLOAD" default:"true"`
	UploadURL     string        `envconfig:"WEATHER_UPLOAD_URL" validate:"omitempty,url"`
	UploadTimeout time.Duration `envconfig:"UPLOAD_TIMEOUT" default:"10s" validate:"gt=0"`

	SensorDriver   string `envconfig:"SENSOR_DRIVER" default:"sensehat" validate:"oneof=sensehat bme280 simulated"`
	I2CBus         string `envconfig:"I2C_BUS"`
	BME280Address  uint16 `envconfig:"BME280_ADDRESS" default:"0x76"`
	CPUTempSource  string `envconfig:"CPU_TEMP_SOURCE" default:"sysfs" validate:"oneof=sysfs vcgencmd"`
	CPUThermalPath string `envconfig:"CPU_THERMAL_PATH" default:"/sys/class/thermal/thermal_zone0/temp"`

	DisplayDriver string `envconfig:"DISPLAY_DRIVER" default:"sensehat" validate:"oneof=sensehat terminal"`

	// MQTT mirroring is off while MQTTBroker is empty.
	MQTTBroker   string `envconfig:"MQTT_BROKER"`
	MQTTPort     int    `envconfig:"MQTT_PORT" default:"1883" validate:"gt=0,lte=65535"`
	MQTTClientID string `envconfig:"MQTT_CLIENT_ID" default:"weatherhat"`
}

// ConfigErrorType classifies why LoadFromEnv failed.
type ConfigErrorType string

const (
	ErrParsing    ConfigErrorType = "parsing"
	ErrValidation ConfigErrorType = "validation"
)

// ConfigError is returned by LoadFromEnv for any missing or invalid setting.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadFromEnv reads the process environment, after merging a .env file from
// the working directory when one exists. Variables already set win over .env.
func LoadFromEnv() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, &ConfigError{Type: ErrParsing, Message: "failed to process environment", Err: err}
	}

	cfg.AppEnv = strings.TrimSpace(cfg.AppEnv)
	cfg.StationID = strings.TrimSpace(cfg.StationID)
	cfg.StationKey = SecretString(strings.TrimSpace(cfg.StationKey.Unmask()))
	if cfg.UploadURL = strings.TrimSpace(cfg.UploadURL); cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}

	level, err := parseLogLevel(cfg.LogLevelName)
	if err != nil {
		return Config{}, &ConfigError{Type: ErrParsing, Message: "invalid LOG_LEVEL", Err: err}
	}
	cfg.LogLevel = level

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, &ConfigError{Type: ErrValidation, Message: describeValidation(err), Err: err}
	}
	return cfg, nil
}

// MQTTEnabled reports whether boundary observations are mirrored to a broker.
func (c Config) MQTTEnabled() bool {
	return c.MQTTBroker != ""
}

func describeValidation(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return "configuration validation failed"
	}
	switch ves[0].Field() {
	case "StationID", "StationKey":
		return "missing values from the Weather Underground configuration"
	case "MeasurementInterval":
		return "MEASUREMENT_INTERVAL must be greater than 0 and at most 60"
	}
	return fmt.Sprintf("invalid %s", ves[0].Field())
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
