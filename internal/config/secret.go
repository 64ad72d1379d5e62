package config

import "log/slog"

const redactedPlaceholder = "***REDACTED***"

// SecretString keeps the station key out of fmt and slog output.
// Use Unmask when the raw value is genuinely needed.
type SecretString string

func (s SecretString) String() string {
	return redactedPlaceholder
}

func (s SecretString) LogValue() slog.Value {
	return slog.StringValue(redactedPlaceholder)
}

func (s SecretString) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redactedPlaceholder + `"`), nil
}

func (s SecretString) Unmask() string {
	return string(s)
}
