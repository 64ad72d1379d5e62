// Package upload sends observations to Weather Underground using the legacy
// personal weather station protocol: a plain GET with the station
// credentials in the query string.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Observation is one boundary reading in the units the service expects.
type Observation struct {
	TempF    float64
	Humidity float64 // %rH
	BaromIn  float64 // inHg
}

// UploadError is any failed upload attempt. The station logs it and keeps
// running.
type UploadError struct {
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *UploadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upload: bad status code: %d (%s)", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("upload: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

type Client struct {
	endpoint   string
	stationID  string
	stationKey string
	httpClient *http.Client
	timeout    time.Duration
}

func New(endpoint, stationID, stationKey string, timeout time.Duration) (*Client, error) {
	if stationID == "" || stationKey == "" {
		return nil, errors.New("upload: station id and key are required")
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upload: invalid endpoint %q", endpoint)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		stationID:  stationID,
		stationKey: stationKey,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}, nil
}

// Query builds the updateraw parameters for obs.
func (c *Client) Query(obs Observation) url.Values {
	return url.Values{
		"action":   {"updateraw"},
		"ID":       {c.stationID},
		"PASSWORD": {c.stationKey},
		"dateutc":  {"now"},
		"tempf":    {strconv.FormatFloat(obs.TempF, 'f', -1, 64)},
		"humidity": {strconv.FormatFloat(obs.Humidity, 'f', 1, 64)},
		"baromin":  {strconv.FormatFloat(obs.BaromIn, 'f', 2, 64)},
	}
}

// Send makes exactly one attempt and returns the trimmed response body.
func (c *Client) Send(ctx context.Context, obs Observation) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+c.Query(obs).Encode(), nil)
	if err != nil {
		return "", &UploadError{Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UploadError{Err: redact(err, c.stationKey)}
	}
	defer resp.Body.Close()

	const bodyLengthLimit = 1_000_000
	body, err := io.ReadAll(io.LimitReader(resp.Body, bodyLengthLimit))
	if err != nil {
		return "", &UploadError{StatusCode: resp.StatusCode, Err: err}
	}
	text := strings.TrimSpace(string(body))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UploadError{StatusCode: resp.StatusCode, Body: text}
	}
	return text, nil
}

// redact strips the station key out of transport errors, which quote the
// full request URL.
func redact(err error, key string) error {
	msg := err.Error()
	escaped := url.QueryEscape(key)
	if !strings.Contains(msg, escaped) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(msg, escaped, "***REDACTED***"))
}
