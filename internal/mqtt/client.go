// Package mqtt mirrors boundary observations to an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"weatherhat/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

var ErrNotConnected = errors.New("mqtt client not connected")

type Client struct {
	client    mqtt.Client
	stationID string
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// Telemetry is the JSON payload published on stations/<id>/telemetry.
type Telemetry struct {
	StationID    string    `json:"station_id"`
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperature_c"`
	TemperatureF float64   `json:"temperature_f"`
	Humidity     float64   `json:"humidity_pct"`
	Pressure     float64   `json:"pressure_hpa"`
	Trend        string    `json:"trend,omitempty"`
}

// PublishError is returned for any failed publish. It never stops the
// station loop.
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("mqtt publish %s: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func TelemetryTopic(stationID string) string {
	return fmt.Sprintf("stations/%s/telemetry", stationID)
}

func NewClient(cfg config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.MQTTBroker == "" {
		return nil, errors.New("mqtt: broker not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		stationID: cfg.StationID,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		c.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	c.client = mqtt.NewClient(opts)
	return c, nil
}

// Connect waits for the initial connection. With ConnectRetry enabled paho
// keeps retrying in the background, so a ctx timeout here only bounds how
// long startup waits.
func (c *Client) Connect(ctx context.Context) error {
	select {
	case <-c.stopCh:
		return errors.New("client stopped")
	default:
	}

	if c.IsConnected() {
		return nil
	}

	token := c.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			return errors.New("client stopped")
		default:
		}
	}
}

// PublishTelemetry publishes t at QoS 1. StationID and Timestamp are filled
// in when unset.
func (c *Client) PublishTelemetry(t Telemetry) error {
	if t.StationID == "" {
		t.StationID = c.stationID
	}
	topic := TelemetryTopic(t.StationID)

	if !c.IsConnected() {
		return &PublishError{Topic: topic, Err: ErrNotConnected}
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(t)
	if err != nil {
		return &PublishError{Topic: topic, Err: fmt.Errorf("marshal telemetry: %w", err)}
	}

	token := c.client.Publish(topic, 1, false, data)
	if !token.WaitTimeout(publishTimeout) {
		return &PublishError{Topic: topic, Err: errors.New("publish timeout")}
	}
	if err := token.Error(); err != nil {
		return &PublishError{Topic: topic, Err: err}
	}

	c.logger.Debug("published telemetry", "topic", topic, "bytes", len(data))
	return nil
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	return connected && c.client.IsConnected()
}

// Disconnect is idempotent. After it, Connect returns "client stopped".
func (c *Client) Disconnect() {
	c.stopOnce.Do(func() { close(c.stopCh) })

	if c.client != nil {
		c.client.Disconnect(250)
	}

	c.setConnected(false)
	c.logger.Info("mqtt disconnected")
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
