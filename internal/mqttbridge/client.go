package mqttbridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/gazer/internal/config"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultDisconnectQuiesce = 250 // milliseconds
	defaultKeepAlive         = 60 * time.Second
	maxReconnectInterval     = 30 * time.Second
)

// Connect dials the broker and starts a bridge for the headset identified by
// device (see DeviceSegment). Commands run against recorder with ctx as their
// parent context.
func Connect(ctx context.Context, cfg config.MQTTConfig, device string, recorder Recorder, logger zerolog.Logger) (*Bridge, error) {
	topics := Topics{Prefix: cfg.TopicPrefix, Device: device}
	b := newBridge(ctx, topics, cfg.QoS, recorder, logger)

	id := clientID(cfg.ClientID)
	opts := buildClientOptions(cfg, id)
	opts.SetWill(topics.Availability(), PayloadOffline, cfg.QoS, true)
	opts.SetOnConnectHandler(func(pahomqtt.Client) {
		if err := b.start(); err != nil {
			logger.Error().Err(err).Msg("mqtt bridge setup failed")
		}
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger.Warn().Err(err).Msg("mqtt connection lost")
	})
	opts.SetReconnectingHandler(func(pahomqtt.Client, *pahomqtt.ClientOptions) {
		logger.Debug().Msg("mqtt reconnecting")
	})

	client := pahomqtt.NewClient(opts)
	b.conn = &pahoTransport{client: client}

	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		client.Disconnect(0)
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	logger.Info().
		Str("broker", cfg.Broker).
		Str("client_id", id).
		Str("device", device).
		Msg("mqtt bridge connected")
	return b, nil
}

func buildClientOptions(cfg config.MQTTConfig, clientID string) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetMaxReconnectInterval(maxReconnectInterval)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)
	// Recording commands block on HTTP; let paho run handlers concurrently.
	opts.SetOrderMatters(false)
	return opts
}

// clientID returns the configured id or a fresh "gazer-<uuid>" one.
func clientID(configured string) string {
	if id := strings.TrimSpace(configured); id != "" {
		return id
	}
	return "gazer-" + uuid.NewString()
}

// pahoTransport adapts a paho client to the bridge's transport.
type pahoTransport struct {
	client pahomqtt.Client
}

func (p *pahoTransport) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}
	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

func (p *pahoTransport) Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error {
	token := p.client.Subscribe(topic, qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}

func (p *pahoTransport) Connected() bool {
	return p.client.IsConnected()
}

func (p *pahoTransport) Disconnect() {
	p.client.Disconnect(defaultDisconnectQuiesce)
}
