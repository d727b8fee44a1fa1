package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything gazer reads from config.toml.
type Config struct {
	Device   DeviceConfig
	Log      LogConfig
	MQTT     MQTTConfig
	InfluxDB InfluxDBConfig
}

// DeviceConfig locates the headset and controls how it is polled.
type DeviceConfig struct {
	Address        string
	Port           int
	RequestTimeout time.Duration // zero means no client timeout
	PollInterval   time.Duration
	StreamStatus   bool
}

// LogConfig controls gazer's own log file.
type LogConfig struct {
	Level string
	File  string
}

// MQTTConfig configures the optional MQTT bridge.
type MQTTConfig struct {
	Enabled     bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
}

// InfluxDBConfig configures the optional telemetry sink.
type InfluxDBConfig struct {
	Enabled       bool
	URL           string
	Token         string
	Org           string
	Bucket        string
	BatchSize     int
	FlushInterval time.Duration
}

const (
	defaultConfigPath    = "~/.config/gazer/config.toml"
	defaultAddress       = "pi.local"
	defaultPort          = 8080
	defaultPollInterval  = 2 * time.Second
	defaultLogLevel      = "info"
	defaultLogFile       = "~/.local/state/gazer/gazer.log"
	defaultBroker        = "tcp://127.0.0.1:1883"
	defaultTopicPrefix   = "gazer"
	defaultQoS           = 1
	defaultInfluxURL     = "http://127.0.0.1:8086"
	defaultBucket        = "gazer"
	defaultBatchSize     = 100
	defaultFlushInterval = 10 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			Address:      defaultAddress,
			Port:         defaultPort,
			PollInterval: defaultPollInterval,
			StreamStatus: true,
		},
		Log: LogConfig{
			Level: defaultLogLevel,
			File:  mustExpand(defaultLogFile),
		},
		MQTT: MQTTConfig{
			Broker:      defaultBroker,
			TopicPrefix: defaultTopicPrefix,
			QoS:         defaultQoS,
		},
		InfluxDB: InfluxDBConfig{
			URL:           defaultInfluxURL,
			Bucket:        defaultBucket,
			BatchSize:     defaultBatchSize,
			FlushInterval: defaultFlushInterval,
		},
	}
}

type rawConfig struct {
	Device struct {
		Address        string `toml:"address"`
		Port           *int   `toml:"port"`
		RequestTimeout int    `toml:"request_timeout"`
		PollInterval   int    `toml:"poll_interval"`
		StreamStatus   *bool  `toml:"stream_status"`
	} `toml:"device"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"log"`
	MQTT struct {
		Enabled     bool   `toml:"enabled"`
		Broker      string `toml:"broker"`
		ClientID    string `toml:"client_id"`
		Username    string `toml:"username"`
		Password    string `toml:"password"`
		TopicPrefix string `toml:"topic_prefix"`
		QoS         *int   `toml:"qos"`
	} `toml:"mqtt"`
	InfluxDB struct {
		Enabled       bool   `toml:"enabled"`
		URL           string `toml:"url"`
		Token         string `toml:"token"`
		Org           string `toml:"org"`
		Bucket        string `toml:"bucket"`
		BatchSize     int    `toml:"batch_size"`
		FlushInterval int    `toml:"flush_interval"`
	} `toml:"influxdb"`
}

// Load locates and parses the gazer config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.apply(raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	if addr := strings.TrimSpace(raw.Device.Address); addr != "" {
		c.Device.Address = addr
	}
	if raw.Device.Port != nil {
		if *raw.Device.Port <= 0 || *raw.Device.Port > 65535 {
			return fmt.Errorf("invalid config: device.port %d out of range", *raw.Device.Port)
		}
		c.Device.Port = *raw.Device.Port
	}
	if raw.Device.RequestTimeout > 0 {
		c.Device.RequestTimeout = time.Duration(raw.Device.RequestTimeout) * time.Second
	}
	if raw.Device.PollInterval > 0 {
		c.Device.PollInterval = time.Duration(raw.Device.PollInterval) * time.Second
	}
	if raw.Device.StreamStatus != nil {
		c.Device.StreamStatus = *raw.Device.StreamStatus
	}

	if level := strings.TrimSpace(raw.Log.Level); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
	if file := strings.TrimSpace(raw.Log.File); file != "" {
		c.Log.File = mustExpand(file)
	}

	c.MQTT.Enabled = raw.MQTT.Enabled
	if broker := strings.TrimSpace(raw.MQTT.Broker); broker != "" {
		c.MQTT.Broker = broker
	}
	c.MQTT.ClientID = strings.TrimSpace(raw.MQTT.ClientID)
	c.MQTT.Username = strings.TrimSpace(raw.MQTT.Username)
	c.MQTT.Password = raw.MQTT.Password
	if prefix := strings.Trim(strings.TrimSpace(raw.MQTT.TopicPrefix), "/"); prefix != "" {
		c.MQTT.TopicPrefix = prefix
	}
	if raw.MQTT.QoS != nil {
		if *raw.MQTT.QoS < 0 || *raw.MQTT.QoS > 2 {
			return fmt.Errorf("invalid config: mqtt.qos %d must be 0, 1 or 2", *raw.MQTT.QoS)
		}
		c.MQTT.QoS = byte(*raw.MQTT.QoS)
	}

	c.InfluxDB.Enabled = raw.InfluxDB.Enabled
	if u := strings.TrimSpace(raw.InfluxDB.URL); u != "" {
		c.InfluxDB.URL = u
	}
	c.InfluxDB.Token = strings.TrimSpace(raw.InfluxDB.Token)
	c.InfluxDB.Org = strings.TrimSpace(raw.InfluxDB.Org)
	if bucket := strings.TrimSpace(raw.InfluxDB.Bucket); bucket != "" {
		c.InfluxDB.Bucket = bucket
	}
	if raw.InfluxDB.BatchSize > 0 {
		c.InfluxDB.BatchSize = raw.InfluxDB.BatchSize
	}
	if raw.InfluxDB.FlushInterval > 0 {
		c.InfluxDB.FlushInterval = time.Duration(raw.InfluxDB.FlushInterval) * time.Second
	}
	return nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
