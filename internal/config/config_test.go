package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Device.Address != defaultAddress || cfg.Device.Port != defaultPort {
		t.Fatalf("device = %s:%d, want %s:%d", cfg.Device.Address, cfg.Device.Port, defaultAddress, defaultPort)
	}
	if cfg.Device.PollInterval != defaultPollInterval || cfg.Device.RequestTimeout != 0 {
		t.Fatalf("poll = %v timeout = %v, want %v and 0", cfg.Device.PollInterval, cfg.Device.RequestTimeout, defaultPollInterval)
	}
	if !cfg.Device.StreamStatus {
		t.Fatalf("StreamStatus = false, want true by default")
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.Log.File != wantLog || cfg.Log.Level != "info" {
		t.Fatalf("log = %+v, want file %q level info", cfg.Log, wantLog)
	}
	if cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Fatalf("integrations enabled by default: mqtt=%v influx=%v", cfg.MQTT.Enabled, cfg.InfluxDB.Enabled)
	}
	if cfg.MQTT.TopicPrefix != "gazer" || cfg.MQTT.QoS != 1 {
		t.Fatalf("mqtt defaults = %+v", cfg.MQTT)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
[device]
address = "  10.0.0.5  "
port = 9090
request_timeout = 3
poll_interval = 5
stream_status = false

[log]
level = " DEBUG "
file = "  ~/logs/gazer.log  "

[mqtt]
enabled = true
broker = "tcp://broker:1883"
client_id = " lab-1 "
topic_prefix = "/lab/headsets/"
qos = 0

[influxdb]
enabled = true
url = "http://influx:8086"
token = " secret "
org = "lab"
bucket = "eyes"
batch_size = 10
flush_interval = 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Device.Address != "10.0.0.5" || cfg.Device.Port != 9090 {
		t.Fatalf("device = %+v", cfg.Device)
	}
	if cfg.Device.RequestTimeout != 3*time.Second || cfg.Device.PollInterval != 5*time.Second || cfg.Device.StreamStatus {
		t.Fatalf("device timings = %+v", cfg.Device)
	}
	if cfg.Log.Level != "debug" || !strings.HasPrefix(cfg.Log.File, home) {
		t.Fatalf("log = %+v, want debug under HOME %q", cfg.Log, home)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.ClientID != "lab-1" || cfg.MQTT.TopicPrefix != "lab/headsets" || cfg.MQTT.QoS != 0 {
		t.Fatalf("mqtt = %+v", cfg.MQTT)
	}
	if !cfg.InfluxDB.Enabled || cfg.InfluxDB.Token != "secret" || cfg.InfluxDB.Bucket != "eyes" ||
		cfg.InfluxDB.BatchSize != 10 || cfg.InfluxDB.FlushInterval != 2*time.Second {
		t.Fatalf("influxdb = %+v", cfg.InfluxDB)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
[device]
address = "   "
poll_interval = 0

[log]
file = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Device.Address != defaultAddress || cfg.Device.PollInterval != defaultPollInterval {
		t.Fatalf("device = %+v, want defaults", cfg.Device)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.Log.File != wantLog {
		t.Fatalf("Log.File = %q, want %q", cfg.Log.File, wantLog)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeConfig(t, `[device`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_RejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port zero", "[device]\nport = 0\n"},
		{"port too large", "[device]\nport = 70000\n"},
		{"qos", "[mqtt]\nqos = 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), "invalid config") {
				t.Fatalf("Load error = %v, want invalid config", err)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestDefaultPath_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got := DefaultPath()
	if !strings.HasPrefix(got, home) || !strings.HasSuffix(got, filepath.FromSlash("/.config/gazer/config.toml")) {
		t.Fatalf("DefaultPath = %q, want under %q ending in .config/gazer/config.toml", got, home)
	}
}
