// Package config handles loading and parsing gazer's configuration file.
//
// # Overview
//
// gazer reads a single TOML file that says where the headset lives, how often
// to poll it, where to write logs, and whether the MQTT bridge and InfluxDB
// telemetry sink are enabled.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/gazer/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	[device]
//	address = "pi.local"
//	port = 8080
//	request_timeout = 0   # seconds, 0 = none
//	poll_interval = 2     # seconds
//	stream_status = true
//
//	[log]
//	level = "info"
//	file = "~/.local/state/gazer/gazer.log"
//
//	[mqtt]
//	enabled = false
//	broker = "tcp://127.0.0.1:1883"
//	topic_prefix = "gazer"
//	qos = 1
//
//	[influxdb]
//	enabled = false
//	url = "http://127.0.0.1:8086"
//	org = "lab"
//	bucket = "gazer"
//
// Every field is optional. Tilde expansion is performed for paths.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors ("parse config: ...")
//   - Out-of-range values such as a port outside 1..65535 ("invalid config: ...")
//
// Missing config files are NOT an error. gazer works against the default
// pi.local:8080 device without any configuration.
package config
