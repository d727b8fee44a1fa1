package telemetry

import "errors"

var (
	// ErrDisabled is returned by Connect when the InfluxDB sink is switched off.
	ErrDisabled = errors.New("influxdb: disabled in configuration")

	// ErrConnectionFailed indicates the initial ping failed.
	ErrConnectionFailed = errors.New("influxdb: connection failed")
)
