// Package telemetry writes headset statuses to InfluxDB v2 so battery,
// storage and recording history can be graphed.
//
// Every status becomes one point in the "headset" measurement, tagged with
// device_id and device_name, with fields battery_level, memory_bytes,
// recording, recording_duration_s (only while recording) and
// sensors_connected.
//
// Writes go through the client's non-blocking, batching WriteAPI; a slow or
// unreachable server never stalls the poller. Asynchronous write errors are
// logged as warnings.
package telemetry
