package control

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// DiscoveredDevice is the descriptor handed over by device discovery.
type DiscoveredDevice struct {
	Name      string
	Addresses []string
	Port      int
}

// Status mirrors the result payload of /api/status.
type Status struct {
	Phone     *Phone     `json:"phone"`
	Battery   *Battery   `json:"battery"`
	Hardware  *Hardware  `json:"hardware"`
	Sensors   []Sensor   `json:"sensors"`
	Recording *Recording `json:"recording"`
}

// Phone describes the companion device the headset is attached to.
type Phone struct {
	DeviceID     string `json:"device_id"`
	DeviceName   string `json:"device_name"`
	IP           string `json:"ip"`
	Memory       int64  `json:"memory"`
	MemoryState  string `json:"memory_state"`
	TimeEchoPort int    `json:"time_echo_port"`
}

// Battery reports the charge of the companion device.
type Battery struct {
	Level int    `json:"level"`
	State string `json:"state"`
}

// Hardware identifies the connected glasses.
type Hardware struct {
	Version           string `json:"version"`
	GlassesSerial     string `json:"glasses_serial"`
	WorldCameraSerial string `json:"world_camera_serial"`
	ModuleSerial      string `json:"module_serial"`
}

// Sensor describes one data stream exposed by the device.
type Sensor struct {
	Sensor      string `json:"sensor"`
	ConnType    string `json:"conn_type"`
	Connected   bool   `json:"connected"`
	IP          string `json:"ip"`
	Port        int    `json:"port"`
	Protocol    string `json:"protocol"`
	Params      string `json:"params"`
	StreamError bool   `json:"stream_error"`
}

// URL returns the stream URL of a connected sensor, or "" when unavailable.
func (s Sensor) URL() string {
	if !s.Connected || s.IP == "" || s.Port == 0 {
		return ""
	}
	protocol := s.Protocol
	if protocol == "" {
		protocol = "rtsp"
	}
	u := fmt.Sprintf("%s://%s", protocol, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
	if s.Params != "" {
		u += "/?" + s.Params
	}
	return u
}

// Recording actions reported by the device.
const (
	RecordingActionStart   = "START"
	RecordingActionStop    = "STOP"
	RecordingActionSave    = "SAVE"
	RecordingActionDiscard = "DISCARD"
	RecordingActionError   = "ERROR"
)

// Recording is the state of the device-side recording, if any.
type Recording struct {
	ID            string `json:"id"`
	Action        string `json:"action"`
	Message       string `json:"message"`
	RecDurationNS int64  `json:"rec_duration_ns"`
}

// Duration returns the recorded length so far.
func (r Recording) Duration() time.Duration {
	return time.Duration(r.RecDurationNS)
}

// IsRecording reports whether the device is currently capturing.
func (s Status) IsRecording() bool {
	return s.Recording != nil && strings.EqualFold(s.Recording.Action, RecordingActionStart)
}

// Sensor looks up a sensor by name and connection type.
func (s Status) Sensor(name, connType string) (Sensor, bool) {
	for _, sensor := range s.Sensors {
		if sensor.Sensor == name && sensor.ConnType == connType {
			return sensor, true
		}
	}
	return Sensor{}, false
}

// ConnectedSensors counts the sensors currently connected.
func (s Status) ConnectedSensors() int {
	n := 0
	for _, sensor := range s.Sensors {
		if sensor.Connected {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers never share pointers with the receiver.
func (s Status) Clone() Status {
	out := Status{}
	if s.Phone != nil {
		p := *s.Phone
		out.Phone = &p
	}
	if s.Battery != nil {
		b := *s.Battery
		out.Battery = &b
	}
	if s.Hardware != nil {
		h := *s.Hardware
		out.Hardware = &h
	}
	if s.Recording != nil {
		r := *s.Recording
		out.Recording = &r
	}
	if len(s.Sensors) > 0 {
		out.Sensors = make([]Sensor, len(s.Sensors))
		copy(out.Sensors, s.Sensors)
	}
	return out
}

// Component model names used by status updates.
const (
	ModelPhone     = "Phone"
	ModelBattery   = "Battery"
	ModelHardware  = "Hardware"
	ModelSensor    = "Sensor"
	ModelRecording = "Recording"
)

// Component is a single status update pushed by the device.
type Component struct {
	Model string          `json:"model"`
	Data  json.RawMessage `json:"data"`
}

// Apply folds a component update into a copy of the status.
func (s Status) Apply(c Component) (Status, error) {
	out := s.Clone()
	var err error
	switch c.Model {
	case ModelPhone:
		out.Phone = new(Phone)
		err = json.Unmarshal(c.Data, out.Phone)
	case ModelBattery:
		out.Battery = new(Battery)
		err = json.Unmarshal(c.Data, out.Battery)
	case ModelHardware:
		out.Hardware = new(Hardware)
		err = json.Unmarshal(c.Data, out.Hardware)
	case ModelRecording:
		if isJSONNull(c.Data) {
			out.Recording = nil
			return out, nil
		}
		out.Recording = new(Recording)
		err = json.Unmarshal(c.Data, out.Recording)
	case ModelSensor:
		var sensor Sensor
		if err = json.Unmarshal(c.Data, &sensor); err == nil {
			out.Sensors = upsertSensor(out.Sensors, sensor)
		}
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownComponent, c.Model)
	}
	if err != nil {
		return s, fmt.Errorf("decode %s component: %w", c.Model, err)
	}
	return out, nil
}

func upsertSensor(sensors []Sensor, sensor Sensor) []Sensor {
	for i := range sensors {
		if sensors[i].Sensor == sensor.Sensor && sensors[i].ConnType == sensor.ConnType {
			sensors[i] = sensor
			return sensors
		}
	}
	return append(sensors, sensor)
}

func isJSONNull(data json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(data))
	return trimmed == "" || trimmed == "null"
}
