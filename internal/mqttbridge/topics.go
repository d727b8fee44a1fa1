package mqttbridge

import (
	"strings"
	"unicode"
)

// Availability payloads, retained on the availability topic.
const (
	PayloadOnline  = "online"
	PayloadOffline = "offline"
)

// Topics builds the topic tree for one headset:
//
//	<prefix>/<device>/availability
//	<prefix>/<device>/status
//	<prefix>/<device>/command
//	<prefix>/<device>/command/result
type Topics struct {
	Prefix string
	Device string
}

func (t Topics) base() string {
	return t.Prefix + "/" + t.Device
}

// Availability returns the retained online/offline topic, also used as LWT.
func (t Topics) Availability() string { return t.base() + "/availability" }

// Status returns the retained status topic.
func (t Topics) Status() string { return t.base() + "/status" }

// Command returns the topic the bridge listens on for recording commands.
func (t Topics) Command() string { return t.base() + "/command" }

// CommandResult returns the topic command outcomes are published to.
func (t Topics) CommandResult() string { return t.base() + "/command/result" }

// DeviceSegment turns a device name into a single topic level, falling back
// to the address when the name has nothing usable left.
func DeviceSegment(name, address string) string {
	if seg := sanitize(name); seg != "" {
		return seg
	}
	if seg := sanitize(address); seg != "" {
		return seg
	}
	return "headset"
}

// sanitize lowercases s and keeps letters, digits, '-' and '_'. Everything
// else, including the MQTT wildcards and separators, collapses to a single '-'.
func sanitize(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
