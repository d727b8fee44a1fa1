// Package mqttbridge mirrors a headset onto an MQTT broker using
// eclipse/paho.mqtt.golang.
//
// # Topics
//
// All topics live under <prefix>/<device>, where prefix comes from
// [mqtt].topic_prefix and device from DeviceSegment:
//
//	<prefix>/<device>/availability    "online" / "offline", retained, also the LWT
//	<prefix>/<device>/status          last status as JSON, retained
//	<prefix>/<device>/command         recording commands (subscribed)
//	<prefix>/<device>/command/result  one CommandResult per command
//
// # Commands
//
// A command payload is either the bare name or a JSON object:
//
//	start
//	stop_and_save        (alias: stop)
//	{"command": "cancel", "id": "req-17"}
//
// The optional id is echoed in the result; otherwise a UUID is generated.
// When the device rejects a command, the result carries its HTTP status code
// and message.
//
// # Connection Handling
//
// paho reconnects on its own. Availability and the command subscription are
// re-established from the on-connect handler, so a broker restart is
// transparent. Close publishes "offline" before disconnecting; an unexpected
// drop leaves the broker to publish the LWT.
package mqttbridge
