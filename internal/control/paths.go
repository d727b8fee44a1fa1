package control

// APIPath is a fixed path segment of the device REST API.
type APIPath string

const (
	PathPrefix               APIPath = "/api"
	PathStatus               APIPath = "/status"
	PathRecordingStart       APIPath = "/recording:start"
	PathRecordingStopAndSave APIPath = "/recording:stop_and_save"
	PathRecordingCancel      APIPath = "/recording:cancel"
)

// Full returns the path joined with the API prefix.
func (p APIPath) Full() string {
	return string(PathPrefix) + string(p)
}
