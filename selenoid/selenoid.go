// Package selenoid interacts with a Selenoid browser testing environment.
package selenoid

import (
	"encoding/json"
	"fmt"
)

// CapabilitiesKey is the key in the top-level Capabilities map under which
// Selenoid expects its options to be set.
const CapabilitiesKey = "selenoid:options"

// Addr returns the URL to use for driving a remote web browser on the given
// host. The credentials may be empty when the hub does not require
// authentication.
func Addr(userName, accessKey, host string) string {
	if userName == "" {
		return fmt.Sprintf("http://%s/wd/hub", host)
	}
	return fmt.Sprintf("http://%s:%s@%s/wd/hub", userName, accessKey, host)
}

// Capabilities are the options to provide to the Selenoid infrastructure for
// each test.
//
// See the following URL for more details of each configuration parameter:
// https://aerokube.com/selenoid/latest/#_special_capabilities
type Capabilities struct {
	// Used to record test names for jobs and videos.
	Name string `json:"name,omitempty"`
	// The maximum duration of an idle session, expressed as a Go duration
	// string such as "1m30s". The session is closed when it elapses.
	SessionTimeout string `json:"sessionTimeout,omitempty"`
	// Environment variables, in "NAME=value" form, to set in the browser
	// container.
	Env []string `json:"env,omitempty"`
	// Additional /etc/hosts entries, in "hostname:ip" form, for the browser
	// container.
	HostsEntries []string `json:"hostsEntries,omitempty"`
	// The DNS servers to use inside the browser container.
	DNSServers []string `json:"dnsServers,omitempty"`
	// Links the named application containers into the browser container's
	// network so that the browser can reach them by name.
	ApplicationContainers []string `json:"applicationContainers,omitempty"`
	// User-defined labels to apply to the browser container.
	Labels map[string]string `json:"labels,omitempty"`

	// Set to true to allow interacting with the running browser over VNC.
	EnableVNC bool `json:"enableVNC,omitempty"`
	// The screen resolution to use during the test session, in
	// "WxHxD" form, e.g. "1920x1080x24".
	ScreenResolution string `json:"screenResolution,omitempty"`

	// Set to true to record a video of the test session.
	EnableVideo bool `json:"enableVideo,omitempty"`
	// The file name under which to save the recorded video.
	VideoName string `json:"videoName,omitempty"`
	// The resolution of the recorded video, in "WxH" form, e.g. "1024x768".
	VideoScreenSize string `json:"videoScreenSize,omitempty"`
	// The frame rate of the recorded video, in frames per second.
	VideoFrameRate uint `json:"videoFrameRate,omitempty"`

	// Set to true to save the session log to a file.
	EnableLog bool `json:"enableLog,omitempty"`
	// The file name under which to save the session log.
	LogName string `json:"logName,omitempty"`

	// The timezone to configure in the browser container, e.g.
	// "Europe/Moscow".
	TimeZone string `json:"timeZone,omitempty"`
	// The hostname to set inside the browser container.
	ContainerHostname string `json:"containerHostname,omitempty"`
}

// ToMap returns the capabilities in a key/value structure.
func (c *Capabilities) ToMap() (map[string]interface{}, error) {
	buf, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	m := make(map[string]interface{})
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, err
	}
	return m, nil
}
