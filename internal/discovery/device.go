package discovery

import (
	"fmt"
	"time"
)

// Device represents a discovered gimbal on the network
type Device struct {
	// Model is the unit model parsed from the hostname (e.g., "KTG-TT30")
	Model string

	// Hostname is the mDNS hostname (e.g., "KTG-TT30.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.144.200")
	IP string

	// StreamPort is the advertised RTSP port (typically 554)
	StreamPort int

	// Metadata contains additional mDNS TXT record data
	// Common fields: "path=/stream0"
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("Gimbal %s (%s) at %s:%d", d.Model, d.Hostname, d.IP, d.StreamPort)
}

// StreamURL returns the RTSP URL for the device's video stream
func (d *Device) StreamURL() string {
	path := d.GetMetadata("path")
	if path == "" {
		path = "/stream0"
	}
	return fmt.Sprintf("rtsp://%s:%d%s", d.IP, d.StreamPort, path)
}

// ControlAddr returns the TCP control address for the device
func (d *Device) ControlAddr() string {
	return fmt.Sprintf("%s:%d", d.IP, ControlPort)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
