package discovery

import (
	"testing"
	"time"
)

func TestDevice_String(t *testing.T) {
	device := &Device{
		Model:      "KTG-TT30",
		Hostname:   "KTG-TT30.local",
		IP:         "192.168.144.200",
		StreamPort: 554,
	}

	expected := "Gimbal KTG-TT30 (KTG-TT30.local) at 192.168.144.200:554"
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDevice_StreamURL(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{
			name: "default stream path",
			device: &Device{
				IP:         "192.168.144.200",
				StreamPort: 554,
			},
			expected: "rtsp://192.168.144.200:554/stream0",
		},
		{
			name: "advertised stream path",
			device: &Device{
				IP:         "10.0.0.5",
				StreamPort: 8554,
				Metadata:   map[string]string{"path": "/live/main"},
			},
			expected: "rtsp://10.0.0.5:8554/live/main",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.StreamURL(); got != tt.expected {
				t.Errorf("Device.StreamURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDevice_ControlAddr(t *testing.T) {
	device := &Device{
		IP:         "192.168.144.200",
		StreamPort: 554,
	}

	if got := device.ControlAddr(); got != "192.168.144.200:2000" {
		t.Errorf("Device.ControlAddr() = %v, want 192.168.144.200:2000", got)
	}
}

func TestDevice_GetMetadata(t *testing.T) {
	device := &Device{
		Metadata: map[string]string{
			"path":    "/stream0",
			"version": "1.0",
		},
	}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "existing key",
			key:      "path",
			expected: "/stream0",
		},
		{
			name:     "another existing key",
			key:      "version",
			expected: "1.0",
		},
		{
			name:     "non-existent key",
			key:      "missing",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := device.GetMetadata(tt.key); got != tt.expected {
				t.Errorf("Device.GetMetadata(%v) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestDevice_GetMetadata_NilMap(t *testing.T) {
	device := &Device{
		Metadata: nil,
	}

	if got := device.GetMetadata("anything"); got != "" {
		t.Errorf("Device.GetMetadata() with nil map = %v, want empty string", got)
	}
}

func TestDevice_DiscoveredAt(t *testing.T) {
	now := time.Now()
	device := &Device{
		Model:        "KTG-TT30",
		DiscoveredAt: now,
	}

	if device.DiscoveredAt != now {
		t.Errorf("Device.DiscoveredAt = %v, want %v", device.DiscoveredAt, now)
	}
}
