package config

import "time"

// Registry represents the entire user configuration file.
// This stores user-defined metadata for known gimbals and application
// preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Default     string             `yaml:"default,omitempty"` // Name of the default gimbal
	Gimbals     map[string]*Gimbal `yaml:"gimbals,omitempty"` // Keyed by user-chosen name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Gimbal represents user-defined metadata for a single gimbal.
// This is keyed by a user-chosen name in the Registry.
type Gimbal struct {
	Host     string    `yaml:"host"`                // Control IP address
	Port     int       `yaml:"port,omitempty"`      // Control port (default 2000)
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery/connection time

	// Position selects the telemetry coordinate encoding for this unit:
	// "fixed" (int32 x 1e-7 degrees, the documented format) or "float32"
	// (TX-series firmware). Empty means "fixed".
	Position string `yaml:"position,omitempty"`

	StreamURL string `yaml:"stream_url,omitempty"` // RTSP video stream, if known
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool `yaml:"auto_discover"`    // Enable automatic mDNS discovery on startup
	DiscoverTimeout int  `yaml:"discover_timeout"` // mDNS discovery timeout in seconds

	PollAttempts   int  `yaml:"poll_attempts"`    // Read attempts per telemetry poll
	PollTimeoutMS  int  `yaml:"poll_timeout_ms"`  // Per-attempt read deadline in milliseconds
	VerifyChecksum bool `yaml:"verify_checksum"`  // Validate checksums on received frames
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Gimbals: make(map[string]*Gimbal),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 10,
			PollAttempts:    10,
			PollTimeoutMS:   200,
		},
	}
}

// GetGimbal retrieves gimbal metadata by name.
// Returns nil if the gimbal doesn't exist in the registry.
func (r *Registry) GetGimbal(name string) *Gimbal {
	return r.Gimbals[name]
}

// EnsureGimbal ensures a gimbal entry exists in the registry.
// If the gimbal doesn't exist, creates a new entry with default values.
// Returns the entry (existing or newly created).
func (r *Registry) EnsureGimbal(name string) *Gimbal {
	if r.Gimbals == nil {
		r.Gimbals = make(map[string]*Gimbal)
	}

	if g, exists := r.Gimbals[name]; exists {
		return g
	}

	g := &Gimbal{}
	r.Gimbals[name] = g
	return g
}

// UpdateLastSeen updates the last seen timestamp and address for a gimbal.
func (r *Registry) UpdateLastSeen(name, host string, port int) {
	g := r.EnsureGimbal(name)
	g.LastSeen = time.Now()
	g.Host = host
	g.Port = port
}

// SetDefault marks a gimbal as the default target for commands that do
// not name one. The entry is created if it doesn't exist.
func (r *Registry) SetDefault(name string) {
	r.EnsureGimbal(name)
	r.Default = name
}

// DefaultGimbal returns the default gimbal entry and its name, or
// ("", nil) when no default is set.
func (r *Registry) DefaultGimbal() (string, *Gimbal) {
	if r.Default == "" {
		return "", nil
	}
	return r.Default, r.Gimbals[r.Default]
}

// PositionEncodings maps position encoding identifiers to human-readable
// names. This is used for display and validation purposes.
var PositionEncodings = map[string]string{
	"fixed":   "Fixed-point (int32 x 1e-7 degrees)",
	"float32": "IEEE 754 float32 degrees (TX-series)",
}
