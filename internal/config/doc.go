// Package config provides user configuration management for gimbalctl.
//
// This package manages a YAML-based configuration file that stores named
// gimbal entries (address, coordinate encoding, stream URL) and application
// preferences. The configuration follows OS-specific conventions for storage
// location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/gimbalctl/config.yaml or $HOME/.config/gimbalctl/config.yaml
//   - macOS: $HOME/.config/gimbalctl/config.yaml
//   - Windows: %LOCALAPPDATA%\gimbalctl\config.yaml
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Add or update a gimbal entry
//	registry.Gimbals["roof"] = &config.Gimbal{
//	    Host:     "192.168.144.200",
//	    Port:     2000,
//	    Position: "float32",
//	}
//	registry.SetDefault("roof")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
