package config

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should contain "gimbalctl"
	if !strings.Contains(configDir, "gimbalctl") {
		t.Errorf("GetConfigDir() = %v, should contain 'gimbalctl'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with config.yaml
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	t.Logf("Config path: %s", configPath)
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Gimbals == nil {
		t.Error("NewRegistry().Gimbals should not be nil")
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.AutoDiscover != true {
		t.Error("NewRegistry().Preferences.AutoDiscover should be true by default")
	}

	if reg.Preferences.PollAttempts != 10 {
		t.Errorf("NewRegistry().Preferences.PollAttempts = %v, want 10", reg.Preferences.PollAttempts)
	}

	if reg.Preferences.PollTimeoutMS != 200 {
		t.Errorf("NewRegistry().Preferences.PollTimeoutMS = %v, want 200", reg.Preferences.PollTimeoutMS)
	}
}

func TestRegistryEnsureGimbal(t *testing.T) {
	reg := NewRegistry()

	// First call should create the entry
	g1 := reg.EnsureGimbal("roof")
	if g1 == nil {
		t.Fatal("EnsureGimbal() returned nil")
	}

	// Second call should return the same entry
	g2 := reg.EnsureGimbal("roof")
	if g1 != g2 {
		t.Error("EnsureGimbal() should return same instance for same name")
	}

	// Different name should create a new entry
	g3 := reg.EnsureGimbal("mast")
	if g1 == g3 {
		t.Error("EnsureGimbal() should create new instance for different name")
	}
}

func TestRegistryUpdateLastSeen(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.UpdateLastSeen("roof", "192.168.144.200", 2000)
	after := time.Now()

	g := reg.GetGimbal("roof")
	if g == nil {
		t.Fatal("Gimbal should exist after UpdateLastSeen()")
	}

	if g.Host != "192.168.144.200" {
		t.Errorf("Host = %v, want 192.168.144.200", g.Host)
	}

	if g.Port != 2000 {
		t.Errorf("Port = %v, want 2000", g.Port)
	}

	if g.LastSeen.Before(before) || g.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", g.LastSeen, before, after)
	}
}

func TestRegistrySetDefault(t *testing.T) {
	reg := NewRegistry()

	reg.SetDefault("roof")

	name, g := reg.DefaultGimbal()
	if name != "roof" {
		t.Errorf("DefaultGimbal() name = %v, want 'roof'", name)
	}
	if g == nil {
		t.Error("SetDefault() should create the entry")
	}
}

func TestRegistryDefaultGimbalUnset(t *testing.T) {
	reg := NewRegistry()

	name, g := reg.DefaultGimbal()
	if name != "" || g != nil {
		t.Errorf("DefaultGimbal() = (%q, %v), want empty", name, g)
	}
}

func TestParseRegistry(t *testing.T) {
	data := []byte(`# Test config
version: 1
default: roof
gimbals:
  roof:
    host: "192.168.144.200"
    port: 2000
    position: float32
    stream_url: "rtsp://192.168.144.200:554/stream0"
preferences:
  auto_discover: true
  discover_timeout: 10
  poll_attempts: 5
  poll_timeout_ms: 150
  verify_checksum: true
`)

	reg, err := parseRegistry(data)
	if err != nil {
		t.Fatalf("parseRegistry() error = %v", err)
	}

	g := reg.GetGimbal("roof")
	if g == nil {
		t.Fatal("Gimbal 'roof' should exist in parsed registry")
	}

	if g.Host != "192.168.144.200" || g.Port != 2000 {
		t.Errorf("parsed address = %v:%v, want 192.168.144.200:2000", g.Host, g.Port)
	}

	if g.Position != "float32" {
		t.Errorf("parsed position = %v, want 'float32'", g.Position)
	}

	if reg.Default != "roof" {
		t.Errorf("parsed default = %v, want 'roof'", reg.Default)
	}

	if !reg.Preferences.VerifyChecksum {
		t.Error("parsed preferences should have verify_checksum enabled")
	}

	if reg.Preferences.PollAttempts != 5 || reg.Preferences.PollTimeoutMS != 150 {
		t.Errorf("parsed poll prefs = %v/%v, want 5/150",
			reg.Preferences.PollAttempts, reg.Preferences.PollTimeoutMS)
	}
}

func TestParseRegistryBadVersion(t *testing.T) {
	_, err := parseRegistry([]byte("version: 2\n"))
	if err == nil {
		t.Error("parseRegistry() should reject unsupported versions")
	}
}

func TestParseRegistryDefaults(t *testing.T) {
	reg, err := parseRegistry([]byte("version: 1\n"))
	if err != nil {
		t.Fatalf("parseRegistry() error = %v", err)
	}

	if reg.Gimbals == nil {
		t.Error("parseRegistry() should initialize the Gimbals map")
	}
	if reg.Preferences == nil {
		t.Error("parseRegistry() should provide default preferences")
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.UpdateLastSeen("roof", "192.168.144.200", 2000)
	reg.EnsureGimbal("roof").Position = "float32"
	reg.SetDefault("roof")

	data, err := yaml.Marshal(reg)
	if err != nil {
		t.Fatalf("Failed to marshal registry: %v", err)
	}

	loaded, err := parseRegistry(data)
	if err != nil {
		t.Fatalf("Failed to parse marshaled registry: %v", err)
	}

	g := loaded.GetGimbal("roof")
	if g == nil {
		t.Fatal("Gimbal should exist in loaded registry")
	}

	if g.Host != "192.168.144.200" || g.Port != 2000 {
		t.Errorf("loaded address = %v:%v, want 192.168.144.200:2000", g.Host, g.Port)
	}

	if g.Position != "float32" {
		t.Errorf("loaded position = %v, want 'float32'", g.Position)
	}

	if loaded.Default != "roof" {
		t.Errorf("loaded default = %v, want 'roof'", loaded.Default)
	}
}

func TestPositionEncodings(t *testing.T) {
	for _, enc := range []string{"fixed", "float32"} {
		if _, exists := PositionEncodings[enc]; !exists {
			t.Errorf("PositionEncodings missing encoding: %s", enc)
		}
	}
}

// Benchmark tests

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkEnsureGimbal(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureGimbal("roof")
	}
}
