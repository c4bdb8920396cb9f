package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/airgava/gimbalctl/internal/config"
	"github.com/airgava/gimbalctl/internal/discovery"
	"github.com/airgava/gimbalctl/internal/gimbal"
	"github.com/airgava/gimbalctl/internal/protocol"
	"github.com/airgava/gimbalctl/internal/relay"
	"github.com/airgava/gimbalctl/internal/tui"
)

// Common command flags
var (
	gimbalHost   string
	gimbalPort   int
	gimbalName   string
	dialTimeout  int
	verifyCksum  bool
	positionEnc  string
	outputFormat string

	scanTimeout int
	scanSave    string

	pollAttempts int
	relayAddr    string
)

func init() {
	// Common flags for gimbal commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&gimbalHost, "host", "", "Gimbal IP address (default from config, else "+gimbal.DefaultHost+")")
	rootCmd.PersistentFlags().IntVar(&gimbalPort, "port", 0, "Gimbal TCP control port (default 2000)")
	rootCmd.PersistentFlags().StringVar(&gimbalName, "gimbal", "", "Named gimbal entry from the config file")
	rootCmd.PersistentFlags().IntVar(&dialTimeout, "timeout", 10, "Connect timeout in seconds")
	rootCmd.PersistentFlags().BoolVar(&verifyCksum, "verify-checksum", false, "Validate checksums on received frames")
	rootCmd.PersistentFlags().StringVar(&positionEnc, "position", "", "Telemetry coordinate encoding (fixed, float32)")

	// Add subcommands directly to root
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(telemetryCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(relayCmd)
	rootCmd.AddCommand(configCmd)
}

// target is the resolved connection target for a command invocation.
type target struct {
	host    string
	port    int
	decoder protocol.Decoder
	prefs   *config.Preferences
}

func (t target) addr() string {
	return fmt.Sprintf("%s:%d", t.host, t.port)
}

// resolveTarget merges flags, the named config entry, and defaults.
// Precedence: explicit flags, then the --gimbal entry (or the config
// default), then the factory address.
func resolveTarget() (target, error) {
	t := target{
		host:  gimbalHost,
		port:  gimbalPort,
		prefs: config.NewRegistry().Preferences,
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return t, err
	}
	if reg.Preferences != nil {
		t.prefs = reg.Preferences
	}

	name := gimbalName
	if name == "" {
		name = reg.Default
	}
	var entry *config.Gimbal
	if name != "" {
		entry = reg.GetGimbal(name)
		if entry == nil && gimbalName != "" {
			return t, fmt.Errorf("unknown gimbal %q (add it with 'gimbalctl config add')", gimbalName)
		}
	}

	if t.host == "" && entry != nil {
		t.host = entry.Host
	}
	if t.host == "" {
		t.host = gimbal.DefaultHost
	}
	if t.port == 0 && entry != nil {
		t.port = entry.Port
	}
	if t.port == 0 {
		t.port = gimbal.DefaultPort
	}

	enc := positionEnc
	if enc == "" && entry != nil {
		enc = entry.Position
	}
	switch enc {
	case "", "fixed":
		t.decoder.Position = protocol.PositionFixedPoint
	case "float32":
		t.decoder.Position = protocol.PositionFloat32
	default:
		return t, fmt.Errorf("unknown position encoding %q (use fixed or float32)", enc)
	}

	t.decoder.VerifyChecksum = verifyCksum || t.prefs.VerifyChecksum

	return t, nil
}

// connect resolves the target and opens the control session.
func connect() (*gimbal.Session, target, error) {
	t, err := resolveTarget()
	if err != nil {
		return nil, t, err
	}

	s := gimbal.New(t.host, t.port)
	s.ConnectTimeout = time.Duration(dialTimeout) * time.Second
	s.Decoder = t.decoder
	if t.prefs.PollTimeoutMS > 0 {
		s.PollTimeout = time.Duration(t.prefs.PollTimeoutMS) * time.Millisecond
	}

	if err := s.Connect(); err != nil {
		return nil, t, err
	}
	return s, t, nil
}

// scanCmd discovers gimbals on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for gimbals on the network",
	Long: `Scan for gimbals using mDNS/DNS-SD discovery.

The camera module advertises its RTSP video stream over mDNS; this
command lists discovered units with their control address and stream
URL. The TCP control port itself is fixed and not advertised.`,
	Example: `  # Scan for 10 seconds (default)
  gimbalctl scan

  # Quick 3-second scan
  gimbalctl scan --scan-timeout 3

  # Save the first result as a named config entry
  gimbalctl scan --save roof`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 10, "Scan timeout in seconds")
	scanCmd.Flags().StringVar(&scanSave, "save", "", "Save the first discovered gimbal under this config name")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for gimbals (timeout: %ds)...\n\n", scanTimeout)

	devices, err := discovery.ScanForDevices(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No gimbals found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the gimbal is powered on and on the same network segment")
		fmt.Println("  - Check that your firewall allows mDNS (UDP 5353)")
		fmt.Println("  - Try increasing --scan-timeout for slower networks")
		fmt.Println("  - Use --host to specify the address manually if discovery fails")
		return nil
	}

	fmt.Printf("Found %d gimbal(s):\n\n", len(devices))

	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device.Hostname)
		fmt.Printf("   Model:   %s\n", device.Model)
		fmt.Printf("   Control: %s\n", device.ControlAddr())
		fmt.Printf("   Stream:  %s\n", device.StreamURL())
		fmt.Println()
	}

	if scanSave != "" {
		device := devices[0]
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		reg.UpdateLastSeen(scanSave, device.IP, discovery.ControlPort)
		reg.EnsureGimbal(scanSave).StreamURL = device.StreamURL()
		if reg.Default == "" {
			reg.Default = scanSave
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved %s as %q\n", device.IP, scanSave)
	}

	fmt.Println("Use 'gimbalctl info' to query the firmware version")
	fmt.Println("Use 'gimbalctl watch' for the live dashboard")

	return nil
}

// infoCmd queries the firmware version
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show gimbal firmware information",
	Long:  `Connect to the gimbal and query its firmware version and build date.`,
	Example: `  # Query the configured gimbal
  gimbalctl info

  # Query a specific address
  gimbalctl info --host 192.168.144.200`,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, t, err := connect()
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("Querying %s...\n\n", t.addr())

	v, err := s.QueryVersion()
	if err != nil {
		return fmt.Errorf("version query failed: %w", err)
	}

	fmt.Printf("Firmware:   V%d.%d.%d\n", v.Major, v.Minor, v.Patch)
	fmt.Printf("Build date: %s\n", v.BuildDate())

	return nil
}

// telemetryCmd polls and prints telemetry frames
var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Poll and print gimbal telemetry",
	Long: `Poll the gimbal for its periodic telemetry broadcast and print the
decoded frame. The gimbal emits telemetry spontaneously; this command
listens for a bounded number of read attempts and reports the last
frame received.`,
	Example: `  # Print one decoded frame
  gimbalctl telemetry

  # JSON output for scripting
  gimbalctl telemetry --format json

  # Wait longer on a quiet link
  gimbalctl telemetry --attempts 50`,
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().IntVar(&pollAttempts, "attempts", 0, "Read attempts before giving up (default from config)")
	telemetryCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	s, t, err := connect()
	if err != nil {
		return err
	}
	defer s.Close()

	attempts := pollAttempts
	if attempts <= 0 {
		attempts = t.prefs.PollAttempts
	}

	tel, err := s.PollTelemetry(nil, attempts)
	if err != nil {
		return fmt.Errorf("telemetry poll failed: %w", err)
	}

	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(relay.NewStatusMessage(tel), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	default:
		printTelemetry(tel)
	}

	return nil
}

func printTelemetry(tel *protocol.Telemetry) {
	fmt.Printf("Attitude:\n")
	fmt.Printf("  Yaw:     %8.2f°\n", tel.Yaw)
	fmt.Printf("  Pitch:   %8.2f°\n", tel.Pitch)
	fmt.Printf("  Roll:    %8.2f°\n", tel.Roll)
	fmt.Printf("  Z axis:  %8.2f°\n", tel.ZAxisAngle)
	fmt.Printf("Camera:\n")
	fmt.Printf("  EO zoom: %7.1fx\n", tel.EOZoom)
	fmt.Printf("  IR zoom: %7.1fx\n", tel.IRZoom)
	fmt.Printf("Target:\n")
	fmt.Printf("  Ranging:   %v\n", tel.RangingEnabled)
	fmt.Printf("  Distance:  %7.1f m\n", tel.Distance)
	fmt.Printf("  Height:    %7.1f m\n", tel.Height)
	fmt.Printf("  Latitude:  %11.7f\n", tel.Latitude)
	fmt.Printf("  Longitude: %11.7f\n", tel.Longitude)
	fmt.Printf("Self-test: ")
	if tel.SelfTestPassed {
		fmt.Println("passed")
	} else {
		fmt.Println("FAILED")
	}
}

// watchCmd launches the interactive dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Launch the live telemetry dashboard",
	Long: `Launch an interactive dashboard showing live telemetry with keyboard
gimbal control.

Keys:
  arrows     drive the gimbal
  space      stop movement
  c          center
  p          take a photo
  r          toggle recording
  z / x      zoom in / out
  l          toggle laser ranging
  q          quit (stops movement first)`,
	Example: `  # Watch the configured gimbal
  gimbalctl watch

  # Watch a specific address
  gimbalctl watch --host 192.168.144.200`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch requires an interactive terminal (use 'gimbalctl telemetry' for scripting)")
	}

	s, t, err := connect()
	if err != nil {
		return err
	}
	defer s.Close()

	p := tea.NewProgram(tui.NewModel(s, t.addr()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}

	return nil
}

// relayCmd bridges telemetry to WebSocket subscribers
var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Publish telemetry over WebSocket",
	Long: `Connect to the gimbal and republish its telemetry stream as JSON over
WebSocket. Subscribers (ground-station dashboards, mapping overlays,
loggers) connect to ws://<listen-addr>/telemetry.

The relay runs until interrupted.`,
	Example: `  # Relay on the default port
  gimbalctl relay

  # Custom listen address
  gimbalctl relay --listen :9000`,
	RunE: runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&relayAddr, "listen", ":8765", "WebSocket listen address")
}

func runRelay(cmd *cobra.Command, args []string) error {
	s, t, err := connect()
	if err != nil {
		return err
	}
	defer s.Close()

	srv := relay.NewServer(relayAddr)
	go func() {
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "relay server error: %v\n", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	fmt.Printf("Relaying telemetry from %s on ws://%s/telemetry (Ctrl+C to stop)\n",
		t.addr(), relayAddr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-stop:
			fmt.Println("\nStopping relay")
			return nil
		default:
		}

		_, err := s.PollTelemetry(func(tel *protocol.Telemetry) {
			srv.Broadcast(tel)
		}, 1)
		if err != nil && !gimbal.IsNoData(err) {
			return fmt.Errorf("telemetry poll failed: %w", err)
		}
	}
}

// configCmd manages the named gimbal registry
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage named gimbal entries",
	Long: `Manage the gimbalctl configuration file.

Named entries let you address gimbals by name instead of IP:

  gimbalctl config add roof --host 192.168.144.200
  gimbalctl center --gimbal roof`,
}

var configAddHost string
var configAddPort int
var configAddPosition string

var configAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a named gimbal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		if configAddPosition != "" {
			if _, ok := config.PositionEncodings[configAddPosition]; !ok {
				return fmt.Errorf("unknown position encoding %q (use fixed or float32)", configAddPosition)
			}
		}

		g := reg.EnsureGimbal(name)
		g.Host = configAddHost
		g.Port = configAddPort
		g.Position = configAddPosition
		if reg.Default == "" {
			reg.Default = name
		}

		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved %q -> %s:%d\n", name, g.Host, g.Port)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured gimbals",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		if len(reg.Gimbals) == 0 {
			fmt.Println("No gimbals configured. Add one with 'gimbalctl config add'.")
			return nil
		}

		for name, g := range reg.Gimbals {
			marker := " "
			if name == reg.Default {
				marker = "*"
			}
			fmt.Printf("%s %-16s %s:%d", marker, name, g.Host, g.Port)
			if g.Position != "" {
				fmt.Printf("  position=%s", g.Position)
			}
			if !g.LastSeen.IsZero() {
				fmt.Printf("  last seen %s", g.LastSeen.Format("2006-01-02 15:04"))
			}
			fmt.Println()
		}
		return nil
	},
}

var configDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default gimbal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if reg.GetGimbal(args[0]) == nil {
			return fmt.Errorf("unknown gimbal %q (add it with 'gimbalctl config add')", args[0])
		}
		reg.Default = args[0]
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Printf("Default gimbal is now %q\n", args[0])
		return nil
	},
}

func init() {
	configAddCmd.Flags().StringVar(&configAddHost, "host", gimbal.DefaultHost, "Gimbal IP address")
	configAddCmd.Flags().IntVar(&configAddPort, "port", gimbal.DefaultPort, "Gimbal TCP control port")
	configAddCmd.Flags().StringVar(&configAddPosition, "position", "", "Telemetry coordinate encoding (fixed, float32)")

	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configDefaultCmd)
}
