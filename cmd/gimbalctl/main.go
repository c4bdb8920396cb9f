// Gimbalctl is a command-line controller for KTG camera gimbals.
//
// It speaks the gimbal's TCP control protocol: pointing, tracking,
// photo and video capture, laser ranging, and live telemetry. Gimbals
// are addressed directly by IP or through named entries in the user
// configuration, and can be located on the network via mDNS.
//
// Usage:
//
//	gimbalctl [command] [flags]
//
// See 'gimbalctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airgava/gimbalctl/internal/logging"
	"github.com/airgava/gimbalctl/internal/version"
)

func main() {
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gimbalctl",
	Short: "KTG Gimbal Control Utility",
	Long: `A command-line controller for KTG camera gimbals.

Provides movement and camera control, live telemetry, mDNS discovery,
and a WebSocket telemetry relay for ground-station tooling.

Set GIMBALCTL_LOG_LEVEL=debug to see protocol frame dumps.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gimbalctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
