// Package main is the kbapoller daemon.
//
// Usage:
//
//	kbapoller run -c kbapoller.yaml       # poll every configured laser line
//	kbapoller validate -c kbapoller.yaml  # check daemon and device files
//	kbapoller version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "kbapoller",
	Short: "Poll KBA laser marking controllers and publish their tags",
	Long: `kbapoller polls KBA laser marking controllers, one line per controller.

Every session reads both roll indexes and the controller status, filters the
printing flag, toggles a live bit and publishes 11 tags per line to a Modbus
register block or a Raw Ingest endpoint.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kbapoller %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
