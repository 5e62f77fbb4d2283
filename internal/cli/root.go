// Package cli wires the cobra command tree for the midi-orchestra
// binary: a `server` subcommand and a `client` subcommand, each
// validating its own flag surface through internal/config before doing
// any network or file I/O.
package cli

import (
	"fmt"
	"os"

	"github.com/sidechain-audio/midi-orchestra/internal/logging"
	"github.com/spf13/cobra"
)

var (
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "midi-orchestra",
	Short: "Distributed MIDI playback orchestra",
	Long: `midi-orchestra parses a Standard MIDI File on one machine and
dispatches its notes over TCP to networked clients, each of which
synthesizes the tones assigned to it by a pluggable selection policy.`,
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to a rotated JSON log file (logs to stdout only if unset)")
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(clientCmd)
}

func initLogging(verbose bool) {
	level := "info"
	if verbose {
		level = "debug"
	}
	if err := logging.Initialize(level, logFile); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
}
