package cli

import (
	"fmt"
	"os"

	"github.com/sidechain-audio/midi-orchestra/internal/clientloop"
	"github.com/sidechain-audio/midi-orchestra/internal/config"
	"github.com/sidechain-audio/midi-orchestra/internal/logging"
	"github.com/sidechain-audio/midi-orchestra/internal/synth"
	"github.com/spf13/cobra"
)

var clientCfg config.ClientConfig
var wavOutPath string

var clientCmd = &cobra.Command{
	Use:   "client <host:port>",
	Short: "Connect to a midi-orchestra server and synthesize assigned notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientCfg.Target = args[0]
		initLogging(clientCfg.Verbose)
		defer func() { _ = logging.Close() }()

		if err := config.ValidateClient(clientCfg); err != nil {
			return err
		}
		return runClient(clientCfg)
	},
}

func init() {
	flags := clientCmd.Flags()
	flags.BoolVarP(&clientCfg.Forever, "forever", "f", false, "Retry connecting forever instead of exiting on failure")
	flags.BoolVarP(&clientCfg.Verbose, "verbose", "v", false, "Enable debug-level logging")
	flags.StringVar(&wavOutPath, "wav-out", "", "Render received tones to this WAV file instead of discarding them")
}

func runClient(cfg config.ClientConfig) error {
	var synthesizer synth.Synthesizer = synth.Silent{}

	if wavOutPath != "" {
		f, err := os.Create(wavOutPath)
		if err != nil {
			return fmt.Errorf("failed to open wav output: %w", err)
		}
		defer f.Close()
		wavSynth := synth.NewWAVFileSynth(f)
		defer wavSynth.Close()
		synthesizer = wavSynth
	}

	return clientloop.Run(cfg.Target, cfg.Forever, synthesizer)
}
