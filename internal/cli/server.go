package cli

import (
	"fmt"
	"net"
	"time"

	"github.com/sidechain-audio/midi-orchestra/internal/config"
	"github.com/sidechain-audio/midi-orchestra/internal/logging"
	"github.com/sidechain-audio/midi-orchestra/internal/midiingest"
	"github.com/sidechain-audio/midi-orchestra/internal/policy"
	"github.com/sidechain-audio/midi-orchestra/internal/progress"
	"github.com/sidechain-audio/midi-orchestra/internal/registry"
	"github.com/sidechain-audio/midi-orchestra/internal/scheduler"
	"github.com/sidechain-audio/midi-orchestra/internal/statusapi"
	"github.com/sidechain-audio/midi-orchestra/internal/telemetry"
	"github.com/sidechain-audio/midi-orchestra/internal/transport"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serverCfg config.ServerConfig
var includeChannelFlags, excludeChannelFlags []uint

var serverCmd = &cobra.Command{
	Use:   "server <midi-path>",
	Short: "Load a MIDI file and dispatch its notes to connected clients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		serverCfg.MIDIPath = args[0]
		serverCfg.IncludeChannels = config.ToUint8Slice(includeChannelFlags)
		serverCfg.ExcludeChannels = config.ToUint8Slice(excludeChannelFlags)

		initLogging(serverCfg.Verbose)
		defer func() { _ = logging.Close() }()

		if err := config.ValidateServer(serverCfg); err != nil {
			return err
		}
		return runServer(serverCfg)
	},
}

func init() {
	flags := serverCmd.Flags()
	flags.Uint16Var(&serverCfg.Port, "port", 4000, "TCP port to listen on")
	flags.StringVar(&serverCfg.PolicyName, "policy", "by-freq", "Assignment policy: broadcast|by-track|by-channel|by-freq|by-freq-spreadX<N>")
	flags.Float32Var(&serverCfg.VolumeCoeff, "volume", 1.0, "Volume coefficient in [0.0, 1.0]")
	flags.BoolVarP(&serverCfg.Verbose, "verbose", "v", false, "Enable debug-level logging")
	flags.UintSliceVar(&serverCfg.IncludeTracks, "include-track", nil, "Only dispatch notes from this track (repeatable)")
	flags.UintSliceVar(&serverCfg.ExcludeTracks, "exclude-track", nil, "Never dispatch notes from this track (repeatable)")
	flags.UintSliceVar(&includeChannelFlags, "include-channel", nil, "Only dispatch notes from this channel (repeatable)")
	flags.UintSliceVar(&excludeChannelFlags, "exclude-channel", nil, "Never dispatch notes from this channel (repeatable)")
	flags.BoolVar(&serverCfg.AllowChannel10, "allow-channel-10", false, "Don't auto-suppress channel 10 (percussion)")
	flags.Uint16Var(&serverCfg.StatusPort, "status-port", 8080, "HTTP port serving /status and /internal/metrics")
}

func runServer(cfg config.ServerConfig) error {
	music, err := midiingest.LoadFile(cfg.MIDIPath, cfg.Verbose)
	if err != nil {
		return err
	}

	filtered := config.FilterSpecFor(cfg).Apply(music)

	spec, _ := policy.ParseSpec(cfg.PolicyName)
	selectedPolicy, err := policy.New(spec, filtered.Events)
	if err != nil {
		return err
	}

	reg := registry.New(selectedPolicy, progress.NewLogging())
	metrics := telemetry.NewServerMetrics()
	uids := transport.NewUIDFactory()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return err
	}
	defer listener.Close()

	go scheduler.AcceptLoop(listener, reg, uids, metrics)

	statusRouter := statusapi.NewRouter(reg)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.StatusPort)
		if serveErr := statusRouter.Run(addr); serveErr != nil {
			logging.Log.Warn("status HTTP server stopped", zap.Error(serveErr))
		}
	}()

	logging.Log.Info("waiting for initial clients", zap.Duration("grace_period", scheduler.StartupGracePeriod))
	time.Sleep(scheduler.StartupGracePeriod)

	return scheduler.Play(reg, filtered.Events, cfg.VolumeCoeff, metrics)
}
