package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/modemprov/internal/adapters/display"
	"github.com/bft-labs/modemprov/internal/adapters/restart"
	"github.com/bft-labs/modemprov/internal/adapters/simagent"
	"github.com/bft-labs/modemprov/internal/adapters/simlink"
	"github.com/bft-labs/modemprov/internal/cliconfig"
	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/internal/metrics"
	"github.com/bft-labs/modemprov/internal/ports"
	"github.com/bft-labs/modemprov/pkg/log"
	"github.com/bft-labs/modemprov/pkg/modemprov"
)

const longHelp = `Bring up the modem, wait for network registration, run remote provisioning,
then hand off to the cloud phase or restart when provisioning asks for it.

The modem and the provisioning client are simulated; tune the simulation with
the --link-script, --outcome and --time-sync-delay flags.

Configuration is read from $HOME/.modemprov/config.toml, then MODEMPROV_*
environment variables, then flags. The log level is reloaded when the config
file changes.`

var exampleUsage = strings.TrimSpace(`
  modemprov --service-url https://devices.example.com --auth-key <api-key>
  modemprov --outcome done --restart exit --exit-code 75
  modemprov --link-script "reg:searching,reg:roaming,rrc:connected" --log-level debug
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	// Level filtering is done globally so it can change at runtime.
	logger := log.NewZerologAdapter(os.Stderr, zerolog.TraceLevel)

	root := &cobra.Command{
		Use:           "modemprov",
		Short:         "Cellular connectivity and provisioning lifecycle controller",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			haveFile := cfgFile != "" && cliconfig.FileExists(cfgFile)
			if haveFile {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides the file; flags override both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cliconfig.LoadDeviceID(&cfg); err != nil {
				return err
			}

			zerolog.SetGlobalLevel(log.ParseLevel(cfg.LogLevel))

			logCfg := cfg
			if len(logCfg.AuthKey) > 0 {
				logCfg.AuthKey = "*****"
			}
			logger.Info("configuration", log.Any("config", logCfg))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if haveFile && !changed["log-level"] {
				w := cliconfig.NewWatcher(cfgFile, func(fc cliconfig.FileConfig) {
					if fc.LogLevel == "" {
						return
					}
					zerolog.SetGlobalLevel(log.ParseLevel(fc.LogLevel))
					logger.Info("log level changed", log.String("level", fc.LogLevel))
				}, logger.With("config"))
				go func() {
					if err := w.Run(ctx); err != nil {
						logger.Warn("config watcher stopped", log.Err(err))
					}
				}()
			}

			if cfg.MetricsAddr != "" {
				go func() {
					if err := metrics.Serve(ctx, cfg.MetricsAddr, logger.With("metrics")); err != nil {
						logger.Error("metrics endpoint failed", log.Err(err))
					}
				}()
			}

			dev, err := newDevice(cfg, logger)
			if err != nil {
				return err
			}

			err = dev.Run(ctx)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, context.Canceled) && ctx.Err() != nil:
				logger.Info("received signal, stopped")
				return nil
			case errors.Is(err, modemprov.ErrRestartRequested):
				// The restarter handed control back; let the supervisor restart us.
				logger.Error("restart did not take effect, exiting", log.Int("exit_code", cfg.ExitCode))
				os.Exit(cfg.ExitCode)
			}
			return err
		},
	}

	f := root.Flags()
	f.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.modemprov/config.toml)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	f.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for boot.json and device_id (default: $HOME/.modemprov)")
	f.StringVar(&cfg.DeviceID, "device-id", cfg.DeviceID, "device identifier (default: generated and stored in state-dir)")

	f.StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "cloud service base URL (empty: no heartbeats)")
	f.StringVar(&cfg.AuthKey, "auth-key", cfg.AuthKey, "API key for authentication")
	f.DurationVar(&cfg.HeartbeatInterval, "heartbeat", cfg.HeartbeatInterval, "heartbeat interval in the operational phase")
	f.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	f.BoolVar(&cfg.Once, "once", cfg.Once, "exit after the first heartbeat")

	f.DurationVar(&cfg.TimeSyncInterval, "time-sync-interval", cfg.TimeSyncInterval, "pause between network time queries")
	f.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address for the Prometheus /metrics endpoint (empty: disabled)")
	f.StringVar(&cfg.RestartMode, "restart", cfg.RestartMode, "restart mechanism: exec (re-exec in place) or exit (supervisor restarts)")
	f.IntVar(&cfg.ExitCode, "exit-code", cfg.ExitCode, "exit status used by the exit restart mechanism")
	f.BoolVar(&cfg.Headless, "headless", cfg.Headless, "do not print the status display")

	f.StringVar(&cfg.LinkScript, "link-script", cfg.LinkScript, "simulated network events, comma separated")
	f.DurationVar(&cfg.EventDelay, "event-delay", cfg.EventDelay, "delay between simulated events")
	f.DurationVar(&cfg.ConnectDelay, "connect-delay", cfg.ConnectDelay, "simulated time to re-register")
	f.StringVar(&cfg.Outcome, "outcome", cfg.Outcome, "simulated provisioning outcome: stop or done")
	f.IntVar(&cfg.TimeSyncDelay, "time-sync-delay", cfg.TimeSyncDelay, "simulated failed network time queries before success")
	f.BoolVar(&cfg.SkipCredentials, "skip-credentials", cfg.SkipCredentials, "simulate a provisioning run with no commands")
	if err := f.MarkHidden("connect-delay"); err != nil {
		logger.Info("failed to hide connect-delay flag", log.Err(err))
	}

	if err := root.Execute(); err != nil {
		logger.Error("modemprov", log.Err(err))
		os.Exit(1)
	}
}

// newDevice wires the simulated modem and provisioning client into a Device.
func newDevice(cfg cliconfig.Config, logger *log.ZerologAdapter) (*modemprov.Device, error) {
	script, err := simlink.ParseScript(cfg.LinkScript, cfg.EventDelay)
	if err != nil {
		return nil, fmt.Errorf("link script: %w", err)
	}
	finish, err := simagent.ParseFinish(cfg.Outcome)
	if err != nil {
		return nil, err
	}

	link := simlink.New(simlink.Config{Script: script, ConnectDelay: cfg.ConnectDelay}, logger.With("link"))
	agent := simagent.New(simagent.Config{
		Finish:          finish,
		StepDelay:       cfg.EventDelay,
		SkipCredentials: cfg.SkipCredentials,
	}, logger.With("agent"))

	var out io.Writer = os.Stdout
	if cfg.Headless {
		out = io.Discard
	}

	var restarter ports.Restarter
	switch cfg.RestartMode {
	case cliconfig.RestartExit:
		restarter = restart.NewExitRestarter(cfg.ExitCode, logger)
	default:
		restarter = restart.NewExecRestarter(logger)
	}

	return modemprov.New(modemprov.Config{
		StateDir:          cfg.StateDir,
		DeviceID:          cfg.DeviceID,
		ServiceURL:        cfg.ServiceURL,
		AuthKey:           cfg.AuthKey,
		HeartbeatInterval: cfg.HeartbeatInterval,
		HTTPTimeout:       cfg.HTTPTimeout,
		TimeSyncInterval:  cfg.TimeSyncInterval,
		Once:              cfg.Once,
	},
		modemprov.WithLogger(logger.With("controller")),
		modemprov.WithStatusSink(display.NewFramebuffer(out, domain.Geometry{})),
		modemprov.WithNetworkLink(link),
		modemprov.WithProvisioningAgent(agent),
		modemprov.WithTimeSource(simagent.NewTimeSource(link, cfg.TimeSyncDelay)),
		modemprov.WithRestarter(restarter),
	)
}
