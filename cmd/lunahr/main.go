package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tinygo.org/x/bluetooth"

	"github.com/PetLucy/LunaHR-Linux/internal/config"
	"github.com/PetLucy/LunaHR-Linux/internal/logger"
	"github.com/PetLucy/LunaHR-Linux/internal/metrics"
	"github.com/PetLucy/LunaHR-Linux/internal/pid"
	"github.com/PetLucy/LunaHR-Linux/internal/publisher"
	"github.com/PetLucy/LunaHR-Linux/internal/rssi"
	"github.com/PetLucy/LunaHR-Linux/internal/supervisor"
	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
	"github.com/PetLucy/LunaHR-Linux/internal/transport"
	"github.com/PetLucy/LunaHR-Linux/internal/ui"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The interactive interface owns the terminal, so logs go to the
	// file only
	if cfg.Headless {
		err = logger.Init(cfg.LogLevel, cfg.LogFile, logger.IsService())
	} else {
		err = logger.InitQuiet(cfg.LogLevel, cfg.LogFile)
	}
	if err != nil {
		fmt.Printf("failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		fmt.Printf("failed to write PID file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in pipeline")
	}
	logger.Info().Msg("Exiting...")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

// run wires the pipeline and blocks until ctx is cancelled or the user
// quits the interface.
func run(ctx context.Context) error {
	clock := telemetry.RealClock{}
	stats := metrics.NewService(true, clock)
	buffer := telemetry.NewBuffer()

	pub, err := publisher.New(publisher.Config{Host: cfg.OSCHost, Ports: cfg.OSCPorts}, stats)
	if err != nil {
		return err
	}
	pub.Start()
	defer pub.Close()

	factory, prober := buildSource(clock)

	deps := supervisor.Deps{
		Clock:     clock,
		Factory:   factory,
		Buffer:    buffer,
		Publisher: pub,
		Stats:     stats,
		Prober:    prober,
	}

	if cfg.Headless {
		return runHeadless(ctx, deps)
	}

	return runInterface(ctx, buffer, deps)
}

// buildSource selects the transport the supervisor starts sessions on.
// Signal probing only exists for BLE; a websocket stream has no radio to
// probe.
func buildSource(clock telemetry.Clock) (transport.Factory, supervisor.Prober) {
	if config.Source(cfg.Source) == config.SourceWebSocket {
		factory := func(events chan<- transport.Event) transport.Transport {
			return transport.NewWS(transport.WSConfig{
				URL:   cfg.StreamURL,
				Token: cfg.AccessToken,
			}, events)
		}

		return factory, nil
	}

	factory := func(events chan<- transport.Event) transport.Transport {
		return transport.NewBLE(transport.BLEConfig{DeviceName: cfg.DeviceName}, events)
	}
	sampler := rssi.New(rssi.DefaultConfig(), rssi.NewAdapterScanner(bluetooth.DefaultAdapter), clock)

	return factory, sampler
}

// runHeadless connects immediately and streams until cancelled
func runHeadless(ctx context.Context, deps supervisor.Deps) error {
	sup, err := supervisor.New(supervisor.DefaultConfig(), deps)
	if err != nil {
		return err
	}

	sup.Connect()

	return sup.Run(ctx)
}

// runInterface runs the supervisor beside the terminal interface;
// quitting the interface stops the supervisor too.
func runInterface(ctx context.Context, buffer *telemetry.Buffer, deps supervisor.Deps) error {
	bridge := ui.NewBridge()
	deps.Status = bridge
	deps.Alerts = bridge
	deps.Render = bridge

	sup, err := supervisor.New(supervisor.DefaultConfig(), deps)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	supDone := make(chan error, 1)
	go func() {
		supDone <- sup.Run(runCtx)
	}()

	uiErr := ui.Run(runCtx, ui.Params{
		Controller: sup,
		History:    buffer,
		Bridge:     bridge,
		Theme:      cfg.Theme,
	})

	cancel()
	if err := <-supDone; err != nil {
		logger.Error().Err(err).Msg("supervisor stopped with error")
	}

	return uiErr
}
