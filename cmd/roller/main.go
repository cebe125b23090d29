// cmd/roller/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-roller/pkg/audio"
	"github.com/opd-ai/go-roller/pkg/config"
	"github.com/opd-ai/go-roller/pkg/engine"
	"github.com/opd-ai/go-roller/pkg/logging"
	"github.com/opd-ai/go-roller/pkg/render"
	engorender "github.com/opd-ai/go-roller/pkg/render/engo"
)

func main() {
	configPath := flag.String("config", "roller.yaml", "Path to configuration file (.json or .yaml)")
	renderer := flag.String("renderer", "", "Renderer type: 'engo', 'terminal' or 'headless' (overrides config)")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 0, "Window width (Engo only, overrides config)")
	height := flag.Int("height", 0, "Window height (Engo only, overrides config)")
	frames := flag.Uint64("frames", 0, "Stop after this many frames (headless only, 0 runs until interrupted)")
	logPath := flag.String("log", "", "Write logs to this file instead of stdout")
	flag.Parse()

	// Load configuration
	var cfg *config.Config

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		log.Printf("Configuration file not found, using default configuration")
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		log.Fatalf("Invalid environment configuration: %v", err)
	}

	// Command line flags win over file and environment
	if *renderer != "" {
		cfg.Display.Renderer = *renderer
	}
	if *width > 0 {
		cfg.Display.Width = *width
	}
	if *height > 0 {
		cfg.Display.Height = *height
	}
	if *fullscreen {
		cfg.Display.Fullscreen = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	os.Exit(run(cfg, *logPath, *frames))
}

// run owns every resource that needs cleanup and returns the process exit
// code, so deferred calls finish before main exits.
func run(cfg *config.Config, logPath string, frames uint64) int {
	logger, closeLog := newLogger(cfg, logPath)
	defer closeLog()

	sim := engine.NewSimulation(cfg, logger)

	if cfg.Display.Audio {
		sounds := audio.NewSoundManager()
		if err := sounds.Initialize(); err != nil {
			logger.Warn(context.Background(), "Audio unavailable, continuing without sound", "error", err)
		} else {
			sounds.Attach(sim.EventBus)
			defer sounds.Cleanup()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Choose renderer based on configuration
	var err error
	switch cfg.Display.Renderer {
	case config.RendererEngo:
		startEngoRenderer(sim)
	case config.RendererTerminal:
		err = startTerminalRenderer(ctx, sim)
	default:
		err = startHeadless(ctx, sim, logger, frames)
	}
	if err != nil {
		logger.Error(ctx, "Simulation host failed", err, "renderer", cfg.Display.Renderer)
		log.Printf("%s host failed: %v", cfg.Display.Renderer, err)
		return 1
	}
	return 0
}

// newLogger builds the process logger. The terminal host owns the screen, so
// it only logs when a file is given.
func newLogger(cfg *config.Config, path string) (*logging.Logger, func()) {
	if path == "" {
		if cfg.Display.Renderer == config.RendererTerminal {
			return logging.Discard(), func() {}
		}
		return logging.NewLogger(), func() {}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	return logging.NewLoggerWithWriter(f), func() { f.Close() }
}

// startEngoRenderer runs the windowed host until the window closes
func startEngoRenderer(sim *engine.Simulation) {
	engorender.Run(sim)
}

// startTerminalRenderer runs the tcell host until quit or interrupt
func startTerminalRenderer(ctx context.Context, sim *engine.Simulation) error {
	return render.NewTerminalHost(sim, nil).Run(ctx)
}

// startHeadless drives the simulation with no display, logging each frame
// at debug level and the final state at info level.
func startHeadless(ctx context.Context, sim *engine.Simulation, logger *logging.Logger, frames uint64) error {
	out := render.NewNullRenderer(logger)
	sim.OnFrame(out.Render)

	if err := sim.Run(ctx, frames); err != nil {
		return err
	}

	snap := sim.Snapshot()
	logger.Info(context.Background(), "Simulation finished",
		"frames", snap.Frame,
		"speed", snap.Speed,
		"respawns", snap.Respawns,
	)
	return nil
}
