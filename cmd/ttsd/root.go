package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ttsd/internal/config"
	"ttsd/internal/engine"
	"ttsd/internal/gpu"
	"ttsd/internal/httpapi"
	"ttsd/internal/memwatch"
	"ttsd/internal/registry"
	"ttsd/internal/scheduler"
)

var version = "dev"

const (
	defaultAddr       = ":7871"
	defaultVoicesDir  = "demos"
	defaultOutputsDir = "outputs"
	defaultEngineCmd  = "indextts-infer"

	httpShutdownTimeout = 5 * time.Second
	// drainTimeout bounds the wait for an in-flight synthesis to finish.
	drainTimeout = 5 * time.Minute
)

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "ttsd",
		Short:         "Text-to-speech inference daemon with a serialized job queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "Path to a .yaml/.json/.toml config file")
	root.Flags().String("addr", "", "HTTP listen address, e.g. :7871 (defaults TTSD_ADDR or "+defaultAddr+")")
	root.Flags().String("voices-dir", "", "Directory of voice presets (category/subcategory/*.wav)")
	root.Flags().String("outputs-dir", "", "Directory for generated wav files")
	root.Flags().String("engine-cmd", "", "External synthesis command")
	root.Flags().StringArray("engine-arg", nil, "Base argument for the synthesis command (repeatable)")
	root.Flags().Int("queue-capacity", 0, "Max queued jobs before admission rejects (0=default)")
	root.Flags().Int("history-size", 0, "Terminal jobs retained for status queries (0=default)")
	root.Flags().Int("window-size", 0, "Execution durations retained for ETA estimates (0=default)")
	root.Flags().String("gpu-name", "", "GPU device name for profile lookup (empty=CPU mode)")
	root.Flags().String("log-level", "", "Log level: debug|info|warn|error")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the ttsd version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ttsd", version)
		},
	})

	return root
}

// resolveConfig layers file config under flag overrides and applies
// defaults, with TTSD_ADDR honored for the listen address.
func resolveConfig(cmd *cobra.Command, cfgPath string) (config.Config, error) {
	var cfg config.Config
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v, _ := flags.GetString("voices-dir"); v != "" {
		cfg.VoicesDir = v
	}
	if v, _ := flags.GetString("outputs-dir"); v != "" {
		cfg.OutputsDir = v
	}
	if v, _ := flags.GetString("engine-cmd"); v != "" {
		cfg.EngineCommand = v
	}
	if v, _ := flags.GetStringArray("engine-arg"); len(v) > 0 {
		cfg.EngineArgs = v
	}
	if v, _ := flags.GetInt("queue-capacity"); v > 0 {
		cfg.QueueCapacity = v
	}
	if v, _ := flags.GetInt("history-size"); v > 0 {
		cfg.HistorySize = v
	}
	if v, _ := flags.GetInt("window-size"); v > 0 {
		cfg.WindowSize = v
	}
	if v, _ := flags.GetString("gpu-name"); v != "" {
		cfg.GPUName = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.Addr == "" {
		cfg.Addr = os.Getenv("TTSD_ADDR")
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.VoicesDir == "" {
		cfg.VoicesDir = defaultVoicesDir
	}
	if cfg.OutputsDir == "" {
		cfg.OutputsDir = defaultOutputsDir
	}
	if cfg.EngineCommand == "" {
		cfg.EngineCommand = defaultEngineCmd
	}
	return cfg, nil
}

func runServe(cfg config.Config) error {
	log := newLogger(cfg.LogLevel)

	profile := gpu.Lookup(cfg.GPUName)
	log.Info().
		Str("gpu", profile.Name).
		Int("vram_gb", profile.VRAMGB).
		Bool("fp16", profile.UseFP16).
		Msg("tuning profile selected")

	voices, err := registry.LoadDir(cfg.VoicesDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.VoicesDir).Msg("voice preset scan failed; demo routes will be empty")
	}
	catalog := registry.NewCatalog(voices)

	eng := engine.NewSubprocess(engine.SubprocessConfig{
		Command:    cfg.EngineCommand,
		Args:       cfg.EngineArgs,
		OutputsDir: cfg.OutputsDir,
	}, &log)

	sched := scheduler.NewWithConfig(scheduler.Config{
		Engine:        eng,
		QueueCapacity: cfg.QueueCapacity,
		HistorySize:   cfg.HistorySize,
		WindowSize:    cfg.WindowSize,
		Logger:        &log,
	})
	// The worker gets a background context: shutdown drains the in-flight
	// job rather than canceling its subprocess.
	sched.Start(context.Background())

	monCtx, stopMon := context.WithCancel(context.Background())
	defer stopMon()
	if profile.MemoryCheckInterval > 0 {
		mon := memwatch.New(memwatch.Config{
			ThresholdPct:      profile.MemoryThresholdPct,
			ForceThresholdPct: profile.MemoryForceGCPct,
			Interval:          profile.MemoryCheckInterval,
		}, &memwatch.NvidiaSMISampler{}, eng, &log)
		go mon.Run(monCtx)
	}

	httpapi.SetLogger(log)
	mux := httpapi.NewMux(sched, httpapi.Options{
		Catalog:    catalog,
		Profile:    profile,
		OutputsDir: cfg.OutputsDir,
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("voices_dir", cfg.VoicesDir).Msg("ttsd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	httpCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(httpCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
	defer cancelDrain()
	if err := sched.Shutdown(drainCtx); err != nil {
		log.Error().Err(err).Msg("worker drain timed out")
		return err
	}
	log.Info().Msg("drained")
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
