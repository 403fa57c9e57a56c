// Package main is the entry point for the Vitalis probe.
// It loads configuration, builds the telemetry sampler for the monitored
// process, and serves it over the websocket bridge until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Guliveer/vitalis/probe/internal/bridge"
	"github.com/Guliveer/vitalis/probe/internal/collector"
	"github.com/Guliveer/vitalis/probe/internal/config"
	"github.com/Guliveer/vitalis/probe/internal/platform"
	"github.com/Guliveer/vitalis/probe/internal/scheduler"
	"github.com/Guliveer/vitalis/probe/internal/telemetry"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "", "Path to configuration file (default: search standard locations)")
	showVersion = flag.Bool("version", false, "Show version and exit")
	bindFlag    = flag.String("bind", "", "Address to listen on")
	portFlag    = flag.Int("port", 0, "Port to listen on")
	tokenFlag   = flag.String("token", "", "Bearer token required from bridge clients")
	pidFlag     = flag.Int("pid", 0, "PID of the monitored process (default: the probe itself)")
	onceFlag    = flag.Bool("once", false, "Take one measurement, print it and exit")
	windowFlag  = flag.Duration("window", time.Second, "Measurement window for -once")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("vitalis-probe %s\n", version)
		os.Exit(0)
	}

	cli := config.CLIOverrides{
		Bind:  *bindFlag,
		Port:  *portFlag,
		Token: *tokenFlag,
		PID:   *pidFlag,
	}
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadLayered(cli, *configPath)
	} else {
		cfg, err = config.LoadLayered(cli)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	p := platform.New(platform.Options{
		BatteryPath: cfg.Sampler.BatteryPath,
		TrafficPath: cfg.Sampler.TrafficPath,
	})
	reader := collector.NewReader(collector.Target{
		PID: cfg.Sampler.PID,
		UID: cfg.Sampler.UID,
	}, p, logger)
	sampler := telemetry.NewSampler(reader, telemetry.Options{
		TickRate:    p.ClockTicks,
		ReadTimeout: cfg.Sampler.ReadTimeout.Duration,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *onceFlag {
		if err := runOnce(ctx, sampler, *windowFlag, os.Stdout); err != nil {
			logger.Fatal("Measurement failed", zap.Error(err))
		}
		return
	}

	logger.Info("Starting Vitalis probe",
		zap.String("version", version),
		zap.String("platform", p.Name()),
		zap.Int("pid", reader.PID()),
		zap.String("addr", cfg.Addr()))

	runProbe(ctx, cfg, sampler, p, logger)
	logger.Info("Probe stopped")
}

// runProbe serves the bridge and, when configured, the sample stream.
// It blocks until the context is cancelled.
func runProbe(ctx context.Context, cfg *config.Config, sampler *telemetry.Sampler, p platform.Platform, logger *zap.Logger) {
	dispatcher := bridge.NewDispatcher(sampler, p.BatteryPercent, logger)
	server := bridge.NewServer(dispatcher, cfg.Server.Token, logger)

	sched := scheduler.New(sampler, cfg.Stream.Interval.Duration, logger)
	sched.WhenActive(server.HasSubscribers)
	sched.OnSample(server.Broadcast)
	go sched.Start(ctx)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	logger.Info("Bridge listening", zap.String("addr", httpServer.Addr))

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Bridge server failed", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Bridge shutdown incomplete", zap.Error(err))
	}
}

// initLogger creates a zap logger based on the configuration.
// It outputs to both console (human-readable) and optionally a JSON log file.
func initLogger(cfg *config.Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Stderr keeps stdout clean for -once output.
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			)
			cores = append(cores, fileCore)
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}
