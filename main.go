// CoreDump is a local activity-tracking daemon: it samples which editor
// window is focused, attributes elapsed time to the detected programming
// language, and periodically reports per-language totals to the CoreDump
// collector.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"coredump/collector"
	"coredump/core"
	"coredump/core/validation"
	"coredump/logging"
	"coredump/window"
)

func main() {
	// Service management verbs (install, start, ...) short-circuit
	// normal startup.
	if HandleServiceCommand(os.Args) {
		return
	}

	// When launched by a service manager, the lifecycle is driven by
	// Start/Stop callbacks instead of signals.
	if ranAsService, err := RunAsService(); ranAsService {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(core.ExitCodeError)
		}
		return
	}

	ctx, signalCode := signalContext()
	code := run(ctx)
	if code == core.ExitCodeSuccess {
		// A run ended by a signal reports the conventional 128+N code.
		if c := signalCode(); c != 0 {
			code = c
		}
	}
	os.Exit(code)
}

// run performs startup validation and drives the monitor until the
// context is cancelled. Returns the process exit code.
func run(ctx context.Context) int {
	// Load .env if present. Absence is normal outside development.
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

	isDevelopment := core.ParseBoolEnv("COREDUMP_DEV_MODE", false)

	// Validate before anything heavy: every failure here prints
	// remediation text and stops the process.
	suite := validation.NewValidationSuite().WithShowProgress(true)
	result := suite.Validate()
	if !result.Success {
		for _, err := range result.Errors() {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return core.ExitCodeError
	}
	cfg := suite.Config()

	logger, err := logging.NewLogger(isDevelopment, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}
	defer logger.Sync()

	// Every line of one daemon run carries the same run id.
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	logger.Info("configuration loaded",
		zap.String("collector", cfg.APIURL),
		zap.String("editor", cfg.EditorProcess),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Duration("flush_interval", cfg.FlushInterval),
		zap.Duration("idle_threshold", cfg.IdleThreshold),
		zap.Duration("min_send_duration", cfg.MinSendDuration),
		zap.Bool("dev_mode", isDevelopment),
	)

	sampler := window.NewXdotoolSampler(cfg.EditorProcess)
	sender := collector.NewClientWithTimeout(cfg.APIURL, cfg.SendTimeout)

	monitor := NewMonitor(cfg, sampler, sender, logger)
	monitor.logStartupProbe()

	logger.Info("monitoring started")
	go monitor.Start(ctx)

	<-monitor.Done()
	logger.Info("goodbye")
	return core.ExitCodeSuccess
}

// signalContext returns a context cancelled on SIGINT or SIGTERM, plus
// a function reporting the exit code for the received signal (0 when no
// signal arrived).
func signalContext() (context.Context, func() int) {
	ctx, cancel := context.WithCancel(context.Background())

	var code atomic.Int32
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		fmt.Printf("Received %v, shutting down...\n", sig)
		if sig == syscall.SIGTERM {
			code.Store(core.ExitCodeSIGTERM)
		} else {
			code.Store(core.ExitCodeSIGINT)
		}
		cancel()
	}()

	return ctx, func() int { return int(code.Load()) }
}
