// Command finstate inspects and drives state machines described in YAML.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amp-labs/finstate/cli"
	"github.com/amp-labs/finstate/logger"
	"github.com/amp-labs/finstate/telemetry"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithSubsystem(ctx, "finstate")

	tcfg, err := telemetry.LoadConfigFromEnv(ctx, os.Getenv("ENVIRONMENT"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	var logOpts []logger.Option

	handler, err := telemetry.NewLogHandler(ctx, tcfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	if handler != nil {
		logOpts = append(logOpts, logger.WithExtraHandler(handler))
	}

	// Diagnostics go to stderr unless asked otherwise so command output stays clean.
	if os.Getenv("LOG_OUTPUT") == "" {
		logOpts = append(logOpts, logger.WithOutput(os.Stderr))
	}

	if _, err := logger.ConfigureLogging(ctx, "finstate", logOpts...); err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	if err := telemetry.Initialize(ctx, tcfg); err != nil {
		logger.Get(ctx).Error("Failed to initialize tracing", "error", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Get(ctx).Error("Failed to shut down telemetry", "error", err)
		}
	}()

	root := newRootCmd(&app{chooser: cli.NewPrompter()})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		return 1
	}

	return 0
}
