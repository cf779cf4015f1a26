// cmd/host/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"fiscal-print-service/internal/config"
	"fiscal-print-service/internal/printer"
	"fiscal-print-service/internal/service"
	"fiscal-print-service/internal/transport"
	"fiscal-print-service/internal/utils"
)

// The native-messaging host relays print commands between a browser
// extension and the printer over length-prefixed frames on stdin/stdout.
// stdout belongs to the protocol, so all diagnostics must go to the log
// file.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "host terminated: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Frames own stdout; force logging to a file no matter what the
	// shared configuration says.
	if cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = config.DefaultLogPath()
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer utils.CloseLogger(logger)

	serviceLogger := utils.NewServiceLogger(logger, "fiscal-print-host")
	serviceLogger.LogServiceStart(cfg.App.Version)

	settings, err := config.NewStore(cfg.Printing.SettingsPath, logger)
	if err != nil {
		logger.Error("Failed to open settings store", zap.Error(err))
		return fmt.Errorf("failed to open settings store: %w", err)
	}

	spooler := printer.NewSpooler(settings, nil, logger)
	printService := service.NewPrintService(cfg, settings, spooler, logger)
	host := transport.NewHost(os.Stdin, os.Stdout, printService, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := host.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Host loop failed", zap.Error(err))
		return err
	}

	serviceLogger.LogServiceStop("input stream closed")
	return nil
}
