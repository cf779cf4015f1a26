// internal/printer/spooler.go
package printer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"fiscal-print-service/internal/config"
)

// Spooler resolves printers by name and serializes jobs per device so two
// concurrent prints never interleave bytes on the same printer. Jobs for
// different printers proceed independently.
type Spooler struct {
	settings *config.Store
	dial     Dialer
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSpooler creates a spooler over the settings store. A nil dialer uses
// the production connection factory.
func NewSpooler(settings *config.Store, dial Dialer, logger *zap.Logger) *Spooler {
	if dial == nil {
		dial = NewConnection
	}
	return &Spooler{
		settings: settings,
		dial:     dial,
		logger:   logger.With(zap.String("component", "spooler")),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Print sends a finished command buffer to the named printer. The buffer
// is consumed exactly once; the spooler never retries on its own.
func (s *Spooler) Print(ctx context.Context, printerName string, data []byte) error {
	if printerName == "" {
		return fmt.Errorf("no printer configured")
	}

	settings, ok := s.settings.Printer(printerName)
	if !ok {
		return fmt.Errorf("printer %q not found", printerName)
	}

	lock := s.printerLock(printerName)
	lock.Lock()
	defer lock.Unlock()

	conn, err := s.dial(settings, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create connection for %q: %w", printerName, err)
	}

	if err := conn.Open(ctx); err != nil {
		return fmt.Errorf("failed to open printer %q: %w", printerName, err)
	}
	defer conn.Close()

	if err := conn.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to print on %q: %w", printerName, err)
	}

	s.logger.Info("Job spooled",
		zap.String("printer", printerName),
		zap.String("connection", conn.Type()),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// ListPrinters returns the configured printer names. It never fails; an
// unreadable configuration yields an empty list.
func (s *Spooler) ListPrinters() []string {
	names := s.settings.PrinterNames()
	if names == nil {
		return []string{}
	}
	return names
}

// printerLock returns the per-printer mutex, creating it on first use.
func (s *Spooler) printerLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	return lock
}
