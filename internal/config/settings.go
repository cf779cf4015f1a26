// internal/config/settings.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Store is the file-backed runtime settings of the print host: the default
// printer name and the connection parameters of each known printer. The
// file format ({"printerName": ..., "printers": {...}}) is a compatibility
// contract with existing installations, so persistence goes through
// encoding/json directly: keys keep their exact case on disk and printer
// names like "Front-Desk" resolve verbatim.
//
// Merge is a read-modify-write of the whole file without cross-process
// locking. Concurrent configure calls from separate processes can race;
// this is a known limitation accepted because configuration changes are
// rare interactive actions. The in-process mutex only serializes callers
// inside one host.
type Store struct {
	path   string
	mu     sync.Mutex
	data   map[string]interface{}
	logger *zap.Logger
}

// NewStore opens the settings file at path, creating an empty store when
// the file does not exist yet.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	data := make(map[string]interface{})

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		if data == nil {
			data = make(map[string]interface{})
		}
	case os.IsNotExist(err):
		logger.Info("Settings file not found, starting with empty settings",
			zap.String("path", path),
		)
	default:
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	return &Store{
		path:   path,
		data:   data,
		logger: logger.With(zap.String("component", "settings")),
	}, nil
}

// PrinterName returns the configured default printer name.
func (s *Store) PrinterName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, _ := s.data["printerName"].(string)
	return name
}

// Printer returns the connection parameters of a named printer. Names are
// matched exactly as stored.
func (s *Store) Printer(name string) (map[string]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	printers, _ := s.data["printers"].(map[string]interface{})
	raw, ok := printers[name]
	if !ok {
		return nil, false
	}
	cfg, ok := raw.(map[string]interface{})
	return cfg, ok
}

// PrinterNames lists every configured printer, sorted for stable output.
func (s *Store) PrinterNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	printers, _ := s.data["printers"].(map[string]interface{})
	names := make([]string, 0, len(printers))
	for name := range printers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge applies the provided fields over the current settings and rewrites
// the file.
func (s *Store) Merge(values map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range values {
		s.data[key] = value
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	s.logger.Info("Settings updated", zap.Int("fields", len(values)))
	return nil
}
