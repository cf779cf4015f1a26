// internal/printer/tcp_connection.go
package printer

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"fiscal-print-service/internal/escpos"
)

// TCPConfig holds network printer parameters. Port 9100 is the raw
// JetDirect port most thermal printers listen on.
type TCPConfig struct {
	Host         string
	Port         int
	Timeout      time.Duration
	WriteTimeout time.Duration
	KeepAlive    bool
}

// TCPConnection implements Connection for network printers.
type TCPConnection struct {
	config *TCPConfig
	conn   net.Conn
	logger *zap.Logger
	mutex  sync.RWMutex
	isOpen bool
}

// NewTCPConnection creates a new TCP connection.
func NewTCPConnection(config *TCPConfig, logger *zap.Logger) Connection {
	return &TCPConnection{
		config: config,
		logger: logger.With(
			zap.String("connection", "tcp"),
			zap.String("host", config.Host),
			zap.Int("port", config.Port),
		),
	}
}

// Open dials the printer.
func (tc *TCPConnection) Open(ctx context.Context) error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if tc.isOpen {
		return nil
	}

	dialer := &net.Dialer{
		Timeout:   tc.config.Timeout,
		KeepAlive: 30 * time.Second,
	}
	address := fmt.Sprintf("%s:%d", tc.config.Host, tc.config.Port)

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		tc.logger.Error("Failed to open TCP connection", zap.Error(err))
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok && tc.config.KeepAlive {
		tcpConn.SetKeepAlive(true)
		tcpConn.SetKeepAlivePeriod(30 * time.Second)
	}

	tc.conn = conn
	tc.isOpen = true
	tc.logger.Info("TCP connection opened")
	return nil
}

// Close closes the connection.
func (tc *TCPConnection) Close() error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if !tc.isOpen || tc.conn == nil {
		return nil
	}
	if err := tc.conn.Close(); err != nil {
		return fmt.Errorf("failed to close TCP connection: %w", err)
	}

	tc.conn = nil
	tc.isOpen = false
	return nil
}

// IsOpen returns whether the connection is open.
func (tc *TCPConnection) IsOpen() bool {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()
	return tc.isOpen && tc.conn != nil
}

// Write writes data to the printer.
func (tc *TCPConnection) Write(ctx context.Context, data []byte) error {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()

	if !tc.isOpen || tc.conn == nil {
		return fmt.Errorf("TCP connection not open")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if tc.config.WriteTimeout > 0 {
		tc.conn.SetWriteDeadline(time.Now().Add(tc.config.WriteTimeout))
	}

	n, err := tc.conn.Write(data)
	if err != nil {
		tc.logger.Error("TCP write failed", zap.Error(err))
		return fmt.Errorf("failed to write to TCP connection: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}

	tc.logger.Debug("TCP write completed", zap.Int("bytes", len(data)))
	return nil
}

// Ping sends a status request to verify the printer is reachable.
func (tc *TCPConnection) Ping(ctx context.Context) error {
	if !tc.IsOpen() {
		return fmt.Errorf("TCP connection not open")
	}
	return tc.Write(ctx, escpos.StatusRequest)
}

// Type returns the connection kind.
func (tc *TCPConnection) Type() string {
	return "tcp"
}
