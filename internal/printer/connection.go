// internal/printer/connection.go
package printer

import "context"

// Connection is a one-way byte channel to a physical printer. The service
// only spools finished command buffers; reading printer status back is
// limited to the Ping liveness probe.
type Connection interface {
	// Connection lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	// Data output
	Write(ctx context.Context, data []byte) error

	// Liveness probe
	Ping(ctx context.Context) error

	// Type reports the connection kind (serial, tcp, usb, memory)
	Type() string
}
