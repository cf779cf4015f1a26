// internal/printer/memory.go
package printer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MemoryConnection is an in-memory Connection that records everything
// written to it. It backs tests and the self-test path when no physical
// device is wired up.
type MemoryConnection struct {
	mu     sync.Mutex
	isOpen bool
	jobs   [][]byte

	// FailWrites makes every Write return an error, for exercising the
	// device-error reporting path.
	FailWrites bool
}

// NewMemoryConnection creates an empty in-memory printer.
func NewMemoryConnection() *MemoryConnection {
	return &MemoryConnection{}
}

// MemoryDialer returns a Dialer that always hands out the given
// connection, ignoring the settings entry.
func MemoryDialer(conn *MemoryConnection) Dialer {
	return func(_ map[string]interface{}, _ *zap.Logger) (Connection, error) {
		return conn, nil
	}
}

func (mc *MemoryConnection) Open(ctx context.Context) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.isOpen = true
	return nil
}

func (mc *MemoryConnection) Close() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.isOpen = false
	return nil
}

func (mc *MemoryConnection) IsOpen() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.isOpen
}

func (mc *MemoryConnection) Write(ctx context.Context, data []byte) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.isOpen {
		return fmt.Errorf("memory connection not open")
	}
	if mc.FailWrites {
		return fmt.Errorf("simulated device failure")
	}

	job := make([]byte, len(data))
	copy(job, data)
	mc.jobs = append(mc.jobs, job)
	return nil
}

func (mc *MemoryConnection) Ping(ctx context.Context) error {
	if !mc.IsOpen() {
		return fmt.Errorf("memory connection not open")
	}
	return nil
}

func (mc *MemoryConnection) Type() string {
	return "memory"
}

// Jobs returns a copy of every buffer written so far.
func (mc *MemoryConnection) Jobs() [][]byte {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	jobs := make([][]byte, len(mc.jobs))
	for i, job := range mc.jobs {
		jobs[i] = append([]byte(nil), job...)
	}
	return jobs
}
