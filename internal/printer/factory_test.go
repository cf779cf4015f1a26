// internal/printer/factory_test.go
package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConnection_TCP(t *testing.T) {
	conn, err := NewConnection(map[string]interface{}{
		"type": "tcp",
		"host": "192.168.0.50",
		"port": float64(9100), // JSON numbers decode as float64
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "tcp", conn.Type())
	assert.False(t, conn.IsOpen())
}

func TestNewConnection_NetworkAlias(t *testing.T) {
	conn, err := NewConnection(map[string]interface{}{
		"type": "network",
		"host": "10.0.0.5",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "tcp", conn.Type())
}

func TestNewConnection_TCPRequiresHost(t *testing.T) {
	_, err := NewConnection(map[string]interface{}{"type": "tcp"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host is required")
}

func TestNewConnection_Serial(t *testing.T) {
	conn, err := NewConnection(map[string]interface{}{
		"type":      "serial",
		"port":      "/dev/ttyUSB0",
		"baud_rate": 115200,
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "serial", conn.Type())
}

func TestNewConnection_SerialRequiresPort(t *testing.T) {
	_, err := NewConnection(map[string]interface{}{"type": "serial"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port is required")
}

func TestNewConnection_USBRequiresIDs(t *testing.T) {
	_, err := NewConnection(map[string]interface{}{
		"type":      "usb",
		"vendor_id": "0x04b8",
	}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product_id is required")
}

func TestNewConnection_UnsupportedType(t *testing.T) {
	_, err := NewConnection(map[string]interface{}{"type": "bluetooth"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported connection type")
}

func TestAsInt(t *testing.T) {
	for _, value := range []interface{}{9100, int64(9100), float64(9100)} {
		n, ok := asInt(value)
		assert.True(t, ok)
		assert.Equal(t, 9100, n)
	}

	_, ok := asInt("9100")
	assert.False(t, ok)
}
