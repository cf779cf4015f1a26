// internal/printer/factory.go
package printer

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Dialer builds a Connection from a settings-store printer entry. The
// spooler takes a Dialer instead of calling NewConnection directly so
// tests can substitute an in-memory printer.
type Dialer func(config map[string]interface{}, logger *zap.Logger) (Connection, error)

// NewConnection creates a connection from a printer settings entry based
// on its "type" field.
func NewConnection(config map[string]interface{}, logger *zap.Logger) (Connection, error) {
	connType, _ := config["type"].(string)
	switch connType {
	case "serial":
		return newSerialFromSettings(config, logger)
	case "tcp", "network":
		return newTCPFromSettings(config, logger)
	case "usb":
		return newUSBFromSettings(config, logger)
	default:
		return nil, fmt.Errorf("unsupported connection type: %q", connType)
	}
}

func newSerialFromSettings(config map[string]interface{}, logger *zap.Logger) (Connection, error) {
	serialConfig := &SerialConfig{
		BaudRate: 9600,
		DataBits: 8,
		StopBits: 1,
		Parity:   "none",
		Timeout:  5 * time.Second,
	}

	port, ok := config["port"].(string)
	if !ok || port == "" {
		return nil, fmt.Errorf("serial port is required")
	}
	serialConfig.Port = port

	if baudRate, ok := asInt(config["baud_rate"]); ok {
		serialConfig.BaudRate = baudRate
	}
	if dataBits, ok := asInt(config["data_bits"]); ok {
		serialConfig.DataBits = dataBits
	}
	if stopBits, ok := asInt(config["stop_bits"]); ok {
		serialConfig.StopBits = stopBits
	}
	if parity, ok := config["parity"].(string); ok {
		serialConfig.Parity = parity
	}
	if timeout, ok := config["timeout"].(string); ok {
		if dur, err := time.ParseDuration(timeout); err == nil {
			serialConfig.Timeout = dur
		}
	}

	return NewSerialConnection(serialConfig, logger), nil
}

func newTCPFromSettings(config map[string]interface{}, logger *zap.Logger) (Connection, error) {
	tcpConfig := &TCPConfig{
		Port:         9100,
		Timeout:      10 * time.Second,
		WriteTimeout: 30 * time.Second,
		KeepAlive:    true,
	}

	host, ok := config["host"].(string)
	if !ok || host == "" {
		return nil, fmt.Errorf("tcp host is required")
	}
	tcpConfig.Host = host

	if port, ok := asInt(config["port"]); ok {
		tcpConfig.Port = port
	}
	if timeout, ok := config["timeout"].(string); ok {
		if dur, err := time.ParseDuration(timeout); err == nil {
			tcpConfig.Timeout = dur
		}
	}

	return NewTCPConnection(tcpConfig, logger), nil
}

func newUSBFromSettings(config map[string]interface{}, logger *zap.Logger) (Connection, error) {
	usbConfig := &USBConfig{
		Endpoint: 1,
	}

	vendorID, ok := config["vendor_id"].(string)
	if !ok || vendorID == "" {
		return nil, fmt.Errorf("usb vendor_id is required")
	}
	usbConfig.VendorID = vendorID

	productID, ok := config["product_id"].(string)
	if !ok || productID == "" {
		return nil, fmt.Errorf("usb product_id is required")
	}
	usbConfig.ProductID = productID

	if endpoint, ok := asInt(config["endpoint"]); ok {
		usbConfig.Endpoint = endpoint
	}

	return NewUSBConnection(usbConfig, logger), nil
}

// asInt normalizes the numeric types JSON decoding produces.
func asInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
