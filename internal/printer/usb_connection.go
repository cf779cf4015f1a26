// internal/printer/usb_connection.go
package printer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"fiscal-print-service/internal/escpos"
)

// USBConfig identifies a USB printer by vendor/product id.
type USBConfig struct {
	VendorID  string
	ProductID string
	Endpoint  int
}

// USBConnection implements Connection for USB-attached printers.
type USBConnection struct {
	config   *USBConfig
	ctx      *gousb.Context
	device   *gousb.Device
	intf     *gousb.Interface
	intfDone func()
	outEndpt *gousb.OutEndpoint
	logger   *zap.Logger
	mutex    sync.RWMutex
	isOpen   bool
}

// NewUSBConnection creates a new USB connection.
func NewUSBConnection(config *USBConfig, logger *zap.Logger) Connection {
	return &USBConnection{
		config: config,
		logger: logger.With(
			zap.String("connection", "usb"),
			zap.String("vendor_id", config.VendorID),
			zap.String("product_id", config.ProductID),
		),
	}
}

// Open claims the device's default interface and out endpoint.
func (uc *USBConnection) Open(ctx context.Context) error {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if uc.isOpen {
		return nil
	}

	vendorID, err := parseHexID(uc.config.VendorID)
	if err != nil {
		return fmt.Errorf("invalid vendor ID: %w", err)
	}
	productID, err := parseHexID(uc.config.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}

	uc.ctx = gousb.NewContext()

	device, err := uc.ctx.OpenDeviceWithVIDPID(vendorID, productID)
	if err != nil || device == nil {
		uc.ctx.Close()
		uc.ctx = nil
		if err == nil {
			err = fmt.Errorf("device not found (VID: %04X, PID: %04X)", uint16(vendorID), uint16(productID))
		}
		return fmt.Errorf("failed to open USB device: %w", err)
	}

	intf, done, err := device.DefaultInterface()
	if err != nil {
		device.Close()
		uc.ctx.Close()
		uc.ctx = nil
		return fmt.Errorf("failed to claim interface: %w", err)
	}

	outEndpt, err := intf.OutEndpoint(uc.config.Endpoint)
	if err != nil {
		done()
		device.Close()
		uc.ctx.Close()
		uc.ctx = nil
		return fmt.Errorf("failed to get out endpoint: %w", err)
	}

	uc.device = device
	uc.intf = intf
	uc.intfDone = done
	uc.outEndpt = outEndpt
	uc.isOpen = true

	uc.logger.Info("USB connection opened")
	return nil
}

// Close releases the interface and device.
func (uc *USBConnection) Close() error {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if !uc.isOpen {
		return nil
	}

	if uc.intfDone != nil {
		uc.intfDone()
		uc.intfDone = nil
	}
	uc.intf = nil
	if uc.device != nil {
		uc.device.Close()
		uc.device = nil
	}
	if uc.ctx != nil {
		uc.ctx.Close()
		uc.ctx = nil
	}

	uc.outEndpt = nil
	uc.isOpen = false
	return nil
}

// IsOpen returns whether the connection is open.
func (uc *USBConnection) IsOpen() bool {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()
	return uc.isOpen && uc.outEndpt != nil
}

// Write writes data to the out endpoint.
func (uc *USBConnection) Write(ctx context.Context, data []byte) error {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()

	if !uc.isOpen || uc.outEndpt == nil {
		return fmt.Errorf("USB connection not open")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	n, err := uc.outEndpt.Write(data)
	if err != nil {
		uc.logger.Error("USB write failed", zap.Error(err))
		return fmt.Errorf("failed to write to USB device: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}

	uc.logger.Debug("USB write completed", zap.Int("bytes", len(data)))
	return nil
}

// Ping sends a status request to verify the printer is reachable.
func (uc *USBConnection) Ping(ctx context.Context) error {
	if !uc.IsOpen() {
		return fmt.Errorf("USB connection not open")
	}
	return uc.Write(ctx, escpos.StatusRequest)
}

// Type returns the connection kind.
func (uc *USBConnection) Type() string {
	return "usb"
}

// parseHexID parses a hex id string (0x04b8 or 04b8).
func parseHexID(hexStr string) (gousb.ID, error) {
	hexStr = strings.TrimPrefix(hexStr, "0x")
	id, err := strconv.ParseUint(hexStr, 16, 16)
	if err != nil {
		return 0, err
	}
	return gousb.ID(id), nil
}
