// internal/transport/envelope.go
package transport

import "encoding/json"

// Command names carried over the framing protocol.
const (
	CommandPrint        = "print"
	CommandStatus       = "status"
	CommandListPrinters = "listPrinters"
	CommandConfigure    = "configure"
)

// CommandEnvelope is one request frame: a correlation id, the command name
// and the command-specific payload left raw for the dispatcher to decode.
type CommandEnvelope struct {
	RequestID string          `json:"requestId"`
	Command   string          `json:"command"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ResponseEnvelope is the reply frame. Every response echoes the requestId
// of its request so a multiplexing caller can correlate out-of-order
// completions.
type ResponseEnvelope struct {
	RequestID string   `json:"requestId"`
	Success   bool     `json:"success"`
	Message   string   `json:"message,omitempty"`
	Error     string   `json:"error,omitempty"`
	Printer   string   `json:"printer,omitempty"`
	Printers  []string `json:"printers,omitempty"`
	Version   string   `json:"version,omitempty"`
}
