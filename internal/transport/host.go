// internal/transport/host.go
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Dispatcher executes one command envelope and produces its response.
// Implementations must never panic on malformed data; failures are
// reported through the response envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, env *CommandEnvelope) *ResponseEnvelope
}

// Host drives the framing protocol over a byte stream pair, typically the
// stdin/stdout of a native-messaging process. Diagnostics go to the logger
// only; writing anything but frames to the out stream would corrupt the
// protocol.
type Host struct {
	in         io.Reader
	out        io.Writer
	dispatcher Dispatcher
	logger     *zap.Logger
}

// NewHost creates a host bound to the given streams.
func NewHost(in io.Reader, out io.Writer, dispatcher Dispatcher, logger *zap.Logger) *Host {
	return &Host{
		in:         in,
		out:        out,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "host")),
	}
}

// Run reads frames until the input stream ends or the context is
// cancelled. EOF is a clean shutdown; any other stream-level failure is
// returned so the process can exit instead of corrupting further frames.
func (h *Host) Run(ctx context.Context) error {
	reader := NewFrameReader()
	chunk := make([]byte, 4096)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := h.in.Read(chunk)
		if n > 0 {
			frames, feedErr := reader.Feed(chunk[:n])
			for _, frame := range frames {
				h.handleFrame(ctx, frame)
			}
			if feedErr != nil {
				h.logger.Error("Frame stream corrupted", zap.Error(feedErr))
				return feedErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				h.logger.Info("Input stream closed, shutting down")
				return nil
			}
			h.logger.Error("Input stream read failed", zap.Error(err))
			return fmt.Errorf("failed to read input stream: %w", err)
		}
	}
}

// handleFrame decodes one frame and writes its response. A frame whose
// JSON cannot be decoded is answered with a generic error envelope when a
// requestId can still be recovered, otherwise dropped.
func (h *Host) handleFrame(ctx context.Context, frame []byte) {
	var env CommandEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		h.logger.Warn("Malformed frame body",
			zap.Error(err),
			zap.Int("frame_bytes", len(frame)),
		)
		if requestID := recoverRequestID(frame); requestID != "" {
			h.writeResponse(&ResponseEnvelope{
				RequestID: requestID,
				Success:   false,
				Error:     "malformed request",
			})
		}
		return
	}

	resp := h.dispatcher.Dispatch(ctx, &env)
	h.writeResponse(resp)
}

func (h *Host) writeResponse(resp *ResponseEnvelope) {
	payload, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		return
	}
	if err := WriteFrame(h.out, payload); err != nil {
		h.logger.Error("Failed to write response frame",
			zap.Error(err),
			zap.String("request_id", resp.RequestID),
		)
	}
}

// recoverRequestID makes a best-effort pass over a malformed body to pull
// out a correlation id.
func recoverRequestID(frame []byte) string {
	var partial struct {
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(frame, &partial); err != nil {
		return ""
	}
	return partial.RequestID
}
