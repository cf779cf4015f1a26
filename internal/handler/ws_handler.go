// internal/handler/ws_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fiscal-print-service/internal/transport"
)

// WebSocketHandler carries the command envelopes over a websocket for
// callers that keep a long-lived connection instead of polling HTTP.
// Each text message is one CommandEnvelope; each reply echoes the
// request id, so responses can complete out of order.
type WebSocketHandler struct {
	upgrader   websocket.Upgrader
	dispatcher transport.Dispatcher
	logger     *zap.Logger
}

// NewWebSocketHandler creates a new websocket handler.
func NewWebSocketHandler(dispatcher transport.Dispatcher, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// The service binds to loopback; origin pinning happens
				// at the CORS layer for the HTTP routes.
				return true
			},
		},
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "ws-handler")),
	}
}

// HandleConnection upgrades the request and serves envelopes until the
// peer disconnects. A single failed command answers with an error
// envelope; it never tears down the connection.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket connection", zap.Error(err))
		return
	}
	defer conn.Close()

	clientID := uuid.New().String()
	h.logger.Info("Websocket client connected",
		zap.String("client_id", clientID),
		zap.String("remote_addr", c.Request.RemoteAddr),
	)

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			h.logger.Info("Websocket client disconnected",
				zap.String("client_id", clientID),
			)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		resp := h.handleMessage(c, payload)
		if resp == nil {
			continue
		}

		out, err := json.Marshal(resp)
		if err != nil {
			h.logger.Error("Failed to encode websocket response", zap.Error(err))
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			h.logger.Warn("Failed to write websocket response",
				zap.Error(err),
				zap.String("client_id", clientID),
			)
			return
		}
	}
}

func (h *WebSocketHandler) handleMessage(c *gin.Context, payload []byte) *transport.ResponseEnvelope {
	var env transport.CommandEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		h.logger.Warn("Malformed websocket message", zap.Error(err))
		return &transport.ResponseEnvelope{
			Success: false,
			Error:   "malformed request",
		}
	}
	return h.dispatcher.Dispatch(c.Request.Context(), &env)
}
