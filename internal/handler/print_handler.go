// internal/handler/print_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fiscal-print-service/internal/service"
	"fiscal-print-service/internal/utils"
)

// PrintHandler exposes the print commands over HTTP for browser-only
// callers that cannot use native messaging.
type PrintHandler struct {
	printService *service.PrintService
	logger       *zap.Logger
}

// NewPrintHandler creates a new print handler.
func NewPrintHandler(printService *service.PrintService, logger *zap.Logger) *PrintHandler {
	return &PrintHandler{
		printService: printService,
		logger:       logger.With(zap.String("component", "print-handler")),
	}
}

// Liveness answers the GET / probe with the service status. It reports
// configuration only; it does not touch any device.
func (h *PrintHandler) Liveness(c *gin.Context) {
	status := h.printService.Status()
	utils.SuccessResponse(c, http.StatusOK, "fiscal print service", status)
}

// ListPrinters handles GET /printers. A failed enumeration yields an
// empty list, not an error.
func (h *PrintHandler) ListPrinters(c *gin.Context) {
	printers := h.printService.ListPrinters()
	utils.SuccessResponse(c, http.StatusOK, "printers listed", gin.H{
		"printers": printers,
	})
}

// Print handles POST /print: renders the sale and spools it.
func (h *PrintHandler) Print(c *gin.Context) {
	var req service.PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid print request", err)
		return
	}

	printerName, err := h.printService.Print(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("Print failed",
			zap.Error(err),
			zap.String("printer", printerName),
			zap.String("request_id", utils.GetRequestID(c)),
		)
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Print failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "printed", gin.H{
		"printer": printerName,
	})
}

// PrintTest handles POST /print/test: spools a short self-test ticket.
func (h *PrintHandler) PrintTest(c *gin.Context) {
	printerName, err := h.printService.PrintTest(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Test print failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "test printed", gin.H{
		"printer": printerName,
	})
}
