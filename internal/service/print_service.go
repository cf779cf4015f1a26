// internal/service/print_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fiscal-print-service/internal/config"
	"fiscal-print-service/internal/escpos"
	"fiscal-print-service/internal/model"
	"fiscal-print-service/internal/printer"
	"fiscal-print-service/internal/receipt"
	"fiscal-print-service/internal/transport"
)

// PrintRequest is the payload of the print command.
type PrintRequest struct {
	Business model.BusinessProfile `json:"business"`
	Sale     model.SaleDocument    `json:"sale"`
	Template string                `json:"template"`
}

// StatusInfo is the payload of the status reply. It reports configuration,
// not device reachability.
type StatusInfo struct {
	Printer    string `json:"printer"`
	Version    string `json:"version"`
	Configured bool   `json:"configured"`
}

// PrintService implements the four protocol commands on top of the
// renderer, spooler and settings store. Both the stdio host and the HTTP
// handlers dispatch into it.
type PrintService struct {
	cfg      *config.Config
	settings *config.Store
	spooler  *printer.Spooler
	renderer *receipt.Renderer
	logger   *zap.Logger
}

// NewPrintService wires the service.
func NewPrintService(
	cfg *config.Config,
	settings *config.Store,
	spooler *printer.Spooler,
	logger *zap.Logger,
) *PrintService {
	renderer := receipt.NewRenderer(receipt.Options{
		DisclaimerText: cfg.Printing.DisclaimerText,
		QRBaseURL:      cfg.Printing.QRBaseURL,
		QRSize:         cfg.Printing.QRSize,
	}, logger)

	return &PrintService{
		cfg:      cfg,
		settings: settings,
		spooler:  spooler,
		renderer: renderer,
		logger:   logger.With(zap.String("component", "print-service")),
	}
}

// Print renders the requested template and spools it to the configured
// printer. It returns the printer name used.
func (s *PrintService) Print(ctx context.Context, req *PrintRequest) (string, error) {
	template, err := receipt.ParseTemplate(req.Template)
	if err != nil {
		return "", err
	}

	data, err := s.renderer.Render(template, &req.Sale, &req.Business)
	if err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}

	printerName := s.settings.PrinterName()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Printing.PrintTimeout)
	defer cancel()

	if err := s.spooler.Print(ctx, printerName, data); err != nil {
		return printerName, err
	}

	s.logger.Info("Receipt printed",
		zap.String("template", template.String()),
		zap.String("printer", printerName),
		zap.Int64("sale_number", req.Sale.Number),
	)
	return printerName, nil
}

// PrintTest spools a short self-test ticket.
func (s *PrintService) PrintTest(ctx context.Context) (string, error) {
	buf := escpos.NewBuffer()
	buf.Raw(escpos.Initialize).
		Raw(escpos.AlignCenter).
		Raw(escpos.BoldOn).Line("PRUEBA DE IMPRESION").Raw(escpos.BoldOff).
		Line(s.cfg.App.Name + " " + s.cfg.App.Version).
		Line(time.Now().Format("02/01/2006 15:04")).
		Feed(4).
		Cut()

	printerName := s.settings.PrinterName()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Printing.PrintTimeout)
	defer cancel()

	if err := s.spooler.Print(ctx, printerName, buf.Bytes()); err != nil {
		return printerName, err
	}
	return printerName, nil
}

// Status reports the configured printer and the service version,
// independent of whether a physical printer is reachable.
func (s *PrintService) Status() StatusInfo {
	printerName := s.settings.PrinterName()
	return StatusInfo{
		Printer:    printerName,
		Version:    s.cfg.App.Version,
		Configured: printerName != "",
	}
}

// ListPrinters returns the known printer names; never an error.
func (s *PrintService) ListPrinters() []string {
	return s.spooler.ListPrinters()
}

// Configure merges the provided fields into the settings store.
func (s *PrintService) Configure(values map[string]interface{}) error {
	if len(values) == 0 {
		return fmt.Errorf("no configuration fields provided")
	}
	return s.settings.Merge(values)
}

// Dispatch implements transport.Dispatcher: it executes one command
// envelope and always produces a response carrying the request id. Device
// and input failures become success=false envelopes, never panics or
// dropped replies.
func (s *PrintService) Dispatch(ctx context.Context, env *transport.CommandEnvelope) *transport.ResponseEnvelope {
	resp := &transport.ResponseEnvelope{RequestID: env.RequestID}

	switch env.Command {
	case transport.CommandPrint:
		var req PrintRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			resp.Error = fmt.Sprintf("invalid print request: %v", err)
			return resp
		}
		printerName, err := s.Print(ctx, &req)
		if err != nil {
			resp.Error = err.Error()
			resp.Printer = printerName
			return resp
		}
		resp.Success = true
		resp.Message = "printed"
		resp.Printer = printerName

	case transport.CommandStatus:
		status := s.Status()
		resp.Success = true
		resp.Printer = status.Printer
		resp.Version = status.Version

	case transport.CommandListPrinters:
		resp.Success = true
		resp.Printers = s.ListPrinters()

	case transport.CommandConfigure:
		var values map[string]interface{}
		if err := json.Unmarshal(env.Data, &values); err != nil {
			resp.Error = fmt.Sprintf("invalid configure request: %v", err)
			return resp
		}
		if err := s.Configure(values); err != nil {
			resp.Error = err.Error()
			return resp
		}
		resp.Success = true

	default:
		resp.Error = fmt.Sprintf("unknown command: %q", env.Command)
	}

	return resp
}
