// internal/receipt/renderer.go
package receipt

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"fiscal-print-service/internal/escpos"
	"fiscal-print-service/internal/fiscal"
	"fiscal-print-service/internal/model"
)

// Template selects which ticket variant is rendered.
type Template int

const (
	// TemplateLegal is the fiscal invoice ticket with recipient data,
	// VAT itemization and the CAE/QR validation block.
	TemplateLegal Template = iota
	// TemplateSimple is the quote/estimate ticket.
	TemplateSimple
)

// ParseTemplate maps the wire-level template name to its variant.
func ParseTemplate(name string) (Template, error) {
	switch name {
	case "legal":
		return TemplateLegal, nil
	case "simple":
		return TemplateSimple, nil
	default:
		return 0, fmt.Errorf("unknown template: %q", name)
	}
}

// String returns the wire-level template name.
func (t Template) String() string {
	if t == TemplateSimple {
		return "simple"
	}
	return "legal"
}

// DefaultDisclaimer is printed on every legal ticket regardless of the
// business's actual tax regime. The wording is carried over verbatim from
// the system this service replaces; it is configurable because a business
// that is not tax-exempt would otherwise print an incorrect statement.
const DefaultDisclaimer = "IVA EXENTO - Operación exenta de IVA"

// Options tunes rendering. Zero values fall back to the legacy defaults.
type Options struct {
	DisclaimerText string
	QRBaseURL      string
	QRSize         int
}

// Renderer turns a sale plus business profile into an ESC/POS command
// stream. Rendering never mutates its inputs.
type Renderer struct {
	opts   Options
	logger *zap.Logger
}

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts Options, logger *zap.Logger) *Renderer {
	if opts.DisclaimerText == "" {
		opts.DisclaimerText = DefaultDisclaimer
	}
	if opts.QRBaseURL == "" {
		opts.QRBaseURL = fiscal.DefaultQRBaseURL
	}
	if opts.QRSize <= 0 {
		opts.QRSize = 200
	}
	return &Renderer{
		opts:   opts,
		logger: logger.With(zap.String("component", "renderer")),
	}
}

// Render dispatches to the template variant.
func (r *Renderer) Render(t Template, sale *model.SaleDocument, business *model.BusinessProfile) ([]byte, error) {
	switch t {
	case TemplateLegal:
		return r.RenderLegal(sale, business)
	case TemplateSimple:
		return r.RenderSimple(sale, business)
	default:
		return nil, fmt.Errorf("unknown template: %d", t)
	}
}

// RenderLegal renders the fiscal ticket.
func (r *Renderer) RenderLegal(sale *model.SaleDocument, business *model.BusinessProfile) ([]byte, error) {
	buf := escpos.NewBuffer()

	r.renderHeader(buf, business)

	buf.Raw(escpos.AlignCenter).Line(r.opts.DisclaimerText)

	// Voucher title: name plus single-letter code, double height bold.
	title := sale.VoucherName
	if title == "" {
		title = "COMPROBANTE"
	}
	if sale.VoucherLetter != "" {
		title += " " + sale.VoucherLetter
	}
	buf.Raw(escpos.LineFeed).
		Raw(escpos.BoldOn).Raw(escpos.SizeDoubleHeight).
		Line(title).
		Raw(escpos.SizeNormal).Raw(escpos.BoldOff)
	if sale.VoucherCode != 0 {
		buf.Line(fmt.Sprintf("COD. %02d", sale.VoucherCode))
	}

	r.renderNumberAndDate(buf, sale)
	r.renderRecipient(buf, sale)
	r.renderItems(buf, sale, true)
	r.renderTotals(buf, sale, true)
	r.renderPayments(buf, sale, true)
	r.renderValidation(buf, sale, business)
	r.renderFooter(buf, sale, "¡Gracias por su compra!")

	return buf.Bytes(), nil
}

// RenderSimple renders the quote/estimate ticket.
func (r *Renderer) RenderSimple(sale *model.SaleDocument, business *model.BusinessProfile) ([]byte, error) {
	buf := escpos.NewBuffer()

	r.renderHeader(buf, business)

	buf.Raw(escpos.LineFeed).
		Raw(escpos.AlignCenter).
		Raw(escpos.BoldOn).Raw(escpos.SizeDoubleHeight).
		Line("PRESUPUESTO").
		Raw(escpos.SizeNormal).Raw(escpos.BoldOff)

	r.renderNumberAndDate(buf, sale)
	r.renderItems(buf, sale, false)
	r.renderTotals(buf, sale, false)
	r.renderPayments(buf, sale, false)
	r.renderFooter(buf, sale, "Gracias por su visita")

	return buf.Bytes(), nil
}

// renderHeader emits the reset command and the centered business block.
// Optional profile fields contribute zero or one line each.
func (r *Renderer) renderHeader(buf *escpos.Buffer, business *model.BusinessProfile) {
	buf.Raw(escpos.Initialize).
		Raw(escpos.AlignCenter).
		Raw(escpos.BoldOn).Raw(escpos.SizeDoubleBoth).
		Line(business.Name).
		Raw(escpos.SizeNormal).Raw(escpos.BoldOff)

	if business.TaxID != "" {
		buf.Line("CUIT: " + business.TaxID)
	}
	if business.Address != "" {
		buf.Line(business.Address)
	}
	if business.Phone != "" {
		buf.Line("Tel: " + business.Phone)
	}
	if business.Email != "" {
		buf.Line(business.Email)
	}
}

func (r *Renderer) renderNumberAndDate(buf *escpos.Buffer, sale *model.SaleDocument) {
	buf.Raw(escpos.AlignLeft).
		Line(fmt.Sprintf("Nro: %04d-%08d", sale.SalesPoint, sale.Number)).
		Line("Fecha: " + sale.Date.Format("02/01/2006"))
}

// renderRecipient emits the legal-only customer block; every line is
// conditional on the field being present.
func (r *Renderer) renderRecipient(buf *escpos.Buffer, sale *model.SaleDocument) {
	if sale.CustomerName == "" && sale.CustomerTaxID == "" &&
		sale.CustomerVATCondition == "" && sale.CustomerAddress == "" {
		return
	}
	buf.Raw(escpos.LineFeed).Line("DATOS DEL RECEPTOR")
	if sale.CustomerName != "" {
		buf.Line("Cliente: " + sale.CustomerName)
	}
	if sale.CustomerTaxID != "" {
		buf.Line("CUIT/DNI: " + sale.CustomerTaxID)
	}
	if sale.CustomerVATCondition != "" {
		buf.Line("Cond. IVA: " + sale.CustomerVATCondition)
	}
	if sale.CustomerAddress != "" {
		buf.Line("Domicilio: " + sale.CustomerAddress)
	}
}

// renderItems emits the PRODUCTOS section: the item name on its own line,
// then the fixed-width quantity/price/total row. The legal template adds a
// per-line VAT amount when the sale itemizes VAT.
func (r *Renderer) renderItems(buf *escpos.Buffer, sale *model.SaleDocument, legal bool) {
	buf.Raw(escpos.LineFeed).
		Raw(escpos.AlignLeft).
		Line("PRODUCTOS").
		Line(separator())

	for _, item := range sale.Items {
		buf.Line(item.Name)
		buf.Line(itemRow(item.Quantity, item.UnitPrice, item.Total))
		if legal && sale.DiscriminatesVAT && !item.TaxAmount.IsZero() {
			buf.Line("  IVA: " + money(item.TaxAmount))
		}
	}
	buf.Line(separator())
}

// renderTotals emits the right-aligned totals block, ending with the bold
// double-size TOTAL line.
func (r *Renderer) renderTotals(buf *escpos.Buffer, sale *model.SaleDocument, legal bool) {
	buf.Raw(escpos.AlignRight)

	hasDiscount := !sale.Discount.IsZero()
	if hasDiscount {
		buf.Line("Subtotal: " + money(sale.Subtotal))
		buf.Line("Descuento: -" + money(sale.Discount))
	}
	if legal && sale.DiscriminatesVAT && !sale.TaxAmount.IsZero() {
		buf.Line("IVA: " + money(sale.TaxAmount))
	}

	buf.Raw(escpos.BoldOn).Raw(escpos.SizeDoubleBoth).
		Line("TOTAL: " + money(sale.Total)).
		Raw(escpos.SizeNormal).Raw(escpos.BoldOff).
		Raw(escpos.AlignLeft)
}

func (r *Renderer) renderPayments(buf *escpos.Buffer, sale *model.SaleDocument, legal bool) {
	if len(sale.Payments) == 0 {
		return
	}

	header := "Formas de Pago"
	if legal {
		header = "FORMAS DE PAGO"
	}
	buf.Raw(escpos.LineFeed).Line(header)

	for _, p := range sale.Payments {
		buf.Line(fmt.Sprintf("  %s: %s", p.Method, money(p.Amount)))
		if legal && p.Reference != "" {
			buf.Line("    Ref: " + p.Reference)
		}
	}
}

// renderValidation emits the legal-only fiscal authorization block. The QR
// is rendered only when both the CAE and the business tax id are present;
// a QR generation failure is logged and skipped so the rest of the ticket
// still prints.
func (r *Renderer) renderValidation(buf *escpos.Buffer, sale *model.SaleDocument, business *model.BusinessProfile) {
	if !sale.HasCAE() {
		return
	}

	buf.Raw(escpos.LineFeed).
		Raw(escpos.AlignCenter).
		Raw(escpos.BoldOn).Line("COMPROBANTE AUTORIZADO").Raw(escpos.BoldOff).
		Line("CAE: " + sale.CAE.Number)
	if sale.CAE.Expiry != "" {
		buf.Line("Vto. CAE: " + sale.CAE.Expiry)
	}

	if business.TaxID == "" {
		return
	}

	url := fiscal.EncodeQRURL(sale, business, r.opts.QRBaseURL)
	pngData, err := qrcode.Encode(url, qrcode.Medium, r.opts.QRSize)
	if err != nil {
		r.logger.Warn("QR image generation failed, printing without QR",
			zap.Error(err),
			zap.Int64("sale_number", sale.Number),
		)
		return
	}

	raster, err := escpos.Raster(pngData)
	if err != nil {
		r.logger.Warn("QR rasterization failed, printing without QR",
			zap.Error(err),
			zap.Int64("sale_number", sale.Number),
		)
		return
	}

	buf.Raw(escpos.AlignCenter).Raw(raster).Raw(escpos.LineFeed)
}

// renderFooter emits optional notes, the closing line, feed and cut.
func (r *Renderer) renderFooter(buf *escpos.Buffer, sale *model.SaleDocument, closing string) {
	buf.Raw(escpos.AlignCenter)
	if sale.Notes != "" {
		buf.Raw(escpos.LineFeed).Line(sale.Notes)
	}
	buf.Raw(escpos.LineFeed).
		Line(closing).
		Feed(6).
		Cut()
}
