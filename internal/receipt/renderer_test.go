// internal/receipt/renderer_test.go
package receipt

import (
	"bytes"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fiscal-print-service/internal/escpos"
	"fiscal-print-service/internal/model"
)

var collapseSpaces = regexp.MustCompile(`\s+`)

func testRenderer() *Renderer {
	return NewRenderer(Options{}, zap.NewNop())
}

func testBusiness() *model.BusinessProfile {
	return &model.BusinessProfile{
		Name:  "Almacén Don Pepe",
		TaxID: "20-12345678-9",
	}
}

func testSale() *model.SaleDocument {
	return &model.SaleDocument{
		Number:        42,
		SalesPoint:    3,
		Date:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		VoucherName:   "FACTURA",
		VoucherLetter: "B",
		VoucherCode:   6,
		Items: []model.LineItem{
			{
				Name:      "Yerba Mate 1kg",
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(100),
				Total:     decimal.NewFromInt(200),
			},
		},
		Subtotal: decimal.NewFromInt(200),
		Total:    decimal.NewFromInt(200),
	}
}

func TestParseTemplate(t *testing.T) {
	legal, err := ParseTemplate("legal")
	require.NoError(t, err)
	assert.Equal(t, TemplateLegal, legal)

	simple, err := ParseTemplate("simple")
	require.NoError(t, err)
	assert.Equal(t, TemplateSimple, simple)

	_, err = ParseTemplate("fancy")
	require.Error(t, err)
}

func TestRender_ExactlyOneCutAtEnd(t *testing.T) {
	r := testRenderer()

	for _, template := range []Template{TemplateLegal, TemplateSimple} {
		data, err := r.Render(template, testSale(), testBusiness())
		require.NoError(t, err)

		assert.Equal(t, 1, bytes.Count(data, escpos.CutFull), "template %s", template)
		assert.True(t, bytes.HasSuffix(data, escpos.CutFull), "template %s", template)
	}
}

func TestRender_StartsWithInitialize(t *testing.T) {
	r := testRenderer()

	data, err := r.RenderLegal(testSale(), testBusiness())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, escpos.Initialize))
}

func TestRenderLegal_ItemRow(t *testing.T) {
	r := testRenderer()

	data, err := r.RenderLegal(testSale(), testBusiness())
	require.NoError(t, err)
	text := string(data)

	expectedRow := fmt.Sprintf("%7s x %15s = %15s", "2", "$100.00", "$200.00")
	assert.Contains(t, text, expectedRow)

	collapsed := collapseSpaces.ReplaceAllString(text, " ")
	assert.Contains(t, collapsed, "2 x $100.00 = $200.00")
}

func TestRenderLegal_Content(t *testing.T) {
	r := testRenderer()

	data, err := r.RenderLegal(testSale(), testBusiness())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Almacén Don Pepe")
	assert.Contains(t, text, "CUIT: 20-12345678-9")
	assert.Contains(t, text, DefaultDisclaimer)
	assert.Contains(t, text, "FACTURA B")
	assert.Contains(t, text, "COD. 06")
	assert.Contains(t, text, "Nro: 0003-00000042")
	assert.Contains(t, text, "Fecha: 15/06/2025")
	assert.Contains(t, text, "Yerba Mate 1kg")
	assert.Contains(t, text, "TOTAL: $200.00")
	assert.Contains(t, text, "¡Gracias por su compra!")
}

func TestRenderSimple_Content(t *testing.T) {
	r := testRenderer()

	data, err := r.RenderSimple(testSale(), testBusiness())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "PRESUPUESTO")
	assert.Contains(t, text, "Gracias por su visita")
	assert.NotContains(t, text, DefaultDisclaimer)
	assert.NotContains(t, text, "FACTURA")
}

func TestRender_CurrencyAlwaysTwoDecimals(t *testing.T) {
	r := testRenderer()

	sale := testSale()
	sale.Items[0].UnitPrice = decimal.RequireFromString("99.9")
	sale.Items[0].Total = decimal.RequireFromString("199.8")
	sale.Total = decimal.RequireFromString("199.8")

	data, err := r.RenderLegal(sale, testBusiness())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "$99.90")
	assert.Contains(t, text, "TOTAL: $199.80")
	assert.NotContains(t, text, "$99.9 ")
}

func TestRenderLegal_NoQRWithoutCAE(t *testing.T) {
	r := testRenderer()

	data, err := r.RenderLegal(testSale(), testBusiness())
	require.NoError(t, err)

	assert.NotContains(t, string(data), "COMPROBANTE AUTORIZADO")
	assert.False(t, bytes.Contains(data, escpos.RasterImage))
}

func TestRenderLegal_ValidationBlockWithCAE(t *testing.T) {
	r := testRenderer()

	sale := testSale()
	sale.CAE = &model.CAEBlock{Number: "75123456789012", Expiry: "2025-06-25"}

	data, err := r.RenderLegal(sale, testBusiness())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "COMPROBANTE AUTORIZADO")
	assert.Contains(t, text, "CAE: 75123456789012")
	assert.Contains(t, text, "Vto. CAE: 2025-06-25")
	assert.True(t, bytes.Contains(data, escpos.RasterImage))
}

func TestRenderLegal_NoQRWithoutBusinessTaxID(t *testing.T) {
	r := testRenderer()

	sale := testSale()
	sale.CAE = &model.CAEBlock{Number: "75123456789012"}
	business := testBusiness()
	business.TaxID = ""

	data, err := r.RenderLegal(sale, business)
	require.NoError(t, err)

	// The CAE text still prints; only the QR is withheld.
	assert.Contains(t, string(data), "CAE: 75123456789012")
	assert.False(t, bytes.Contains(data, escpos.RasterImage))
}

func TestRenderSimple_NeverRendersValidation(t *testing.T) {
	r := testRenderer()

	sale := testSale()
	sale.CAE = &model.CAEBlock{Number: "75123456789012"}

	data, err := r.RenderSimple(sale, testBusiness())
	require.NoError(t, err)

	assert.NotContains(t, string(data), "COMPROBANTE AUTORIZADO")
	assert.False(t, bytes.Contains(data, escpos.RasterImage))
}

func TestRender_OptionalFieldsOmitted(t *testing.T) {
	r := testRenderer()

	sale := testSale()
	business := &model.BusinessProfile{Name: "Kiosco 24"}

	data, err := r.RenderLegal(sale, business)
	require.NoError(t, err)
	text := string(data)

	assert.NotContains(t, text, "CUIT:")
	assert.NotContains(t, text, "Tel:")
	assert.NotContains(t, text, "DATOS DEL RECEPTOR")
	assert.NotContains(t, text, "FORMAS DE PAGO")
	assert.NotContains(t, text, "Subtotal:")
	assert.NotContains(t, text, "null")
	assert.NotContains(t, text, "undefined")
}

func TestRenderLegal_RecipientBlock(t *testing.T) {
	r := testRenderer()

	sale := testSale()
	sale.CustomerName = "Juan Pérez"
	sale.CustomerTaxID = "20-98765432-1"
	sale.CustomerVATCondition = "Consumidor Final"

	data, err := r.RenderLegal(sale, testBusiness())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "DATOS DEL RECEPTOR")
	assert.Contains(t, text, "Cliente: Juan Pérez")
	assert.Contains(t, text, "CUIT/DNI: 20-98765432-1")
	assert.Contains(t, text, "Cond. IVA: Consumidor Final")
	assert.NotContains(t, text, "Domicilio:")
}

func TestRenderLegal_DiscountAndVAT(t *testing.T) {
	r := testRenderer()

	sale := testSale()
	sale.Discount = decimal.NewFromInt(20)
	sale.TaxAmount = decimal.RequireFromString("34.71")
	sale.DiscriminatesVAT = true
	sale.Items[0].TaxAmount = decimal.RequireFromString("34.71")

	data, err := r.RenderLegal(sale, testBusiness())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Subtotal: $200.00")
	assert.Contains(t, text, "Descuento: -$20.00")
	assert.Contains(t, text, "IVA: $34.71")
}

func TestRenderSimple_NeverItemizesVAT(t *testing.T) {
	r := testRenderer()

	sale := testSale()
	sale.TaxAmount = decimal.RequireFromString("34.71")
	sale.DiscriminatesVAT = true
	sale.Items[0].TaxAmount = decimal.RequireFromString("34.71")

	data, err := r.RenderSimple(sale, testBusiness())
	require.NoError(t, err)

	assert.NotContains(t, string(data), "IVA: $34.71")
}

func TestRenderLegal_PaymentsAndNotes(t *testing.T) {
	r := testRenderer()

	sale := testSale()
	sale.Payments = []model.Payment{
		{Method: "Efectivo", Amount: decimal.NewFromInt(150)},
		{Method: "Tarjeta", Amount: decimal.NewFromInt(50), Reference: "VISA 1234"},
	}
	sale.Notes = "Cambios dentro de los 30 días"

	data, err := r.RenderLegal(sale, testBusiness())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "FORMAS DE PAGO")
	assert.Contains(t, text, "Efectivo: $150.00")
	assert.Contains(t, text, "Tarjeta: $50.00")
	assert.Contains(t, text, "Ref: VISA 1234")
	assert.Contains(t, text, "Cambios dentro de los 30 días")
}

func TestNewRenderer_CustomDisclaimer(t *testing.T) {
	r := NewRenderer(Options{DisclaimerText: "Responsable Inscripto"}, zap.NewNop())

	data, err := r.RenderLegal(testSale(), testBusiness())
	require.NoError(t, err)

	assert.Contains(t, string(data), "Responsable Inscripto")
	assert.NotContains(t, string(data), DefaultDisclaimer)
}
