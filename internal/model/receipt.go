// internal/model/receipt.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessProfile holds the issuer data printed on every ticket header.
// It is supplied by the caller per print request and never mutated.
type BusinessProfile struct {
	Name    string `json:"name"`
	TaxID   string `json:"taxId"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// SaleDocument is the caller-owned sale (or quote) to be printed.
type SaleDocument struct {
	Number     int64     `json:"number"`
	SalesPoint int       `json:"salesPoint"`
	Date       time.Time `json:"date"`

	// Voucher identity (FACTURA/NOTA DE CREDITO..., letter A/B/C, AFIP code)
	VoucherName   string `json:"voucherName,omitempty"`
	VoucherLetter string `json:"voucherLetter,omitempty"`
	VoucherCode   int    `json:"voucherCode,omitempty"`

	CustomerName         string `json:"customerName,omitempty"`
	CustomerTaxID        string `json:"customerTaxId,omitempty"`
	CustomerVATCondition string `json:"customerVatCondition,omitempty"`
	CustomerAddress      string `json:"customerAddress,omitempty"`

	Items []LineItem `json:"items"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`

	Payments []Payment `json:"payments,omitempty"`
	CAE      *CAEBlock `json:"cae,omitempty"`
	Notes    string    `json:"notes,omitempty"`

	// DiscriminatesVAT marks sales whose per-line and aggregate VAT
	// amounts must be itemized on the legal template.
	DiscriminatesVAT bool `json:"discriminatesVat"`
}

// LineItem is a single sale line.
type LineItem struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
	TaxAmount decimal.Decimal `json:"taxAmount,omitempty"`
}

// Payment is one payment applied to the sale.
type Payment struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// CAEBlock carries the already-issued fiscal authorization. The number is
// kept as a string because callers send it with formatting noise; digit
// stripping happens where the numeric value is required.
type CAEBlock struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
}

// HasCAE reports whether the sale carries a usable authorization.
func (s *SaleDocument) HasCAE() bool {
	return s.CAE != nil && s.CAE.Number != ""
}
