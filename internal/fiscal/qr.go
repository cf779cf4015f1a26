// internal/fiscal/qr.go
package fiscal

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fiscal-print-service/internal/model"
)

var centsFactor = decimal.NewFromInt(100)

// DefaultQRBaseURL is the verifier endpoint mandated for fiscal QR codes.
const DefaultQRBaseURL = "https://www.afip.gob.ar/fe/qr/"

// Recipient document type codes used by the verifier.
const (
	docTypeCUIT         = 80 // 11-digit tax id
	docTypeDNI          = 96 // 7-8 digit national id
	docTypeUnidentified = 99
)

// qrPayload is the mandated QR content. Every numeric field must be encoded
// as a JSON number; the external verifier rejects string-typed values.
type qrPayload struct {
	Ver        int    `json:"ver"`
	Fecha      string `json:"fecha"`
	CUIT       int64  `json:"cuit"`
	PtoVta     int    `json:"ptoVta"`
	TipoCmp    int    `json:"tipoCmp"`
	NroCmp     int64  `json:"nroCmp"`
	Importe    int64  `json:"importe"`
	Moneda     string `json:"moneda"`
	Ctz        int    `json:"ctz"`
	TipoDocRec int    `json:"tipoDocRec"`
	NroDocRec  int64  `json:"nroDocRec"`
	TipoCodAut string `json:"tipoCodAut"`
	CodAut     int64  `json:"codAut"`
}

// EncodeQRURL builds the verifier URL for an authorized sale: the mandated
// JSON payload, Base64-encoded, interpolated into baseURL (the default is
// used when baseURL is empty).
//
// The encoder is deliberately lenient about a missing business tax id: the
// cuit field is emitted as 0 instead of failing, matching the behavior the
// verifier-facing callers already depend on. Callers that need a scannable
// QR must validate the profile before rendering.
func EncodeQRURL(sale *model.SaleDocument, business *model.BusinessProfile, baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultQRBaseURL
	}

	docType, docNumber := recipientDocument(sale.CustomerTaxID)

	// The verifier rejects decimal amounts; importe is the total scaled
	// to cents and rounded to an integer.
	importe := sale.Total.Mul(centsFactor).Round(0).IntPart()

	payload := qrPayload{
		Ver:        1,
		Fecha:      sale.Date.Format("2006-01-02"),
		CUIT:       digitsToInt(business.TaxID),
		PtoVta:     sale.SalesPoint,
		TipoCmp:    sale.VoucherCode,
		NroCmp:     sale.Number,
		Importe:    importe,
		Moneda:     "PES",
		Ctz:        1,
		TipoDocRec: docType,
		NroDocRec:  docNumber,
		TipoCodAut: "E",
		CodAut:     0,
	}
	if sale.CAE != nil {
		payload.CodAut = digitsToInt(sale.CAE.Number)
	}

	// Marshal cannot fail on this fixed-shape struct.
	raw, _ := json.Marshal(payload)
	return baseURL + "?p=" + base64.StdEncoding.EncodeToString(raw)
}

// recipientDocument derives the verifier document type from the stripped
// customer identifier: 11 digits is a CUIT, 7-8 a DNI, anything else is
// reported as unidentified with the number forced to 0.
func recipientDocument(customerTaxID string) (int, int64) {
	digits := stripNonDigits(customerTaxID)
	switch {
	case len(digits) == 11:
		return docTypeCUIT, digitsToInt(digits)
	case len(digits) == 7 || len(digits) == 8:
		return docTypeDNI, digitsToInt(digits)
	default:
		return docTypeUnidentified, 0
	}
}

func stripNonDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func digitsToInt(s string) int64 {
	n, err := strconv.ParseInt(stripNonDigits(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
