// internal/receipt/format.go
package receipt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Ticket column layout: quantity (7) + " x " + unit price (15) + " = " +
// line total (15) is exactly 43 printable characters.
const (
	quantityWidth = 7
	amountWidth   = 15
	ticketWidth   = quantityWidth + 3 + amountWidth + 3 + amountWidth
)

// money renders a currency value with exactly two decimal digits,
// independent of locale.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// quantity renders a quantity without trailing zeros ("2", "1.5").
func quantity(d decimal.Decimal) string {
	return d.String()
}

// itemRow renders the fixed-width quantity/price/total row printed under
// each item name.
func itemRow(qty, unitPrice, total decimal.Decimal) string {
	return fmt.Sprintf("%*s x %*s = %*s",
		quantityWidth, quantity(qty),
		amountWidth, money(unitPrice),
		amountWidth, money(total),
	)
}

// separator is a full-width horizontal rule.
func separator() string {
	return strings.Repeat("-", ticketWidth)
}
