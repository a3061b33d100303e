package pricing

import "github.com/shopspring/decimal"

// Totals is the order-level money summary derived from priced lines.
type Totals struct {
	TaxableTotal   decimal.Decimal
	TaxTotal       decimal.Decimal
	DeliveryCharge decimal.Decimal
	GrandTotal     decimal.Decimal
}

// Recompute derives order totals from the priced lines. A non-zero
// deliveryCharge wins over fallbackCharge. The function is pure:
// callers invoke it explicitly on checkout and on any line mutation,
// and running it twice over the same inputs returns identical totals.
func Recompute(lines []PricedLine, deliveryCharge, fallbackCharge decimal.Decimal) Totals {
	taxable := decimal.Zero
	tax := decimal.Zero
	subtotal := decimal.Zero
	for _, line := range lines {
		taxable = taxable.Add(line.TaxableAmount)
		tax = tax.Add(line.TaxAmount)
		subtotal = subtotal.Add(line.Subtotal)
	}

	charge := deliveryCharge
	if charge.Sign() == 0 {
		charge = fallbackCharge
	}

	return Totals{
		TaxableTotal:   taxable.Round(2),
		TaxTotal:       tax.Round(2),
		DeliveryCharge: charge.Round(2),
		GrandTotal:     subtotal.Add(charge).Round(2),
	}
}
