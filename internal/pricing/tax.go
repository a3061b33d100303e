package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SplitInclusive divides a GST-inclusive amount into its taxable base
// and tax component at the given percentage rate. The taxable base is
// rounded half-up to 2 decimal places and the tax is derived by
// subtraction, so taxable + tax always equals the input amount.
func SplitInclusive(amount, ratePercent decimal.Decimal) (taxable, tax decimal.Decimal) {
	if ratePercent.Sign() <= 0 {
		return amount, decimal.Zero
	}
	divisor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	taxable = amount.Div(divisor).Round(2)
	tax = amount.Sub(taxable)
	return taxable, tax
}
