package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
)

// LineInput carries everything needed to price one cart line. BasePrice
// is the shop item's GST-inclusive price; OverridePrice, when set, wins
// over any offer.
type LineInput struct {
	ShopItemID    uuid.UUID
	Name          string
	Quantity      int
	BasePrice     decimal.Decimal
	OverridePrice *decimal.Decimal
	OfferPercent  *decimal.Decimal
	GSTPercent    decimal.Decimal
}

// PricedLine is the frozen result of pricing a line. TaxableAmount and
// TaxAmount are each quantized to 2 decimal places after scaling, so
// their sum may differ from Subtotal by a fraction of a paisa.
type PricedLine struct {
	ShopItemID    uuid.UUID
	Name          string
	Quantity      int
	UnitPrice     decimal.Decimal
	GSTPercent    decimal.Decimal
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	Subtotal      decimal.Decimal
}

// OfferPrice applies a percentage discount to the GST-inclusive base
// price. The discount amount is rounded half-up to 2 decimal places
// before subtraction, so applying it twice to the same base yields the
// same result.
func OfferPrice(base, discountPercent decimal.Decimal) decimal.Decimal {
	if discountPercent.Sign() <= 0 {
		return base
	}
	discount := base.Mul(discountPercent).Div(hundred).Round(2)
	return base.Sub(discount)
}

// PriceLine resolves the effective unit price and derives the per-line
// tax split and subtotal.
func PriceLine(in LineInput) (PricedLine, error) {
	if in.Quantity < 1 {
		return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if in.BasePrice.Sign() < 0 {
		return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}

	unit := in.BasePrice
	switch {
	case in.OverridePrice != nil:
		if in.OverridePrice.Sign() < 0 {
			return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		unit = *in.OverridePrice
	case in.OfferPercent != nil:
		unit = OfferPrice(in.BasePrice, *in.OfferPercent)
	}

	qty := decimal.NewFromInt(int64(in.Quantity))
	perTaxable, perTax := SplitInclusive(unit, in.GSTPercent)

	return PricedLine{
		ShopItemID:    in.ShopItemID,
		Name:          in.Name,
		Quantity:      in.Quantity,
		UnitPrice:     unit,
		GSTPercent:    in.GSTPercent,
		TaxableAmount: perTaxable.Mul(qty).Round(2),
		TaxAmount:     perTax.Mul(qty).Round(2),
		Subtotal:      unit.Mul(qty).Round(2),
	}, nil
}
