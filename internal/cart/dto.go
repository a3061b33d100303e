package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineView is one cart line priced at the current offer.
type LineView struct {
	CartItemID    uuid.UUID        `json:"cart_item_id"`
	ShopItemID    uuid.UUID        `json:"shop_item_id"`
	Name          string           `json:"name"`
	Quantity      int              `json:"quantity"`
	BasePrice     decimal.Decimal  `json:"base_price"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	OfferPercent  *decimal.Decimal `json:"offer_percent,omitempty"`
	TaxableAmount decimal.Decimal  `json:"taxable_amount"`
	TaxAmount     decimal.Decimal  `json:"tax_amount"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
}

// View is the caller's cart with running totals.
type View struct {
	ShopID       *uuid.UUID      `json:"shop_id,omitempty"`
	Lines        []LineView      `json:"lines"`
	TaxableTotal decimal.Decimal `json:"taxable_total"`
	TaxTotal     decimal.Decimal `json:"tax_total"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}
