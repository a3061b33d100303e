package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
)

// GSTPercent resolves the tax rate for a shop item. Items without a
// tax code price at rate zero.
func GSTPercent(shopItem *models.ShopItem) decimal.Decimal {
	if shopItem == nil || shopItem.Item == nil || shopItem.Item.TaxCode == nil {
		return decimal.Zero
	}
	return shopItem.Item.TaxCode.GSTPercent
}

// ActiveOfferPercent returns the discount of the offer active at the
// given instant, or nil when none applies.
func ActiveOfferPercent(shopItem *models.ShopItem, at time.Time) *decimal.Decimal {
	if shopItem == nil {
		return nil
	}
	for i := range shopItem.Offers {
		if shopItem.Offers[i].ActiveAt(at) {
			pct := shopItem.Offers[i].DiscountPercent
			return &pct
		}
	}
	return nil
}

// ItemName returns the display name for a shop item line.
func ItemName(shopItem *models.ShopItem) string {
	if shopItem == nil || shopItem.Item == nil {
		return ""
	}
	return shopItem.Item.Name
}
