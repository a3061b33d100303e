package delivery

import (
	"github.com/shopspring/decimal"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
)

// Quote is the outcome of the delivery fee decision. Fee is nil when
// the shop does not deliver at the given distance.
type Quote struct {
	Available bool
	Fee       *decimal.Decimal
	Message   string
}

// ComputeFee applies the shop's delivery policy to a distance and the
// order total. Tiers are evaluated in order: out of range, free
// delivery, per-km charge.
func ComputeFee(distanceKM, orderTotal decimal.Decimal, cond models.DeliveryCondition) Quote {
	if distanceKM.GreaterThan(cond.MaximumDistance) {
		return Quote{
			Available: false,
			Message:   "not available in this range",
		}
	}

	if distanceKM.LessThanOrEqual(cond.FreeDeliveryDistance) && orderTotal.GreaterThanOrEqual(cond.FreeDeliveryAmount) {
		fee := decimal.Zero
		return Quote{
			Available: true,
			Fee:       &fee,
			Message:   "free delivery",
		}
	}

	fee := distanceKM.Mul(cond.PerKMCharge).Round(2)
	return Quote{
		Available: true,
		Fee:       &fee,
		Message:   "delivery charge applied",
	}
}
