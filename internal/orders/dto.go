package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
	"github.com/zestcart/zestcart-backend/pkg/enums"
)

// ItemView is one frozen order line.
type ItemView struct {
	ID            uuid.UUID       `json:"id"`
	ShopItemID    uuid.UUID       `json:"shop_item_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	GSTPercent    decimal.Decimal `json:"gst_percent"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// View is a placed order as returned to clients.
type View struct {
	ID             uuid.UUID           `json:"id"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	ShopID         uuid.UUID           `json:"shop_id"`
	DeliveryBoyID  *uuid.UUID          `json:"delivery_boy_id,omitempty"`
	AddressID      uuid.UUID           `json:"address_id"`
	Status         enums.OrderStatus   `json:"status"`
	PaymentStatus  enums.PaymentStatus `json:"payment_status"`
	TaxableTotal   decimal.Decimal     `json:"taxable_total"`
	TaxTotal       decimal.Decimal     `json:"tax_total"`
	DeliveryCharge decimal.Decimal     `json:"delivery_charge"`
	GrandTotal     decimal.Decimal     `json:"grand_total"`
	Items          []ItemView          `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ListResult is one page of orders plus the cursor for the next page.
type ListResult struct {
	Orders     []View  `json:"orders"`
	NextCursor *string `json:"next_cursor,omitempty"`
}

// StatusChoices enumerates the valid order and payment statuses.
type StatusChoices struct {
	Statuses        []enums.OrderStatus   `json:"statuses"`
	PaymentStatuses []enums.PaymentStatus `json:"payment_statuses"`
}

// ToView maps a persisted order into its client shape.
func ToView(order *models.Order) *View {
	items := make([]ItemView, 0, len(order.Items))
	for i := range order.Items {
		item := order.Items[i]
		items = append(items, ItemView{
			ID:            item.ID,
			ShopItemID:    item.ShopItemID,
			Name:          item.Name,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			GSTPercent:    item.GSTPercent,
			TaxableAmount: item.TaxableAmount,
			TaxAmount:     item.TaxAmount,
			Subtotal:      item.Subtotal,
		})
	}
	return &View{
		ID:             order.ID,
		CustomerID:     order.CustomerID,
		ShopID:         order.ShopID,
		DeliveryBoyID:  order.DeliveryBoyID,
		AddressID:      order.AddressID,
		Status:         order.Status,
		PaymentStatus:  order.PaymentStatus,
		TaxableTotal:   order.TaxableTotal,
		TaxTotal:       order.TaxTotal,
		DeliveryCharge: order.DeliveryCharge,
		GrandTotal:     order.GrandTotal,
		Items:          items,
		CreatedAt:      order.CreatedAt,
	}
}
