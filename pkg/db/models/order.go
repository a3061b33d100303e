package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zestcart/zestcart-backend/pkg/enums"
)

// Order is the placed order produced from a cart checkout. Rows are
// never deleted; cancellation is a status.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID     uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	ShopID         uuid.UUID           `gorm:"column:shop_id;type:uuid;not null;index"`
	DeliveryBoyID  *uuid.UUID          `gorm:"column:delivery_boy_id;type:uuid;index"`
	AddressID      uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	Status         enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	TaxableTotal   decimal.Decimal     `gorm:"column:taxable_total;type:numeric(10,2);not null"`
	TaxTotal       decimal.Decimal     `gorm:"column:tax_total;type:numeric(10,2);not null"`
	DeliveryCharge decimal.Decimal     `gorm:"column:delivery_charge;type:numeric(10,2);not null"`
	GrandTotal     decimal.Decimal     `gorm:"column:grand_total;type:numeric(10,2);not null"`
	Items          []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem freezes a cart line at checkout time: unit price after the
// offer, plus the derived taxable and tax components.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ShopItemID    uuid.UUID       `gorm:"column:shop_item_id;type:uuid;not null"`
	Name          string          `gorm:"column:name;not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	GSTPercent    decimal.Decimal `gorm:"column:gst_percent;type:numeric(5,2);not null"`
	TaxableAmount decimal.Decimal `gorm:"column:taxable_amount;type:numeric(10,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"column:tax_amount;type:numeric(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
