package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zestcart/zestcart-backend/pkg/enums"
)

// Shop is a single storefront. Lat/Lng is the delivery origin used for
// distance lookups.
type Shop struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index"`
	Name      string         `gorm:"column:name;not null"`
	Type      enums.ShopType `gorm:"column:type;type:text;not null;default:'restaurant'"`
	GSTNumber *string        `gorm:"column:gst_number"`
	Lat       float64        `gorm:"column:lat;not null"`
	Lng       float64        `gorm:"column:lng;not null"`
	Active    bool           `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// DeliveryCondition is the shop's delivery policy. At most one row per
// shop (unique index); a shop without one cannot quote delivery.
type DeliveryCondition struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID               uuid.UUID       `gorm:"column:shop_id;type:uuid;not null;uniqueIndex"`
	FreeDeliveryAmount   decimal.Decimal `gorm:"column:free_delivery_amount;type:numeric(10,2);not null"`
	FreeDeliveryDistance decimal.Decimal `gorm:"column:free_delivery_distance;type:numeric(10,2);not null"`
	MaximumDistance      decimal.Decimal `gorm:"column:maximum_distance;type:numeric(10,2);not null"`
	PerKMCharge          decimal.Decimal `gorm:"column:per_km_charge;type:numeric(10,2);not null"`
	// BaseCharge is the flat fallback used by totals recompute when no
	// explicit delivery charge was quoted.
	BaseCharge decimal.Decimal `gorm:"column:base_charge;type:numeric(10,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
