package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category / SubCategory are read-only taxonomy here; their admin CRUD
// lives elsewhere.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type SubCategory struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TaxCode carries the HSN code and its GST percentage. Items without a
// tax code price at rate zero.
type TaxCode struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	HSNCode    string          `gorm:"column:hsn_code;not null;uniqueIndex"`
	GSTPercent decimal.Decimal `gorm:"column:gst_percent;type:numeric(5,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Item is the catalog-level product; ShopItem binds it to a shop with a
// GST-inclusive price.
type Item struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SubCategoryID uuid.UUID  `gorm:"column:sub_category_id;type:uuid;not null;index"`
	TaxCodeID     *uuid.UUID `gorm:"column:tax_code_id;type:uuid"`
	Name          string     `gorm:"column:name;not null"`
	Description   *string    `gorm:"column:description"`
	TaxCode       *TaxCode   `gorm:"foreignKey:TaxCodeID"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

type ShopItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID    uuid.UUID       `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:idx_shop_items_shop_item"`
	ItemID    uuid.UUID       `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_shop_items_shop_item"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Available bool            `gorm:"column:available;not null;default:true"`
	Item      *Item           `gorm:"foreignKey:ItemID"`
	Offers    []ShopItemOffer `gorm:"foreignKey:ShopItemID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ShopItemOffer is a percentage discount with a [StartsAt, EndsAt)
// validity window. At most one offer should be active per shop item at
// any instant.
type ShopItemOffer struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopItemID      uuid.UUID       `gorm:"column:shop_item_id;type:uuid;not null;index"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	StartsAt        time.Time       `gorm:"column:starts_at;not null"`
	EndsAt          time.Time       `gorm:"column:ends_at;not null"`
	Active          bool            `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveAt reports whether the offer applies at the given instant.
func (o ShopItemOffer) ActiveAt(at time.Time) bool {
	if !o.Active {
		return false
	}
	return !at.Before(o.StartsAt) && at.Before(o.EndsAt)
}
