package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a customer's open cart. A customer holds at
// most one line per shop item; adds merge into the existing row.
type CartItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:idx_cart_items_customer_shop_item"`
	ShopItemID uuid.UUID `gorm:"column:shop_item_id;type:uuid;not null;uniqueIndex:idx_cart_items_customer_shop_item"`
	Quantity   int       `gorm:"column:quantity;not null"`
	ShopItem   *ShopItem `gorm:"foreignKey:ShopItemID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
