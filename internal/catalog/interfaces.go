package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
)

// Repository exposes read-only catalog lookups. Catalog writes happen
// through the admin surface, not this service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindShop(ctx context.Context, shopID uuid.UUID) (*models.Shop, error)
	FindShopItem(ctx context.Context, shopItemID uuid.UUID) (*models.ShopItem, error)
	FindConditionByShop(ctx context.Context, shopID uuid.UUID) (*models.DeliveryCondition, error)
}
