package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindShop(ctx context.Context, shopID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Where("id = ?", shopID).
		First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *repository) FindShopItem(ctx context.Context, shopItemID uuid.UUID) (*models.ShopItem, error) {
	var shopItem models.ShopItem
	err := r.db.WithContext(ctx).
		Preload("Item.TaxCode").
		Preload("Offers").
		Where("id = ?", shopItemID).
		First(&shopItem).Error
	if err != nil {
		return nil, err
	}
	return &shopItem, nil
}

func (r *repository) FindConditionByShop(ctx context.Context, shopID uuid.UUID) (*models.DeliveryCondition, error) {
	var cond models.DeliveryCondition
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		First(&cond).Error
	if err != nil {
		return nil, err
	}
	return &cond, nil
}
