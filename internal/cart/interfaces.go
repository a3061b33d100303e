package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
)

// Repository defines persistence operations for cart lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error)
	FindLine(ctx context.Context, customerID, shopItemID uuid.UUID) (*models.CartItem, error)
	FindLineByID(ctx context.Context, cartItemID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, line *models.CartItem) error
	UpdateQuantity(ctx context.Context, cartItemID uuid.UUID, quantity int) error
	Delete(ctx context.Context, cartItemID uuid.UUID) error
	DeleteAllForCustomer(ctx context.Context, customerID uuid.UUID) error
}
