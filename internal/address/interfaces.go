package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
)

// Repository defines persistence operations for customer addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error)
	FindByID(ctx context.Context, addressID uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, addressID uuid.UUID) error
}
