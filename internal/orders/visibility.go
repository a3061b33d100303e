package orders

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
	"github.com/zestcart/zestcart-backend/pkg/enums"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
)

// Actor is the authenticated caller as seen by the orders domain.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
	// ShopID is present on shopadmin tokens.
	ShopID *uuid.UUID
}

// VisibilityScope narrows order reads to what one role may see. Each
// role carries its own scope variant instead of branching on the role
// string at every query site.
type VisibilityScope interface {
	Apply(q *gorm.DB) *gorm.DB
	Allows(order *models.Order) bool
}

// ScopeFor resolves the actor's role to its visibility scope.
func ScopeFor(actor Actor) (VisibilityScope, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	switch actor.Role {
	case enums.UserRoleCustomer:
		return customerScope{customerID: actor.UserID}, nil
	case enums.UserRoleShopAdmin:
		if actor.ShopID == nil || *actor.ShopID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shop admin token has no shop")
		}
		return shopScope{shopID: *actor.ShopID}, nil
	case enums.UserRoleDeliveryBoy:
		return deliveryBoyScope{deliveryBoyID: actor.UserID}, nil
	case enums.UserRoleSuperAdmin:
		return allScope{}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}
}

type customerScope struct {
	customerID uuid.UUID
}

func (s customerScope) Apply(q *gorm.DB) *gorm.DB {
	return q.Where("customer_id = ?", s.customerID)
}

func (s customerScope) Allows(order *models.Order) bool {
	return order != nil && order.CustomerID == s.customerID
}

type shopScope struct {
	shopID uuid.UUID
}

func (s shopScope) Apply(q *gorm.DB) *gorm.DB {
	return q.Where("shop_id = ?", s.shopID)
}

func (s shopScope) Allows(order *models.Order) bool {
	return order != nil && order.ShopID == s.shopID
}

type deliveryBoyScope struct {
	deliveryBoyID uuid.UUID
}

func (s deliveryBoyScope) Apply(q *gorm.DB) *gorm.DB {
	return q.Where("delivery_boy_id = ?", s.deliveryBoyID)
}

func (s deliveryBoyScope) Allows(order *models.Order) bool {
	return order != nil && order.DeliveryBoyID != nil && *order.DeliveryBoyID == s.deliveryBoyID
}

type allScope struct{}

func (allScope) Apply(q *gorm.DB) *gorm.DB { return q }

func (allScope) Allows(order *models.Order) bool { return order != nil }
