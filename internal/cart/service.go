package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/internal/catalog"
	"github.com/zestcart/zestcart-backend/internal/pricing"
	"github.com/zestcart/zestcart-backend/pkg/db/models"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines cart operations for the authenticated customer.
type Service interface {
	List(ctx context.Context, customerID uuid.UUID) (*View, error)
	Add(ctx context.Context, input AddInput) (*View, error)
	Remove(ctx context.Context, customerID, cartItemID uuid.UUID) error
}

// AddInput carries one add/merge request. Reset confirms clearing a
// cart that belongs to a different shop.
type AddInput struct {
	CustomerID uuid.UUID
	ShopItemID uuid.UUID
	Quantity   int
	Reset      bool
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	tx      txRunner
	now     func() time.Time
}

// NewService builds the cart service with the required dependencies.
func NewService(repo Repository, catalogRepo catalog.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		catalog: catalogRepo,
		tx:      tx,
		now:     time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID) (*View, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	lines, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return buildView(lines, s.now())
}

func (s *service) Add(ctx context.Context, input AddInput) (*View, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ShopItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop item id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var view *View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)

		shopItem, err := catalogRepo.FindShopItem(ctx, input.ShopItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shop item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop item")
		}
		if !shopItem.Available {
			return pkgerrors.New(pkgerrors.CodeValidation, "shop item is not available")
		}

		existing, err := repo.ListByCustomer(ctx, input.CustomerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		if cartShop := cartShopID(existing); cartShop != nil && *cartShop != shopItem.ShopID {
			if !input.Reset {
				return pkgerrors.New(pkgerrors.CodeConflict, "cart contains items from another shop").
					WithDetails(map[string]any{
						"requires_reset":    true,
						"cart_shop_id":      cartShop.String(),
						"requested_shop_id": shopItem.ShopID.String(),
					})
			}
			if err := repo.DeleteAllForCustomer(ctx, input.CustomerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart")
			}
			existing = nil
		}

		merged := false
		for i := range existing {
			if existing[i].ShopItemID == input.ShopItemID {
				if err := repo.UpdateQuantity(ctx, existing[i].ID, existing[i].Quantity+input.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
				}
				merged = true
				break
			}
		}
		if !merged {
			line := models.CartItem{
				ID:         uuid.New(),
				CustomerID: input.CustomerID,
				ShopItemID: input.ShopItemID,
				Quantity:   input.Quantity,
			}
			if err := repo.Create(ctx, &line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
			}
		}

		lines, err := repo.ListByCustomer(ctx, input.CustomerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
		}
		view, err = buildView(lines, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) Remove(ctx context.Context, customerID, cartItemID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if cartItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id required")
	}

	line, err := s.repo.FindLineByID(ctx, cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if line.CustomerID != customerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cart line belongs to another customer")
	}
	if err := s.repo.Delete(ctx, cartItemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return nil
}

// cartShopID returns the single shop the cart lines belong to, or nil
// for an empty cart. Lines are single-shop by construction.
func cartShopID(lines []models.CartItem) *uuid.UUID {
	for i := range lines {
		if lines[i].ShopItem != nil {
			shopID := lines[i].ShopItem.ShopID
			return &shopID
		}
	}
	return nil
}

func buildView(lines []models.CartItem, at time.Time) (*View, error) {
	view := &View{
		Lines:        make([]LineView, 0, len(lines)),
		TaxableTotal: decimal.Zero,
		TaxTotal:     decimal.Zero,
		Subtotal:     decimal.Zero,
	}

	for i := range lines {
		shopItem := lines[i].ShopItem
		if shopItem == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart line missing shop item")
		}
		offerPct := catalog.ActiveOfferPercent(shopItem, at)
		priced, err := pricing.PriceLine(pricing.LineInput{
			ShopItemID:   shopItem.ID,
			Name:         catalog.ItemName(shopItem),
			Quantity:     lines[i].Quantity,
			BasePrice:    shopItem.Price,
			OfferPercent: offerPct,
			GSTPercent:   catalog.GSTPercent(shopItem),
		})
		if err != nil {
			return nil, err
		}

		if view.ShopID == nil {
			shopID := shopItem.ShopID
			view.ShopID = &shopID
		}
		view.Lines = append(view.Lines, LineView{
			CartItemID:    lines[i].ID,
			ShopItemID:    shopItem.ID,
			Name:          priced.Name,
			Quantity:      priced.Quantity,
			BasePrice:     shopItem.Price,
			UnitPrice:     priced.UnitPrice,
			OfferPercent:  offerPct,
			TaxableAmount: priced.TaxableAmount,
			TaxAmount:     priced.TaxAmount,
			Subtotal:      priced.Subtotal,
		})
		view.TaxableTotal = view.TaxableTotal.Add(priced.TaxableAmount)
		view.TaxTotal = view.TaxTotal.Add(priced.TaxAmount)
		view.Subtotal = view.Subtotal.Add(priced.Subtotal)
	}

	view.TaxableTotal = view.TaxableTotal.Round(2)
	view.TaxTotal = view.TaxTotal.Round(2)
	view.Subtotal = view.Subtotal.Round(2)
	return view, nil
}
