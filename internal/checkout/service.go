package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/internal/cart"
	"github.com/zestcart/zestcart-backend/internal/catalog"
	"github.com/zestcart/zestcart-backend/internal/orders"
	"github.com/zestcart/zestcart-backend/internal/pricing"
	"github.com/zestcart/zestcart-backend/pkg/db/models"
	"github.com/zestcart/zestcart-backend/pkg/enums"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
	"github.com/zestcart/zestcart-backend/pkg/metrics"
	"github.com/zestcart/zestcart-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type addressReader interface {
	FindByID(ctx context.Context, addressID uuid.UUID) (*models.Address, error)
}

// Service turns the caller's cart into a placed order.
type Service interface {
	Checkout(ctx context.Context, input Input) (*orders.View, error)
}

// Input carries one checkout request. DeliveryCharge is the fee the
// caller accepted from a delivery quote; zero or absent falls back to
// the shop condition's base charge.
type Input struct {
	CustomerID     uuid.UUID
	AddressID      uuid.UUID
	DeliveryCharge *decimal.Decimal
}

type service struct {
	carts     cart.Repository
	catalog   catalog.Repository
	orders    orders.Repository
	addresses addressReader
	tx        txRunner
	events    eventEmitter
	metrics   *metrics.CheckoutMetrics
	now       func() time.Time
}

// NewService builds the checkout service. Metrics may be nil.
func NewService(carts cart.Repository, catalogRepo catalog.Repository, orderRepo orders.Repository, addresses addressReader, tx txRunner, events eventEmitter, checkoutMetrics *metrics.CheckoutMetrics) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		carts:     carts,
		catalog:   catalogRepo,
		orders:    orderRepo,
		addresses: addresses,
		tx:        tx,
		events:    events,
		metrics:   checkoutMetrics,
		now:       time.Now,
	}, nil
}

func (s *service) Checkout(ctx context.Context, input Input) (*orders.View, error) {
	view, err := s.checkout(ctx, input)
	if err != nil {
		code := string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
		s.metrics.IncFailure(code)
		return nil, err
	}
	s.metrics.IncSuccess(view.ShopID.String())
	return view, nil
}

func (s *service) checkout(ctx context.Context, input Input) (*orders.View, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.AddressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	if input.DeliveryCharge != nil && input.DeliveryCharge.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery charge cannot be negative")
	}

	var view *orders.View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		lines, err := carts.ListByCustomer(ctx, input.CustomerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		address, err := s.addresses.FindByID(ctx, input.AddressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}
		if address.CustomerID != input.CustomerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another customer")
		}

		shopID, priced, err := s.priceCart(lines)
		if err != nil {
			return err
		}

		// A shop without a delivery condition can still be ordered from;
		// the fallback charge is simply zero. Only the quote endpoint
		// treats a missing condition as a policy error.
		fallbackCharge := decimal.Zero
		cond, err := catalogRepo.FindConditionByShop(ctx, shopID)
		switch {
		case err == nil:
			fallbackCharge = cond.BaseCharge
		case errors.Is(err, gorm.ErrRecordNotFound):
			// keep the zero fallback
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery condition")
		}

		callerCharge := decimal.Zero
		if input.DeliveryCharge != nil {
			callerCharge = *input.DeliveryCharge
		}
		totals := pricing.Recompute(priced, callerCharge, fallbackCharge)

		order := buildOrder(input, shopID, priced, totals)
		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := carts.DeleteAllForCustomer(ctx, input.CustomerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderPlaced,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor: &outbox.ActorRef{
				UserID: input.CustomerID,
				Role:   string(enums.UserRoleCustomer),
			},
			Data: map[string]any{
				"order_id":    order.ID.String(),
				"shop_id":     shopID.String(),
				"grand_total": totals.GrandTotal,
			},
			Version:    1,
			OccurredAt: s.now(),
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue order event")
		}

		view = orders.ToView(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// priceCart snapshots each cart line at the offer active right now and
// confirms the single-shop invariant still holds.
func (s *service) priceCart(lines []models.CartItem) (uuid.UUID, []pricing.PricedLine, error) {
	at := s.now()
	var shopID uuid.UUID
	priced := make([]pricing.PricedLine, 0, len(lines))

	for i := range lines {
		shopItem := lines[i].ShopItem
		if shopItem == nil {
			return uuid.Nil, nil, pkgerrors.New(pkgerrors.CodeInternal, "cart line missing shop item")
		}
		if !shopItem.Available {
			return uuid.Nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%s is no longer available", catalog.ItemName(shopItem)))
		}
		if shopID == uuid.Nil {
			shopID = shopItem.ShopID
		} else if shopID != shopItem.ShopID {
			return uuid.Nil, nil, pkgerrors.New(pkgerrors.CodeConflict, "cart spans multiple shops")
		}

		line, err := pricing.PriceLine(pricing.LineInput{
			ShopItemID:   shopItem.ID,
			Name:         catalog.ItemName(shopItem),
			Quantity:     lines[i].Quantity,
			BasePrice:    shopItem.Price,
			OfferPercent: catalog.ActiveOfferPercent(shopItem, at),
			GSTPercent:   catalog.GSTPercent(shopItem),
		})
		if err != nil {
			return uuid.Nil, nil, err
		}
		priced = append(priced, line)
	}
	return shopID, priced, nil
}

func buildOrder(input Input, shopID uuid.UUID, priced []pricing.PricedLine, totals pricing.Totals) *models.Order {
	items := make([]models.OrderItem, 0, len(priced))
	for _, line := range priced {
		items = append(items, models.OrderItem{
			ID:            uuid.New(),
			ShopItemID:    line.ShopItemID,
			Name:          line.Name,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			GSTPercent:    line.GSTPercent,
			TaxableAmount: line.TaxableAmount,
			TaxAmount:     line.TaxAmount,
			Subtotal:      line.Subtotal,
		})
	}
	return &models.Order{
		ID:             uuid.New(),
		CustomerID:     input.CustomerID,
		ShopID:         shopID,
		AddressID:      input.AddressID,
		Status:         enums.OrderStatusPending,
		PaymentStatus:  enums.PaymentStatusPending,
		TaxableTotal:   totals.TaxableTotal,
		TaxTotal:       totals.TaxTotal,
		DeliveryCharge: totals.DeliveryCharge,
		GrandTotal:     totals.GrandTotal,
		Items:          items,
	}
}
