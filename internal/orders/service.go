package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
	"github.com/zestcart/zestcart-backend/pkg/enums"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
	"github.com/zestcart/zestcart-backend/pkg/outbox"
	"github.com/zestcart/zestcart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes order reads and the admin-side lifecycle mutations.
type Service interface {
	Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*View, error)
	List(ctx context.Context, actor Actor, params pagination.Params) (*ListResult, error)
	StatusChoices() StatusChoices
	UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status enums.OrderStatus) (*View, error)
	UpdatePaymentStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status enums.PaymentStatus) (*View, error)
	Assign(ctx context.Context, actor Actor, orderID, deliveryBoyID uuid.UUID) (*View, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	events eventEmitter
	now    func() time.Time
}

// NewService builds the orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		events: events,
		now:    time.Now,
	}, nil
}

func (s *service) Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*View, error) {
	scope, err := ScopeFor(actor)
	if err != nil {
		return nil, err
	}
	order, err := s.loadVisible(ctx, scope, orderID)
	if err != nil {
		return nil, err
	}
	return ToView(order), nil
}

func (s *service) List(ctx context.Context, actor Actor, params pagination.Params) (*ListResult, error) {
	scope, err := ScopeFor(actor)
	if err != nil {
		return nil, err
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, scope, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &ListResult{Orders: make([]View, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	for i := range rows {
		result.Orders = append(result.Orders, *ToView(&rows[i]))
	}
	return result, nil
}

func (s *service) StatusChoices() StatusChoices {
	return StatusChoices{
		Statuses:        enums.OrderStatuses(),
		PaymentStatuses: enums.PaymentStatuses(),
	}
}

func (s *service) UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status enums.OrderStatus) (*View, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var view *View
	err := s.mutate(ctx, actor, orderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		if order.Status == status {
			view = ToView(order)
			return nil
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is already %s", order.Status))
		}
		if err := repo.UpdateStatus(ctx, order.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderStatusChanged,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(actor),
			Data: map[string]any{
				"order_id": order.ID.String(),
				"from":     order.Status,
				"to":       status,
			},
			Version:    1,
			OccurredAt: s.now(),
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue status event")
		}
		order.Status = status
		view = ToView(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status enums.PaymentStatus) (*View, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	var view *View
	err := s.mutate(ctx, actor, orderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		if order.PaymentStatus == status {
			view = ToView(order)
			return nil
		}
		if err := repo.UpdatePaymentStatus(ctx, order.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
		}
		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderPaymentChanged,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(actor),
			Data: map[string]any{
				"order_id": order.ID.String(),
				"from":     order.PaymentStatus,
				"to":       status,
			},
			Version:    1,
			OccurredAt: s.now(),
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue payment event")
		}
		order.PaymentStatus = status
		view = ToView(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) Assign(ctx context.Context, actor Actor, orderID, deliveryBoyID uuid.UUID) (*View, error) {
	if deliveryBoyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery boy id required")
	}

	var view *View
	err := s.mutate(ctx, actor, orderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is already %s", order.Status))
		}
		if err := repo.AssignDeliveryBoy(ctx, order.ID, deliveryBoyID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign delivery boy")
		}
		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderAssigned,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(actor),
			Data: map[string]any{
				"order_id":        order.ID.String(),
				"delivery_boy_id": deliveryBoyID.String(),
			},
			Version:    1,
			OccurredAt: s.now(),
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue assign event")
		}
		assigned := deliveryBoyID
		order.DeliveryBoyID = &assigned
		view = ToView(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// mutate runs one admin mutation inside a transaction after the role
// and visibility checks pass.
func (s *service) mutate(ctx context.Context, actor Actor, orderID uuid.UUID, fn func(tx *gorm.DB, repo Repository, order *models.Order) error) error {
	if actor.Role != enums.UserRoleShopAdmin && actor.Role != enums.UserRoleSuperAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot modify orders")
	}
	scope, err := ScopeFor(actor)
	if err != nil {
		return err
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := findVisible(ctx, repo, scope, orderID)
		if err != nil {
			return err
		}
		return fn(tx, repo, order)
	})
}

func (s *service) loadVisible(ctx context.Context, scope VisibilityScope, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return findVisible(ctx, s.repo, scope, orderID)
}

func findVisible(ctx context.Context, repo Repository, scope VisibilityScope, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	// Out-of-scope orders are indistinguishable from missing ones.
	if !scope.Allows(order) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func actorRef(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID: actor.UserID,
		ShopID: actor.ShopID,
		Role:   string(actor.Role),
	}
}
