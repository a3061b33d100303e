package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/internal/cart"
	"github.com/zestcart/zestcart-backend/internal/catalog"
	"github.com/zestcart/zestcart-backend/internal/orders"
	"github.com/zestcart/zestcart-backend/pkg/db/models"
	"github.com/zestcart/zestcart-backend/pkg/enums"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
	"github.com/zestcart/zestcart-backend/pkg/outbox"
	"github.com/zestcart/zestcart-backend/pkg/pagination"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubCartRepo struct {
	lines map[uuid.UUID]*models.CartItem
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, line := range s.lines {
		if line.CustomerID == customerID {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (s *stubCartRepo) FindLine(ctx context.Context, customerID, shopItemID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindLineByID(ctx context.Context, cartItemID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Create(ctx context.Context, line *models.CartItem) error { return nil }

func (s *stubCartRepo) UpdateQuantity(ctx context.Context, cartItemID uuid.UUID, quantity int) error {
	return nil
}

func (s *stubCartRepo) Delete(ctx context.Context, cartItemID uuid.UUID) error { return nil }

func (s *stubCartRepo) DeleteAllForCustomer(ctx context.Context, customerID uuid.UUID) error {
	for id, line := range s.lines {
		if line.CustomerID == customerID {
			delete(s.lines, id)
		}
	}
	return nil
}

type stubCatalogRepo struct {
	conditions map[uuid.UUID]*models.DeliveryCondition
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) catalog.Repository { return s }

func (s *stubCatalogRepo) FindShop(ctx context.Context, shopID uuid.UUID) (*models.Shop, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) FindShopItem(ctx context.Context, shopItemID uuid.UUID) (*models.ShopItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) FindConditionByShop(ctx context.Context, shopID uuid.UUID) (*models.DeliveryCondition, error) {
	if cond, ok := s.conditions[shopID]; ok {
		return cond, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubOrderRepo struct {
	created   []*models.Order
	createErr error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, order)
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) List(ctx context.Context, scope orders.VisibilityScope, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return nil
}

func (s *stubOrderRepo) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error {
	return nil
}

func (s *stubOrderRepo) AssignDeliveryBoy(ctx context.Context, orderID, deliveryBoyID uuid.UUID) error {
	return nil
}

type stubAddresses struct {
	addresses map[uuid.UUID]*models.Address
}

func (s *stubAddresses) FindByID(ctx context.Context, addressID uuid.UUID) (*models.Address, error) {
	if address, ok := s.addresses[addressID]; ok {
		return address, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fixture struct {
	carts      *stubCartRepo
	catalog    *stubCatalogRepo
	orders     *stubOrderRepo
	addresses  *stubAddresses
	emitter    *stubEmitter
	svc        Service
	customerID uuid.UUID
	shopID     uuid.UUID
	addressID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		carts:      &stubCartRepo{lines: map[uuid.UUID]*models.CartItem{}},
		catalog:    &stubCatalogRepo{conditions: map[uuid.UUID]*models.DeliveryCondition{}},
		orders:     &stubOrderRepo{},
		addresses:  &stubAddresses{addresses: map[uuid.UUID]*models.Address{}},
		emitter:    &stubEmitter{},
		customerID: uuid.New(),
		shopID:     uuid.New(),
		addressID:  uuid.New(),
	}
	f.addresses.addresses[f.addressID] = &models.Address{
		ID:         f.addressID,
		CustomerID: f.customerID,
	}
	f.catalog.conditions[f.shopID] = &models.DeliveryCondition{
		ID:         uuid.New(),
		ShopID:     f.shopID,
		BaseCharge: dec("25.00"),
	}

	svc, err := NewService(f.carts, f.catalog, f.orders, f.addresses, stubTx{}, f.emitter, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) addLine(price, gst string, qty int) {
	shopItem := &models.ShopItem{
		ID:        uuid.New(),
		ShopID:    f.shopID,
		Price:     dec(price),
		Available: true,
		Item: &models.Item{
			Name:    "Paneer Tikka",
			TaxCode: &models.TaxCode{GSTPercent: dec(gst)},
		},
	}
	line := &models.CartItem{
		ID:         uuid.New(),
		CustomerID: f.customerID,
		ShopItemID: shopItem.ID,
		Quantity:   qty,
		ShopItem:   shopItem,
	}
	f.carts.lines[line.ID] = line
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	f.addLine("118.00", "18", 2)
	f.addLine("59.00", "18", 1)

	charge := dec("40.00")
	view, err := f.svc.Checkout(context.Background(), Input{
		CustomerID:     f.customerID,
		AddressID:      f.addressID,
		DeliveryCharge: &charge,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if view.Status != enums.OrderStatusPending || view.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("fresh order should be pending/pending, got %s/%s", view.Status, view.PaymentStatus)
	}
	if len(view.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(view.Items))
	}
	// 236.00 + 59.00 lines, explicit charge wins over base charge.
	if !view.DeliveryCharge.Equal(dec("40.00")) {
		t.Fatalf("delivery charge = %s, want 40.00", view.DeliveryCharge)
	}
	if !view.GrandTotal.Equal(dec("335.00")) {
		t.Fatalf("grand total = %s, want 335.00", view.GrandTotal)
	}
	if len(f.carts.lines) != 0 {
		t.Fatal("cart must be empty after checkout")
	}
	if len(f.emitter.events) != 1 || f.emitter.events[0].EventType != enums.OutboxEventOrderPlaced {
		t.Fatalf("expected order.placed event, got %v", f.emitter.events)
	}
}

func TestCheckoutFallsBackToBaseCharge(t *testing.T) {
	f := newFixture(t)
	f.addLine("100.00", "0", 1)

	view, err := f.svc.Checkout(context.Background(), Input{
		CustomerID: f.customerID,
		AddressID:  f.addressID,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !view.DeliveryCharge.Equal(dec("25.00")) {
		t.Fatalf("delivery charge = %s, want base charge 25.00", view.DeliveryCharge)
	}
	if !view.GrandTotal.Equal(dec("125.00")) {
		t.Fatalf("grand total = %s, want 125.00", view.GrandTotal)
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), Input{
		CustomerID: f.customerID,
		AddressID:  f.addressID,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.orders.created) != 0 || len(f.emitter.events) != 0 {
		t.Fatal("empty cart checkout must not mutate anything")
	}
}

func TestCheckoutForeignAddressForbidden(t *testing.T) {
	f := newFixture(t)
	f.addLine("100.00", "5", 1)
	otherAddress := uuid.New()
	f.addresses.addresses[otherAddress] = &models.Address{
		ID:         otherAddress,
		CustomerID: uuid.New(),
	}

	_, err := f.svc.Checkout(context.Background(), Input{
		CustomerID: f.customerID,
		AddressID:  otherAddress,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCheckoutMissingConditionDefaultsChargeToZero(t *testing.T) {
	f := newFixture(t)
	f.addLine("100.00", "0", 1)
	delete(f.catalog.conditions, f.shopID)

	view, err := f.svc.Checkout(context.Background(), Input{
		CustomerID: f.customerID,
		AddressID:  f.addressID,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !view.DeliveryCharge.IsZero() {
		t.Fatalf("delivery charge = %s, want 0 without a condition", view.DeliveryCharge)
	}
	if !view.GrandTotal.Equal(dec("100.00")) {
		t.Fatalf("grand total = %s, want 100.00", view.GrandTotal)
	}
	if len(f.orders.created) != 1 {
		t.Fatalf("orders created = %d, want 1", len(f.orders.created))
	}
	if len(f.carts.lines) != 0 {
		t.Fatal("cart must be empty after checkout")
	}
}

func TestCheckoutCallerChargeWinsWithoutCondition(t *testing.T) {
	f := newFixture(t)
	f.addLine("100.00", "0", 1)
	delete(f.catalog.conditions, f.shopID)

	charge := dec("30.00")
	view, err := f.svc.Checkout(context.Background(), Input{
		CustomerID:     f.customerID,
		AddressID:      f.addressID,
		DeliveryCharge: &charge,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !view.DeliveryCharge.Equal(dec("30.00")) {
		t.Fatalf("delivery charge = %s, want 30.00", view.DeliveryCharge)
	}
	if !view.GrandTotal.Equal(dec("130.00")) {
		t.Fatalf("grand total = %s, want 130.00", view.GrandTotal)
	}
}

func TestCheckoutCreateFailureLeavesCart(t *testing.T) {
	f := newFixture(t)
	f.addLine("100.00", "5", 1)
	f.orders.createErr = errors.New("insert failed")

	_, err := f.svc.Checkout(context.Background(), Input{
		CustomerID: f.customerID,
		AddressID:  f.addressID,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(f.carts.lines) != 1 {
		t.Fatal("failed checkout must leave the cart intact")
	}
	if len(f.emitter.events) != 0 {
		t.Fatal("failed checkout must not emit events")
	}
}

func TestCheckoutSnapshotsOfferPrice(t *testing.T) {
	f := newFixture(t)
	f.addLine("118.00", "18", 1)
	for _, line := range f.carts.lines {
		now := time.Now()
		line.ShopItem.Offers = []models.ShopItemOffer{{
			ID:              uuid.New(),
			ShopItemID:      line.ShopItemID,
			DiscountPercent: dec("10"),
			StartsAt:        now.Add(-time.Hour),
			EndsAt:          now.Add(time.Hour),
			Active:          true,
		}}
	}

	view, err := f.svc.Checkout(context.Background(), Input{
		CustomerID: f.customerID,
		AddressID:  f.addressID,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !view.Items[0].UnitPrice.Equal(dec("106.20")) {
		t.Fatalf("unit price = %s, want offer price 106.20", view.Items[0].UnitPrice)
	}
}
