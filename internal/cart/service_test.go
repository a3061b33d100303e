package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/internal/catalog"
	"github.com/zestcart/zestcart-backend/pkg/db/models"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCartRepo struct {
	lines     map[uuid.UUID]*models.CartItem
	shopItems map[uuid.UUID]*models.ShopItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		lines:     map[uuid.UUID]*models.CartItem{},
		shopItems: map[uuid.UUID]*models.ShopItem{},
	}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, line := range s.lines {
		if line.CustomerID == customerID {
			copied := *line
			copied.ShopItem = s.shopItems[line.ShopItemID]
			out = append(out, copied)
		}
	}
	return out, nil
}

func (s *stubCartRepo) FindLine(ctx context.Context, customerID, shopItemID uuid.UUID) (*models.CartItem, error) {
	for _, line := range s.lines {
		if line.CustomerID == customerID && line.ShopItemID == shopItemID {
			return line, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindLineByID(ctx context.Context, cartItemID uuid.UUID) (*models.CartItem, error) {
	if line, ok := s.lines[cartItemID]; ok {
		return line, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Create(ctx context.Context, line *models.CartItem) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	copied := *line
	s.lines[line.ID] = &copied
	return nil
}

func (s *stubCartRepo) UpdateQuantity(ctx context.Context, cartItemID uuid.UUID, quantity int) error {
	if line, ok := s.lines[cartItemID]; ok {
		line.Quantity = quantity
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Delete(ctx context.Context, cartItemID uuid.UUID) error {
	delete(s.lines, cartItemID)
	return nil
}

func (s *stubCartRepo) DeleteAllForCustomer(ctx context.Context, customerID uuid.UUID) error {
	for id, line := range s.lines {
		if line.CustomerID == customerID {
			delete(s.lines, id)
		}
	}
	return nil
}

type stubShopCatalog struct {
	items map[uuid.UUID]*models.ShopItem
}

func (s *stubShopCatalog) WithTx(tx *gorm.DB) catalog.Repository { return s }

func (s *stubShopCatalog) FindShop(ctx context.Context, shopID uuid.UUID) (*models.Shop, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubShopCatalog) FindShopItem(ctx context.Context, shopItemID uuid.UUID) (*models.ShopItem, error) {
	if item, ok := s.items[shopItemID]; ok {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubShopCatalog) FindConditionByShop(ctx context.Context, shopID uuid.UUID) (*models.DeliveryCondition, error) {
	return nil, gorm.ErrRecordNotFound
}

func newShopItem(shopID uuid.UUID, price, gst string) *models.ShopItem {
	gstPct := dec(gst)
	return &models.ShopItem{
		ID:        uuid.New(),
		ShopID:    shopID,
		Price:     dec(price),
		Available: true,
		Item: &models.Item{
			Name:    "Masala Dosa",
			TaxCode: &models.TaxCode{GSTPercent: gstPct},
		},
	}
}

func newCartService(t *testing.T, repo *stubCartRepo) Service {
	t.Helper()
	cat := &stubShopCatalog{items: repo.shopItems}
	svc, err := NewService(repo, cat, stubTx{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddCreatesLine(t *testing.T) {
	repo := newStubCartRepo()
	shopID := uuid.New()
	item := newShopItem(shopID, "118.00", "18")
	repo.shopItems[item.ID] = item

	svc := newCartService(t, repo)
	customerID := uuid.New()

	view, err := svc.Add(context.Background(), AddInput{
		CustomerID: customerID,
		ShopItemID: item.ID,
		Quantity:   2,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(view.Lines))
	}
	if view.Lines[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", view.Lines[0].Quantity)
	}
	if !view.Subtotal.Equal(dec("236.00")) {
		t.Fatalf("subtotal = %s, want 236.00", view.Subtotal)
	}
	if !view.TaxableTotal.Equal(dec("200.00")) || !view.TaxTotal.Equal(dec("36.00")) {
		t.Fatalf("totals = %s/%s, want 200.00/36.00", view.TaxableTotal, view.TaxTotal)
	}
}

func TestAddMergesExistingLine(t *testing.T) {
	repo := newStubCartRepo()
	shopID := uuid.New()
	item := newShopItem(shopID, "50.00", "5")
	repo.shopItems[item.ID] = item

	svc := newCartService(t, repo)
	customerID := uuid.New()

	if _, err := svc.Add(context.Background(), AddInput{CustomerID: customerID, ShopItemID: item.ID, Quantity: 1}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	view, err := svc.Add(context.Background(), AddInput{CustomerID: customerID, ShopItemID: item.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("lines = %d, want merged single line", len(view.Lines))
	}
	if view.Lines[0].Quantity != 4 {
		t.Fatalf("quantity = %d, want 4", view.Lines[0].Quantity)
	}
}

func TestAddCrossShopWithoutResetConflicts(t *testing.T) {
	repo := newStubCartRepo()
	itemA := newShopItem(uuid.New(), "100.00", "18")
	itemB := newShopItem(uuid.New(), "80.00", "18")
	repo.shopItems[itemA.ID] = itemA
	repo.shopItems[itemB.ID] = itemB

	svc := newCartService(t, repo)
	customerID := uuid.New()

	if _, err := svc.Add(context.Background(), AddInput{CustomerID: customerID, ShopItemID: itemA.ID, Quantity: 1}); err != nil {
		t.Fatalf("seed add: %v", err)
	}

	_, err := svc.Add(context.Background(), AddInput{CustomerID: customerID, ShopItemID: itemB.ID, Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["requires_reset"] != true {
		t.Fatalf("conflict should carry requires_reset, got %v", typed.Details())
	}

	// Cart untouched.
	view, err := svc.List(context.Background(), customerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].ShopItemID != itemA.ID {
		t.Fatal("conflicting add must not mutate the cart")
	}
}

func TestAddCrossShopWithResetReplacesCart(t *testing.T) {
	repo := newStubCartRepo()
	itemA := newShopItem(uuid.New(), "100.00", "18")
	itemA2 := newShopItem(itemA.ShopID, "60.00", "5")
	itemB := newShopItem(uuid.New(), "80.00", "18")
	repo.shopItems[itemA.ID] = itemA
	repo.shopItems[itemA2.ID] = itemA2
	repo.shopItems[itemB.ID] = itemB

	svc := newCartService(t, repo)
	customerID := uuid.New()

	for _, id := range []uuid.UUID{itemA.ID, itemA2.ID} {
		if _, err := svc.Add(context.Background(), AddInput{CustomerID: customerID, ShopItemID: id, Quantity: 1}); err != nil {
			t.Fatalf("seed add: %v", err)
		}
	}

	view, err := svc.Add(context.Background(), AddInput{CustomerID: customerID, ShopItemID: itemB.ID, Quantity: 2, Reset: true})
	if err != nil {
		t.Fatalf("reset add: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("lines = %d, want shop-B line alone", len(view.Lines))
	}
	if view.Lines[0].ShopItemID != itemB.ID {
		t.Fatal("surviving line should be the shop-B item")
	}
}

func TestAddAppliesActiveOffer(t *testing.T) {
	repo := newStubCartRepo()
	item := newShopItem(uuid.New(), "118.00", "18")
	now := time.Now()
	item.Offers = []models.ShopItemOffer{{
		ID:              uuid.New(),
		ShopItemID:      item.ID,
		DiscountPercent: dec("10"),
		StartsAt:        now.Add(-time.Hour),
		EndsAt:          now.Add(time.Hour),
		Active:          true,
	}}
	repo.shopItems[item.ID] = item

	svc := newCartService(t, repo)
	view, err := svc.Add(context.Background(), AddInput{CustomerID: uuid.New(), ShopItemID: item.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !view.Lines[0].UnitPrice.Equal(dec("106.20")) {
		t.Fatalf("unit price = %s, want offer price 106.20", view.Lines[0].UnitPrice)
	}
	if view.Lines[0].OfferPercent == nil {
		t.Fatal("offer percent should surface on the line view")
	}
}

func TestAddUnavailableItemRejected(t *testing.T) {
	repo := newStubCartRepo()
	item := newShopItem(uuid.New(), "10.00", "0")
	item.Available = false
	repo.shopItems[item.ID] = item

	svc := newCartService(t, repo)
	_, err := svc.Add(context.Background(), AddInput{CustomerID: uuid.New(), ShopItemID: item.ID, Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveChecksOwnership(t *testing.T) {
	repo := newStubCartRepo()
	item := newShopItem(uuid.New(), "10.00", "0")
	repo.shopItems[item.ID] = item

	svc := newCartService(t, repo)
	owner := uuid.New()
	view, err := svc.Add(context.Background(), AddInput{CustomerID: owner, ShopItemID: item.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	err = svc.Remove(context.Background(), uuid.New(), view.Lines[0].CartItemID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}

	if err := svc.Remove(context.Background(), owner, view.Lines[0].CartItemID); err != nil {
		t.Fatalf("owner remove: %v", err)
	}
}
