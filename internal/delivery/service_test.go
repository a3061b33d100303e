package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/internal/catalog"
	"github.com/zestcart/zestcart-backend/pkg/config"
	"github.com/zestcart/zestcart-backend/pkg/db/models"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
	"github.com/zestcart/zestcart-backend/pkg/maps"
)

type stubCatalogRepo struct {
	shop    *models.Shop
	cond    *models.DeliveryCondition
	condErr error
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) catalog.Repository { return s }

func (s *stubCatalogRepo) FindShop(ctx context.Context, shopID uuid.UUID) (*models.Shop, error) {
	if s.shop == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.shop, nil
}

func (s *stubCatalogRepo) FindShopItem(ctx context.Context, shopItemID uuid.UUID) (*models.ShopItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) FindConditionByShop(ctx context.Context, shopID uuid.UUID) (*models.DeliveryCondition, error) {
	if s.condErr != nil {
		return nil, s.condErr
	}
	if s.cond == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cond, nil
}

type stubDistance struct {
	result *maps.DistanceResult
	err    error
}

func (s *stubDistance) Distance(ctx context.Context, origin, destination maps.LatLng) (*maps.DistanceResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubAddresses struct {
	lat, lng float64
	ownerID  uuid.UUID
	err      error
}

func (s *stubAddresses) FindAddress(ctx context.Context, addressID uuid.UUID) (float64, float64, uuid.UUID, error) {
	if s.err != nil {
		return 0, 0, uuid.Nil, s.err
	}
	return s.lat, s.lng, s.ownerID, nil
}

func newTestService(t *testing.T, repo *stubCatalogRepo, distance *stubDistance, addresses *stubAddresses) Service {
	t.Helper()
	svc, err := NewService(repo, distance, addresses, config.DeliveryConfig{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func quoteFixtures() (*stubCatalogRepo, *stubDistance) {
	repo := &stubCatalogRepo{
		shop: &models.Shop{ID: uuid.New(), Lat: 12.97, Lng: 77.59},
		cond: &models.DeliveryCondition{
			FreeDeliveryAmount:   dec("500"),
			FreeDeliveryDistance: dec("5"),
			MaximumDistance:      dec("10"),
			PerKMCharge:          dec("10"),
		},
	}
	distance := &stubDistance{
		result: &maps.DistanceResult{
			Meters:       8000,
			Seconds:      1080,
			DistanceText: "8.0 km",
			DurationText: "18 mins",
		},
	}
	return repo, distance
}

func TestQuoteAppliesPerKMCharge(t *testing.T) {
	repo, distance := quoteFixtures()
	lat, lng := 12.93, 77.62
	svc := newTestService(t, repo, distance, &stubAddresses{})

	result, err := svc.Quote(context.Background(), QuoteInput{
		ShopID:     repo.shop.ID,
		OrderTotal: dec("100"),
		DestLat:    &lat,
		DestLng:    &lng,
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !result.Available {
		t.Fatal("quote should be available")
	}
	if result.Fee == nil || !result.Fee.Equal(dec("80.00")) {
		t.Fatalf("fee = %v, want 80.00", result.Fee)
	}
	if result.DistanceText != "8.0 km" {
		t.Fatalf("distance text = %q", result.DistanceText)
	}
}

func TestQuoteResolvesCustomerAddress(t *testing.T) {
	repo, distance := quoteFixtures()
	distance.result = &maps.DistanceResult{Meters: 4000, DistanceText: "4.0 km", DurationText: "10 mins"}
	customerID := uuid.New()
	addressID := uuid.New()
	svc := newTestService(t, repo, distance, &stubAddresses{lat: 12.93, lng: 77.62, ownerID: customerID})

	result, err := svc.Quote(context.Background(), QuoteInput{
		ShopID:     repo.shop.ID,
		CustomerID: customerID,
		AddressID:  &addressID,
		OrderTotal: dec("600"),
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if result.Fee == nil || !result.Fee.Equal(decimal.Zero) {
		t.Fatalf("fee = %v, want free delivery", result.Fee)
	}
}

func TestQuoteForbiddenForForeignAddress(t *testing.T) {
	repo, distance := quoteFixtures()
	addressID := uuid.New()
	svc := newTestService(t, repo, distance, &stubAddresses{ownerID: uuid.New()})

	_, err := svc.Quote(context.Background(), QuoteInput{
		ShopID:     repo.shop.ID,
		CustomerID: uuid.New(),
		AddressID:  &addressID,
		OrderTotal: dec("100"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestQuoteMissingConditionIsPolicyError(t *testing.T) {
	repo, distance := quoteFixtures()
	repo.cond = nil
	lat, lng := 12.93, 77.62
	svc := newTestService(t, repo, distance, &stubAddresses{})

	_, err := svc.Quote(context.Background(), QuoteInput{
		ShopID:     repo.shop.ID,
		OrderTotal: dec("100"),
		DestLat:    &lat,
		DestLng:    &lng,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePolicy {
		t.Fatalf("expected policy error, got %v", err)
	}
}

func TestQuoteDistanceFailureIsDependencyError(t *testing.T) {
	repo, _ := quoteFixtures()
	distance := &stubDistance{err: errors.New("upstream timeout")}
	lat, lng := 12.93, 77.62
	svc := newTestService(t, repo, distance, &stubAddresses{})

	_, err := svc.Quote(context.Background(), QuoteInput{
		ShopID:     repo.shop.ID,
		OrderTotal: dec("100"),
		DestLat:    &lat,
		DestLng:    &lng,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestQuoteHonorsLongRangeShopCondition(t *testing.T) {
	repo, distance := quoteFixtures()
	repo.cond.MaximumDistance = dec("150")
	distance.result = &maps.DistanceResult{Meters: 120000, DistanceText: "120.0 km", DurationText: "2 hours"}
	lat, lng := 13.90, 78.50
	svc := newTestService(t, repo, distance, &stubAddresses{})

	result, err := svc.Quote(context.Background(), QuoteInput{
		ShopID:     repo.shop.ID,
		OrderTotal: dec("100"),
		DestLat:    &lat,
		DestLng:    &lng,
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !result.Available {
		t.Fatal("quote should be available for a shop that serves 150 km")
	}
	if result.Fee == nil || !result.Fee.Equal(dec("1200.00")) {
		t.Fatalf("fee = %v, want 1200.00", result.Fee)
	}
}

func TestQuoteOperatorDistanceCap(t *testing.T) {
	repo, distance := quoteFixtures()
	repo.cond.MaximumDistance = dec("150")
	distance.result = &maps.DistanceResult{Meters: 120000, DistanceText: "120.0 km", DurationText: "2 hours"}
	lat, lng := 13.90, 78.50
	svc, err := NewService(repo, distance, &stubAddresses{}, config.DeliveryConfig{MaxQuoteDistanceKM: 100})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Quote(context.Background(), QuoteInput{
		ShopID:     repo.shop.ID,
		OrderTotal: dec("100"),
		DestLat:    &lat,
		DestLng:    &lng,
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if result.Available {
		t.Fatal("cap should override the shop condition when set")
	}
	if result.Fee != nil {
		t.Fatalf("fee = %v, want nil", result.Fee)
	}
	if result.Message != "not available in this range" {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestQuoteBeyondMaximumDistance(t *testing.T) {
	repo, distance := quoteFixtures()
	distance.result = &maps.DistanceResult{Meters: 12000, DistanceText: "12.0 km", DurationText: "25 mins"}
	lat, lng := 12.80, 77.70
	svc := newTestService(t, repo, distance, &stubAddresses{})

	result, err := svc.Quote(context.Background(), QuoteInput{
		ShopID:     repo.shop.ID,
		OrderTotal: dec("700"),
		DestLat:    &lat,
		DestLng:    &lng,
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if result.Available {
		t.Fatal("quote should be unavailable")
	}
	if result.Fee != nil {
		t.Fatalf("fee = %v, want nil", result.Fee)
	}
}
