package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/internal/catalog"
	"github.com/zestcart/zestcart-backend/pkg/config"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
	"github.com/zestcart/zestcart-backend/pkg/maps"
)

type distanceLookup interface {
	Distance(ctx context.Context, origin, destination maps.LatLng) (*maps.DistanceResult, error)
}

type addressFinder interface {
	FindAddress(ctx context.Context, addressID uuid.UUID) (lat, lng float64, customerID uuid.UUID, err error)
}

// Service quotes delivery availability and fee for a shop/destination pair.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
}

// QuoteInput identifies the shop, the destination (an address of the
// caller or explicit coordinates), and the running order total.
type QuoteInput struct {
	ShopID     uuid.UUID
	CustomerID uuid.UUID
	AddressID  *uuid.UUID
	DestLat    *float64
	DestLng    *float64
	OrderTotal decimal.Decimal
}

// QuoteResult mirrors the distance lookup plus the fee decision.
type QuoteResult struct {
	DistanceKM   decimal.Decimal
	DistanceText string
	DurationText string
	Available    bool
	Fee          *decimal.Decimal
	Message      string
}

type service struct {
	repo      catalog.Repository
	distance  distanceLookup
	addresses addressFinder
	cfg       config.DeliveryConfig
}

// NewService builds the delivery quote service.
func NewService(repo catalog.Repository, distance distanceLookup, addresses addressFinder, cfg config.DeliveryConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if distance == nil {
		return nil, fmt.Errorf("distance lookup required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address finder required")
	}
	return &service{
		repo:      repo,
		distance:  distance,
		addresses: addresses,
		cfg:       cfg,
	}, nil
}

func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	if input.ShopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	if input.OrderTotal.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total cannot be negative")
	}

	shop, err := s.repo.FindShop(ctx, input.ShopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}

	cond, err := s.repo.FindConditionByShop(ctx, input.ShopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodePolicy, "shop has no delivery condition configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery condition")
	}

	destLat, destLng, err := s.resolveDestination(ctx, input)
	if err != nil {
		return nil, err
	}

	result, err := s.distance.Distance(ctx,
		maps.LatLng{Latitude: shop.Lat, Longitude: shop.Lng},
		maps.LatLng{Latitude: destLat, Longitude: destLng},
	)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "distance lookup failed")
	}

	distanceKM := decimal.NewFromFloat(result.KM())
	// Operator safety cap, off by default. The shop's own maximum
	// distance in the condition is the real availability gate.
	if s.cfg.MaxQuoteDistanceKM > 0 && result.KM() > s.cfg.MaxQuoteDistanceKM {
		return &QuoteResult{
			DistanceKM:   distanceKM,
			DistanceText: result.DistanceText,
			DurationText: result.DurationText,
			Available:    false,
			Message:      "not available in this range",
		}, nil
	}

	quote := ComputeFee(distanceKM, input.OrderTotal, *cond)
	return &QuoteResult{
		DistanceKM:   distanceKM,
		DistanceText: result.DistanceText,
		DurationText: result.DurationText,
		Available:    quote.Available,
		Fee:          quote.Fee,
		Message:      quote.Message,
	}, nil
}

func (s *service) resolveDestination(ctx context.Context, input QuoteInput) (float64, float64, error) {
	if input.DestLat != nil && input.DestLng != nil {
		lat, lng := *input.DestLat, *input.DestLng
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "destination coordinates out of range")
		}
		return lat, lng, nil
	}

	if input.AddressID == nil || *input.AddressID == uuid.Nil {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "destination address or coordinates required")
	}

	lat, lng, ownerID, err := s.addresses.FindAddress(ctx, *input.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return 0, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if input.CustomerID != uuid.Nil && ownerID != input.CustomerID {
		return 0, 0, pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another customer")
	}
	return lat, lng, nil
}
