package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
)

// Service is the customer address book.
type Service interface {
	List(ctx context.Context, customerID uuid.UUID) ([]View, error)
	Create(ctx context.Context, input CreateInput) (*View, error)
	Delete(ctx context.Context, customerID, addressID uuid.UUID) error
	// FindAddress resolves an address to its coordinates and owner for
	// delivery quoting.
	FindAddress(ctx context.Context, addressID uuid.UUID) (lat, lng float64, customerID uuid.UUID, err error)
}

type service struct {
	repo Repository
}

// NewService builds the address service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID) ([]View, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, *toView(&rows[i]))
	}
	return views, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Line1) == "" || strings.TrimSpace(input.City) == "" || strings.TrimSpace(input.Pincode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line1, city and pincode are required")
	}
	if input.Lat < -90 || input.Lat > 90 || input.Lng < -180 || input.Lng > 180 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
	}

	row := models.Address{
		ID:         uuid.New(),
		CustomerID: input.CustomerID,
		Label:      strings.TrimSpace(input.Label),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      input.Line2,
		City:       strings.TrimSpace(input.City),
		Pincode:    strings.TrimSpace(input.Pincode),
		Lat:        input.Lat,
		Lng:        input.Lng,
	}
	if row.Label == "" {
		row.Label = "home"
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return toView(&row), nil
}

func (s *service) Delete(ctx context.Context, customerID, addressID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}

	row, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if row.CustomerID != customerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another customer")
	}
	if err := s.repo.Delete(ctx, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func (s *service) FindAddress(ctx context.Context, addressID uuid.UUID) (float64, float64, uuid.UUID, error) {
	row, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		return 0, 0, uuid.Nil, err
	}
	return row.Lat, row.Lng, row.CustomerID, nil
}
