package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zestcart/zestcart-backend/api/responses"
	"github.com/zestcart/zestcart-backend/api/validators"
	"github.com/zestcart/zestcart-backend/internal/delivery"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
	"github.com/zestcart/zestcart-backend/pkg/logger"
)

type deliveryQuotePayload struct {
	ShopID     string   `json:"shop_id" validate:"required,uuid"`
	AddressID  *string  `json:"address_id,omitempty" validate:"omitempty,uuid"`
	Lat        *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng        *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
	OrderTotal string   `json:"order_total" validate:"required"`
}

type deliveryQuoteResponse struct {
	DistanceKM   decimal.Decimal  `json:"distance_km"`
	DistanceText string           `json:"distance_text"`
	DurationText string           `json:"duration_text"`
	Available    bool             `json:"available"`
	Fee          *decimal.Decimal `json:"fee"`
	Message      string           `json:"message,omitempty"`
}

// DeliveryQuote resolves distance and the fee decision for a shop and
// destination.
func DeliveryQuote(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload deliveryQuotePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		shopID, err := pathlessUUID(payload.ShopID, "shop_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		orderTotal, err := decimal.NewFromString(payload.OrderTotal)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order_total must be a decimal string"))
			return
		}

		input := delivery.QuoteInput{
			ShopID:     shopID,
			CustomerID: customerID,
			DestLat:    payload.Lat,
			DestLng:    payload.Lng,
			OrderTotal: orderTotal,
		}
		if payload.AddressID != nil {
			addressID, parseErr := uuid.Parse(*payload.AddressID)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "address_id must be a valid uuid"))
				return
			}
			input.AddressID = &addressID
		}

		quote, err := svc.Quote(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, deliveryQuoteResponse{
			DistanceKM:   quote.DistanceKM,
			DistanceText: quote.DistanceText,
			DurationText: quote.DurationText,
			Available:    quote.Available,
			Fee:          quote.Fee,
			Message:      quote.Message,
		})
	}
}
