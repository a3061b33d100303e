package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/zestcart/zestcart-backend/api/responses"
	"github.com/zestcart/zestcart-backend/api/validators"
	"github.com/zestcart/zestcart-backend/internal/checkout"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
	"github.com/zestcart/zestcart-backend/pkg/logger"
)

type checkoutPayload struct {
	AddressID      string  `json:"address_id" validate:"required,uuid"`
	DeliveryCharge *string `json:"delivery_charge,omitempty"`
}

// Checkout turns the caller's cart into a placed order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		addressID, err := pathlessUUID(payload.AddressID, "address_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := checkout.Input{
			CustomerID: customerID,
			AddressID:  addressID,
		}
		if payload.DeliveryCharge != nil {
			charge, parseErr := decimal.NewFromString(*payload.DeliveryCharge)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "delivery_charge must be a decimal string"))
				return
			}
			input.DeliveryCharge = &charge
		}

		view, err := svc.Checkout(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}
