package controllers

import (
	"net/http"

	"github.com/zestcart/zestcart-backend/api/responses"
	"github.com/zestcart/zestcart-backend/api/validators"
	"github.com/zestcart/zestcart-backend/internal/address"
	"github.com/zestcart/zestcart-backend/pkg/logger"
)

type addressCreatePayload struct {
	Label   string  `json:"label"`
	Line1   string  `json:"line1" validate:"required"`
	Line2   *string `json:"line2,omitempty"`
	City    string  `json:"city" validate:"required"`
	Pincode string  `json:"pincode" validate:"required"`
	Lat     float64 `json:"lat" validate:"latitude"`
	Lng     float64 `json:"lng" validate:"longitude"`
}

// AddressList returns the caller's saved addresses.
func AddressList(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		views, err := svc.List(ctx, customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"addresses": views})
	}
}

// AddressCreate saves a new delivery address for the caller.
func AddressCreate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addressCreatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Create(ctx, address.CreateInput{
			CustomerID: customerID,
			Label:      payload.Label,
			Line1:      payload.Line1,
			Line2:      payload.Line2,
			City:       payload.City,
			Pincode:    payload.Pincode,
			Lat:        payload.Lat,
			Lng:        payload.Lng,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AddressDelete removes a saved address owned by the caller.
func AddressDelete(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		addressID, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, customerID, addressID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
