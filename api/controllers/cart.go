package controllers

import (
	"net/http"

	"github.com/zestcart/zestcart-backend/api/responses"
	"github.com/zestcart/zestcart-backend/api/validators"
	"github.com/zestcart/zestcart-backend/internal/cart"
	"github.com/zestcart/zestcart-backend/pkg/logger"
)

type cartAddPayload struct {
	ShopItemID string `json:"shop_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	Reset      bool   `json:"reset"`
}

// CartList returns the caller's cart priced at the current offers.
func CartList(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.List(ctx, customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAdd adds or merges a line; a cross-shop add needs reset=true.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload cartAddPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		shopItemID, err := pathlessUUID(payload.ShopItemID, "shop_item_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Add(ctx, cart.AddInput{
			CustomerID: customerID,
			ShopItemID: shopItemID,
			Quantity:   payload.Quantity,
			Reset:      payload.Reset,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// CartRemove deletes one cart line owned by the caller.
func CartRemove(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		cartItemID, err := pathUUID(r, "cartItemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Remove(ctx, customerID, cartItemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
