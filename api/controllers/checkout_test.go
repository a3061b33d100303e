package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	checkoutsvc "github.com/zestcart/zestcart-backend/internal/checkout"
	"github.com/zestcart/zestcart-backend/internal/orders"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
)

type stubCheckoutService struct {
	view     *orders.View
	err      error
	gotInput *checkoutsvc.Input
}

func (s *stubCheckoutService) Checkout(ctx context.Context, input checkoutsvc.Input) (*orders.View, error) {
	s.gotInput = &input
	return s.view, s.err
}

func TestCheckoutSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &stubCheckoutService{view: &orders.View{ID: orderID}}
	handler := Checkout(svc, nil)

	addressID := uuid.New()
	body := `{"address_id":"` + addressID.String() + `","delivery_charge":"40.00"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/checkout", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotInput == nil {
		t.Fatalf("service never called")
	}
	if svc.gotInput.AddressID != addressID {
		t.Fatalf("unexpected address id: %s", svc.gotInput.AddressID)
	}
	if svc.gotInput.DeliveryCharge == nil || !svc.gotInput.DeliveryCharge.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("unexpected delivery charge: %+v", svc.gotInput.DeliveryCharge)
	}

	var envelope struct {
		Data orders.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != orderID {
		t.Fatalf("unexpected order id: %s", envelope.Data.ID)
	}
}

func TestCheckoutOmittedChargeStaysNil(t *testing.T) {
	svc := &stubCheckoutService{view: &orders.View{}}
	handler := Checkout(svc, nil)

	body := `{"address_id":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/checkout", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotInput.DeliveryCharge != nil {
		t.Fatalf("expected nil delivery charge, got %s", svc.gotInput.DeliveryCharge)
	}
}

func TestCheckoutRejectsBadCharge(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	body := `{"address_id":"` + uuid.NewString() + `","delivery_charge":"forty"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/checkout", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutEmptyCartError(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	handler := Checkout(svc, nil)

	body := `{"address_id":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/checkout", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Message != "cart is empty" {
		t.Fatalf("unexpected message: %q", payload.Error.Message)
	}
}
