package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zestcart/zestcart-backend/api/middleware"
	cartsvc "github.com/zestcart/zestcart-backend/internal/cart"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
)

type stubCartService struct {
	view   *cartsvc.View
	err    error
	gotAdd *cartsvc.AddInput
}

func (s *stubCartService) List(ctx context.Context, customerID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) Add(ctx context.Context, input cartsvc.AddInput) (*cartsvc.View, error) {
	s.gotAdd = &input
	return s.view, s.err
}

func (s *stubCartService) Remove(ctx context.Context, customerID, cartItemID uuid.UUID) error {
	return s.err
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCartListSuccess(t *testing.T) {
	shopID := uuid.New()
	svc := &stubCartService{view: &cartsvc.View{
		ShopID:       &shopID,
		Lines:        []cartsvc.LineView{},
		TaxableTotal: decimal.RequireFromString("200.00"),
		TaxTotal:     decimal.RequireFromString("36.00"),
		Subtotal:     decimal.RequireFromString("236.00"),
	}}
	handler := CartList(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Subtotal.Equal(decimal.RequireFromString("236.00")) {
		t.Fatalf("unexpected subtotal: %s", envelope.Data.Subtotal)
	}
}

func TestCartListMissingIdentity(t *testing.T) {
	handler := CartList(&stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddValidatesPayload(t *testing.T) {
	handler := CartAdd(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart", `{"shop_item_id":"not-a-uuid","quantity":1}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddPassesResetThrough(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{}}
	handler := CartAdd(svc, nil)

	itemID := uuid.New()
	body := `{"shop_item_id":"` + itemID.String() + `","quantity":3,"reset":true}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotAdd == nil {
		t.Fatalf("service never called")
	}
	if svc.gotAdd.ShopItemID != itemID || svc.gotAdd.Quantity != 3 || !svc.gotAdd.Reset {
		t.Fatalf("unexpected add input: %+v", svc.gotAdd)
	}
}

func TestCartAddCrossShopConflictSurfacesDetails(t *testing.T) {
	conflict := pkgerrors.New(pkgerrors.CodeConflict, "cart holds items from another shop").
		WithDetails(map[string]any{"requires_reset": true})
	handler := CartAdd(&stubCartService{err: conflict}, nil)

	itemID := uuid.New()
	body := `{"shop_item_id":"` + itemID.String() + `","quantity":1}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeConflict) {
		t.Fatalf("unexpected code: %s", payload.Error.Code)
	}
	if payload.Error.Details["requires_reset"] != true {
		t.Fatalf("expected requires_reset detail, got %+v", payload.Error.Details)
	}
}
