package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/angelmondragon/markethub-backend/internal/checkout"
	"github.com/angelmondragon/markethub-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/types"
)

type stubCheckoutService struct {
	summary *checkoutsvc.CheckoutSummary
	err     error

	lastUser    uuid.UUID
	lastAddress types.JSONObject
}

func (s *stubCheckoutService) Checkout(_ context.Context, userID uuid.UUID, shippingAddress types.JSONObject) (*checkoutsvc.CheckoutSummary, error) {
	s.lastUser = userID
	s.lastAddress = shippingAddress
	return s.summary, s.err
}

func TestCheckoutForwardsAddress(t *testing.T) {
	userID := uuid.New()
	svc := &stubCheckoutService{summary: &checkoutsvc.CheckoutSummary{
		OrderGroup: &orders.OrderGroupDTO{ID: uuid.New(), GroupNumber: "GRP-abc"},
	}}
	handler := Checkout(svc, nil)

	body, _ := json.Marshal(map[string]any{
		"shipping_address": map[string]any{"line1": "12 Dock Rd", "city": "Monterrey"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, authedRequest(req, userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastUser != userID {
		t.Fatalf("expected user forwarded")
	}
	if svc.lastAddress["city"] != "Monterrey" {
		t.Fatalf("expected address forwarded, got %+v", svc.lastAddress)
	}
}

func TestCheckoutEmptyCartPassesThrough(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeBadRequest, "cart is empty")}
	handler := Checkout(svc, nil)

	body, _ := json.Marshal(map[string]any{"shipping_address": map[string]any{"line1": "12 Dock Rd"}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, authedRequest(req, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "cart is empty" {
		t.Fatalf("expected message passthrough, got %q", envelope.Error.Message)
	}
}

func TestCheckoutRequiresAuth(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	body, _ := json.Marshal(map[string]any{"shipping_address": map[string]any{"line1": "12 Dock Rd"}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
