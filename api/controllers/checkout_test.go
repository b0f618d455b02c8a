package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/api/middleware"
	"github.com/velvetrow/velvetrow-backend/internal/cart"
	checkoutsvc "github.com/velvetrow/velvetrow-backend/internal/checkout"
	"github.com/velvetrow/velvetrow-backend/internal/orders"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
)

type stubCheckoutService struct {
	lastSession   cart.Session
	lastBegin     checkoutsvc.BeginInput
	lastReference string
	err           error
}

func (s *stubCheckoutService) Begin(_ context.Context, session cart.Session, input checkoutsvc.BeginInput) (*checkoutsvc.BeginResult, error) {
	s.lastSession = session
	s.lastBegin = input
	if s.err != nil {
		return nil, s.err
	}
	return &checkoutsvc.BeginResult{
		Reference:        "vr_ref_123",
		AuthorizationURL: "https://checkout.paystack.com/abc",
		AccessCode:       "abc",
		SubtotalKobo:     300000,
		ShippingKobo:     150000,
		TotalKobo:        450000,
	}, nil
}

func (s *stubCheckoutService) Confirm(_ context.Context, reference string) (*orders.OrderDTO, error) {
	s.lastReference = reference
	if s.err != nil {
		return nil, s.err
	}
	return &orders.OrderDTO{ID: uuid.New(), PaymentReference: reference}, nil
}

const beginBody = `{
	"customer_name": "Adaeze Obi",
	"customer_email": "adaeze@example.com",
	"shipping_address": {
		"street": "14 Awolowo Road",
		"city": "Ikoyi",
		"state": "Lagos",
		"postal_code": "101233",
		"country": "NG"
	},
	"shipping_method": "standard"
}`

func TestCheckoutBeginAsGuest(t *testing.T) {
	logg := testLogger()
	stub := &stubCheckoutService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(beginBody))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithGuestSession(req.Context(), "guest-7"))
	rec := httptest.NewRecorder()
	CheckoutBegin(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastSession.GuestSessionID != "guest-7" {
		t.Fatalf("expected guest session, got %+v", stub.lastSession)
	}
	if stub.lastBegin.CustomerEmail != "adaeze@example.com" {
		t.Fatalf("unexpected begin input: %+v", stub.lastBegin)
	}
	if stub.lastBegin.ShippingMethod != enums.ShippingStandard {
		t.Fatalf("expected standard shipping, got %q", stub.lastBegin.ShippingMethod)
	}
	if !strings.Contains(rec.Body.String(), "authorization_url") {
		t.Fatalf("response missing authorization url: %s", rec.Body.String())
	}
}

func TestCheckoutBeginRequiresSession(t *testing.T) {
	logg := testLogger()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(beginBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	CheckoutBegin(&stubCheckoutService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestCheckoutBeginRejectsBadEmail(t *testing.T) {
	logg := testLogger()
	body := strings.Replace(beginBody, "adaeze@example.com", "not-an-email", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithGuestSession(req.Context(), "guest-7"))
	rec := httptest.NewRecorder()
	CheckoutBegin(&stubCheckoutService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCheckoutConfirmForwardsReference(t *testing.T) {
	logg := testLogger()
	stub := &stubCheckoutService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", strings.NewReader(`{"reference":"vr_ref_123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	CheckoutConfirm(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastReference != "vr_ref_123" {
		t.Fatalf("expected reference forwarded, got %q", stub.lastReference)
	}
}

func TestCheckoutConfirmRequiresReference(t *testing.T) {
	logg := testLogger()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	CheckoutConfirm(&stubCheckoutService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
