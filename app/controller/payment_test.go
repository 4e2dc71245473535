package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/edukasiku/ms-go-premium/app/entity"
	"github.com/edukasiku/ms-go-premium/app/service"
	"github.com/edukasiku/ms-go-premium/app/types"
)

type mockPaymentIntentService struct {
	createPaymentFn func(ctx context.Context, req *types.CreatePaymentRequest) (*service.CreatePaymentResult, error)
}

func (m *mockPaymentIntentService) CreatePayment(ctx context.Context, req *types.CreatePaymentRequest) (*service.CreatePaymentResult, error) {
	if m.createPaymentFn != nil {
		return m.createPaymentFn(ctx, req)
	}
	return nil, nil
}

type mockWebhookService struct {
	handleNotificationFn func(ctx context.Context, n *types.PaymentNotification) error
}

func (m *mockWebhookService) HandleNotification(ctx context.Context, n *types.PaymentNotification) error {
	if m.handleNotificationFn != nil {
		return m.handleNotificationFn(ctx, n)
	}
	return nil
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestHealth(t *testing.T) {
	ctx, rec := newJSONContext(t, http.MethodGet, "/health", "")
	c := NewPaymentController(&mockPaymentIntentService{}, &mockWebhookService{})

	if err := c.Health(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreatePaymentReturnsCheckout(t *testing.T) {
	c := NewPaymentController(&mockPaymentIntentService{
		createPaymentFn: func(_ context.Context, req *types.CreatePaymentRequest) (*service.CreatePaymentResult, error) {
			if req.UserID != "user-1" || req.PackageID != 3 {
				t.Fatalf("unexpected request: %+v", req)
			}
			return &service.CreatePaymentResult{
				Transaction: &entity.Transaction{
					OrderID: "premium-user-1-1-aa",
					Status:  entity.TransactionStatusPending,
					Amount:  40000,
				},
				Token:       "snap-token",
				RedirectURL: "https://app.midtrans.com/snap/v3/redirection/snap-token",
			}, nil
		},
	}, &mockWebhookService{})

	ctx, rec := newJSONContext(t, http.MethodPost, "/payments", `{"user_id":"user-1","package_id":3}`)
	if err := c.CreatePayment(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["token"] != "snap-token" || body["order_id"] != "premium-user-1-1-aa" {
		t.Fatalf("unexpected response: %v", body)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	c := NewPaymentController(&mockPaymentIntentService{
		createPaymentFn: func(_ context.Context, _ *types.CreatePaymentRequest) (*service.CreatePaymentResult, error) {
			t.Fatal("service must not be called on invalid input")
			return nil, nil
		},
	}, &mockWebhookService{})

	ctx, rec := newJSONContext(t, http.MethodPost, "/payments", `{"user_id":""}`)
	if err := c.CreatePayment(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreatePaymentErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"unknown package", service.ErrPackageNotFound, http.StatusNotFound},
		{"gateway down", service.ErrGatewayUnavailable, http.StatusBadGateway},
		{"internal", errors.New("db gone"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewPaymentController(&mockPaymentIntentService{
				createPaymentFn: func(_ context.Context, _ *types.CreatePaymentRequest) (*service.CreatePaymentResult, error) {
					return nil, tc.serviceErr
				},
			}, &mockWebhookService{})

			ctx, rec := newJSONContext(t, http.MethodPost, "/payments", `{"user_id":"user-1","package_id":3}`)
			if err := c.CreatePayment(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestMidtransWebhookNormalizesAndAccepts(t *testing.T) {
	var got *types.PaymentNotification
	c := NewPaymentController(&mockPaymentIntentService{}, &mockWebhookService{
		handleNotificationFn: func(_ context.Context, n *types.PaymentNotification) error {
			got = n
			return nil
		},
	})

	ctx, rec := newJSONContext(t, http.MethodPost, "/webhooks/midtrans",
		`{"order_id":"premium-user-1-1-aa","transaction_status":"SETTLEMENT","fraud_status":"ACCEPT","transaction_id":"mid-123"}`)
	if err := c.MidtransWebhook(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got == nil || got.TransactionStatus != "settlement" || got.FraudStatus != "accept" {
		t.Fatalf("notification not normalized: %+v", got)
	}
}

func TestMidtransWebhookDuplicateStillReturns200(t *testing.T) {
	// Duplicate deliveries are resolved inside the service and come back as
	// nil errors, so the gateway must see a 2xx and stop retrying.
	c := NewPaymentController(&mockPaymentIntentService{}, &mockWebhookService{})

	ctx, rec := newJSONContext(t, http.MethodPost, "/webhooks/midtrans",
		`{"order_id":"premium-user-1-1-aa","transaction_status":"settlement"}`)
	if err := c.MidtransWebhook(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMidtransWebhookErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"bad signature", service.ErrInvalidSignature, http.StatusForbidden},
		{"unknown order", service.ErrTransactionNotFound, http.StatusNotFound},
		{"internal", errors.New("db gone"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewPaymentController(&mockPaymentIntentService{}, &mockWebhookService{
				handleNotificationFn: func(_ context.Context, _ *types.PaymentNotification) error {
					return tc.serviceErr
				},
			})

			ctx, rec := newJSONContext(t, http.MethodPost, "/webhooks/midtrans",
				`{"order_id":"premium-user-1-1-aa","transaction_status":"settlement"}`)
			if err := c.MidtransWebhook(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestMidtransWebhookMissingFields(t *testing.T) {
	c := NewPaymentController(&mockPaymentIntentService{}, &mockWebhookService{})

	ctx, rec := newJSONContext(t, http.MethodPost, "/webhooks/midtrans", `{"transaction_status":"settlement"}`)
	if err := c.MidtransWebhook(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
