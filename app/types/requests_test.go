package types

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func jsonContext(t *testing.T, method, target, body string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestPaymentNotificationNormalization(t *testing.T) {
	ctx := jsonContext(t, http.MethodPost, "/webhooks/midtrans",
		`{"order_id":"  premium-user-1-1-aa ","transaction_status":"SETTLEMENT","fraud_status":" Accept ","transaction_id":" mid-123 "}`)

	n, err := NewPaymentNotificationFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n.OrderID != "premium-user-1-1-aa" {
		t.Fatalf("order id not trimmed: %q", n.OrderID)
	}
	if n.TransactionStatus != "settlement" || n.FraudStatus != "accept" {
		t.Fatalf("statuses not lowercased: %q %q", n.TransactionStatus, n.FraudStatus)
	}
	if n.TransactionID != "mid-123" {
		t.Fatalf("transaction id not trimmed: %q", n.TransactionID)
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("expected valid notification, got %v", err)
	}
}

func TestPaymentNotificationValidate(t *testing.T) {
	n := &PaymentNotification{TransactionStatus: "settlement"}
	if err := n.Validate(); err == nil {
		t.Fatal("expected error for missing order_id")
	}
	n = &PaymentNotification{OrderID: "x"}
	if err := n.Validate(); err == nil {
		t.Fatal("expected error for missing transaction_status")
	}
}

func TestCreatePaymentRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     CreatePaymentRequest
		wantErr bool
	}{
		{"valid", CreatePaymentRequest{UserID: "user-1", PackageID: 3}, false},
		{"missing user", CreatePaymentRequest{PackageID: 3}, true},
		{"missing package", CreatePaymentRequest{UserID: "user-1"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected result: %v", err)
			}
		})
	}
}

func TestUpdatePackageRequestTracksProvidedFields(t *testing.T) {
	ctx := jsonContext(t, http.MethodPatch, "/admin/packages/3", `{"price":55000,"is_active":false}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues("3")

	req, err := NewUpdatePackageRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !req.HasPrice || req.Price != 55000 {
		t.Fatalf("price flag not set: %+v", req)
	}
	if !req.HasIsActive || req.IsActive {
		t.Fatalf("is_active flag not set: %+v", req)
	}
	if req.HasName || req.HasDurationMonths || req.HasDescription || req.HasIsPopular {
		t.Fatalf("absent fields must not be flagged: %+v", req)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestUpdatePackageRequestRejectsEmptyBody(t *testing.T) {
	ctx := jsonContext(t, http.MethodPatch, "/admin/packages/3", `{}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues("3")

	req, err := NewUpdatePackageRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for update with no fields")
	}
}

func TestSetEntitlementRequestParsesExpiry(t *testing.T) {
	ctx := jsonContext(t, http.MethodPatch, "/admin/profiles/user-1/entitlement",
		`{"role":"Premium","premium_until":"2026-01-01T07:00:00+07:00"}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues("user-1")

	req, err := NewSetEntitlementRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.Role != "premium" {
		t.Fatalf("role not normalized: %q", req.Role)
	}
	if !req.HasPremiumUntil || req.PremiumUntil == nil {
		t.Fatalf("premium_until not parsed: %+v", req)
	}
	if req.PremiumUntil.Format("2006-01-02T15:04:05Z07:00") != "2026-01-01T00:00:00Z" {
		t.Fatalf("premium_until not converted to UTC: %s", req.PremiumUntil)
	}
}

func TestSetEntitlementRequestNullExpiryClearsValue(t *testing.T) {
	ctx := jsonContext(t, http.MethodPatch, "/admin/profiles/user-1/entitlement",
		`{"role":"premium","premium_until":""}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues("user-1")

	req, err := NewSetEntitlementRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !req.HasPremiumUntil || req.PremiumUntil != nil {
		t.Fatalf("empty premium_until must clear the value: %+v", req)
	}
}

func TestSetEntitlementRequestValidateRole(t *testing.T) {
	req := &SetEntitlementRequest{UserID: "user-1", Role: "superuser"}
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for unknown role")
	}
	req.Role = "admin"
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestAccessCheckRequestFromQuery(t *testing.T) {
	ctx := jsonContext(t, http.MethodGet, "/access/check?user_id=user-1&premium=1", "")
	req, err := NewAccessCheckRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.UserID != "user-1" || !req.ContentPremium {
		t.Fatalf("query not parsed: %+v", req)
	}

	ctx = jsonContext(t, http.MethodGet, "/access/check?user_id=user-1&premium=nope", "")
	if _, err := NewAccessCheckRequestFromContext(ctx); err == nil {
		t.Fatal("expected error for malformed premium flag")
	}
}

func TestListPackagesRequestDefaults(t *testing.T) {
	ctx := jsonContext(t, http.MethodGet, "/admin/packages", "")
	req, err := NewListPackagesRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.IncludeInactive {
		t.Fatal("include_inactive must default to false")
	}
}
