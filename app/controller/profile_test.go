package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/edukasiku/ms-go-premium/app/entity"
	"github.com/edukasiku/ms-go-premium/app/types"
)

type mockEntitlementService struct {
	getProfileFn     func(ctx context.Context, userID string) (*entity.Profile, error)
	setEntitlementFn func(ctx context.Context, req *types.SetEntitlementRequest) (*entity.Profile, error)
}

func (m *mockEntitlementService) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockEntitlementService) SetEntitlement(ctx context.Context, req *types.SetEntitlementRequest) (*entity.Profile, error) {
	if m.setEntitlementFn != nil {
		return m.setEntitlementFn(ctx, req)
	}
	return nil, nil
}

type mockAccessService struct {
	checkAccessFn func(ctx context.Context, userID string, contentIsPremium bool) (bool, error)
}

func (m *mockAccessService) CheckAccess(ctx context.Context, userID string, contentIsPremium bool) (bool, error) {
	if m.checkAccessFn != nil {
		return m.checkAccessFn(ctx, userID, contentIsPremium)
	}
	return false, nil
}

func TestGetProfile(t *testing.T) {
	until := time.Now().UTC().Add(24 * time.Hour)
	c := NewProfileController(&mockEntitlementService{
		getProfileFn: func(_ context.Context, userID string) (*entity.Profile, error) {
			return &entity.Profile{UserID: userID, Name: "Siswa", Role: entity.RolePremium, PremiumUntil: &until}, nil
		},
	}, &mockAccessService{})

	ctx, rec := newJSONContext(t, http.MethodGet, "/profiles/user-1", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues("user-1")

	if err := c.GetProfile(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["profile"]["role"] != "premium" || body["profile"]["premium_until"] == nil {
		t.Fatalf("unexpected response: %v", body)
	}
}

func TestCheckAccessQueryParams(t *testing.T) {
	var gotUserID string
	var gotPremium bool
	c := NewProfileController(&mockEntitlementService{}, &mockAccessService{
		checkAccessFn: func(_ context.Context, userID string, contentIsPremium bool) (bool, error) {
			gotUserID = userID
			gotPremium = contentIsPremium
			return true, nil
		},
	})

	ctx, rec := newJSONContext(t, http.MethodGet, "/access/check?user_id=user-1&premium=true", "")
	if err := c.CheckAccess(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-1" || !gotPremium {
		t.Fatalf("query params not parsed: user_id=%q premium=%v", gotUserID, gotPremium)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["allowed"] != true {
		t.Fatalf("unexpected response: %v", body)
	}
}

func TestCheckAccessRequiresUserID(t *testing.T) {
	c := NewProfileController(&mockEntitlementService{}, &mockAccessService{})

	ctx, rec := newJSONContext(t, http.MethodGet, "/access/check?premium=true", "")
	if err := c.CheckAccess(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSetEntitlement(t *testing.T) {
	var gotReq *types.SetEntitlementRequest
	c := NewProfileController(&mockEntitlementService{
		setEntitlementFn: func(_ context.Context, req *types.SetEntitlementRequest) (*entity.Profile, error) {
			gotReq = req
			return &entity.Profile{UserID: req.UserID, Role: entity.Role(req.Role), PremiumUntil: req.PremiumUntil}, nil
		},
	}, &mockAccessService{})

	ctx, rec := newJSONContext(t, http.MethodPatch, "/admin/profiles/user-1/entitlement",
		`{"role":"premium","premium_until":"2026-01-01T00:00:00Z"}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues("user-1")

	if err := c.SetEntitlement(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotReq == nil || gotReq.Role != "premium" || !gotReq.HasPremiumUntil || gotReq.PremiumUntil == nil {
		t.Fatalf("request not parsed: %+v", gotReq)
	}
}

func TestSetEntitlementRejectsUnknownRole(t *testing.T) {
	c := NewProfileController(&mockEntitlementService{
		setEntitlementFn: func(_ context.Context, _ *types.SetEntitlementRequest) (*entity.Profile, error) {
			t.Fatal("service must not be called for an unknown role")
			return nil, nil
		},
	}, &mockAccessService{})

	ctx, rec := newJSONContext(t, http.MethodPatch, "/admin/profiles/user-1/entitlement", `{"role":"superuser"}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues("user-1")

	if err := c.SetEntitlement(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
