package types

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type CreatePaymentRequest struct {
	UserID    string `json:"user_id"`
	PackageID uint64 `json:"package_id"`
}

func NewCreatePaymentRequestFromContext(ctx echo.Context) (*CreatePaymentRequest, error) {
	var body CreatePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.UserID = strings.TrimSpace(body.UserID)
	return &body, nil
}

func (r *CreatePaymentRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("user_id is required")
	}
	if r.PackageID == 0 {
		return errors.New("package_id is required")
	}
	return nil
}

// PaymentNotification mirrors the Midtrans HTTP notification payload.
type PaymentNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

func NewPaymentNotificationFromContext(ctx echo.Context) (*PaymentNotification, error) {
	var body PaymentNotification
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.OrderID = strings.TrimSpace(body.OrderID)
	body.TransactionStatus = strings.ToLower(strings.TrimSpace(body.TransactionStatus))
	body.FraudStatus = strings.ToLower(strings.TrimSpace(body.FraudStatus))
	body.TransactionID = strings.TrimSpace(body.TransactionID)
	body.PaymentType = strings.TrimSpace(body.PaymentType)
	return &body, nil
}

func (r *PaymentNotification) Validate() error {
	if r.OrderID == "" {
		return errors.New("order_id is required")
	}
	if r.TransactionStatus == "" {
		return errors.New("transaction_status is required")
	}
	return nil
}

type ListPackagesRequest struct {
	IncludeInactive bool
}

func NewListPackagesRequestFromContext(ctx echo.Context) (*ListPackagesRequest, error) {
	req := &ListPackagesRequest{}
	raw := strings.TrimSpace(ctx.QueryParam("include_inactive"))
	if raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = value
	}
	return req, nil
}

func (r *ListPackagesRequest) Validate() error {
	return nil
}

type CreatePackageRequest struct {
	Name           string  `json:"name"`
	DurationMonths int32   `json:"duration_months"`
	Price          int64   `json:"price"`
	Description    *string `json:"description"`
	IsPopular      bool    `json:"is_popular"`
	IsActive       *bool   `json:"is_active"`
}

func NewCreatePackageRequestFromContext(ctx echo.Context) (*CreatePackageRequest, error) {
	var body CreatePackageRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Name = strings.TrimSpace(body.Name)
	return &body, nil
}

func (r *CreatePackageRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.DurationMonths < 1 {
		return errors.New("duration_months must be at least 1")
	}
	if r.Price <= 0 {
		return errors.New("price must be positive")
	}
	return nil
}

type UpdatePackageRequest struct {
	ID                uint64
	HasName           bool
	Name              string
	HasDurationMonths bool
	DurationMonths    int32
	HasPrice          bool
	Price             int64
	HasDescription    bool
	Description       *string
	HasIsPopular      bool
	IsPopular         bool
	HasIsActive       bool
	IsActive          bool
}

func NewUpdatePackageRequestFromContext(ctx echo.Context) (*UpdatePackageRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}

	var body struct {
		Name           *string `json:"name"`
		DurationMonths *int32  `json:"duration_months"`
		Price          *int64  `json:"price"`
		Description    *string `json:"description"`
		IsPopular      *bool   `json:"is_popular"`
		IsActive       *bool   `json:"is_active"`
	}
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	req := &UpdatePackageRequest{ID: id}
	if body.Name != nil {
		req.HasName = true
		req.Name = strings.TrimSpace(*body.Name)
	}
	if body.DurationMonths != nil {
		req.HasDurationMonths = true
		req.DurationMonths = *body.DurationMonths
	}
	if body.Price != nil {
		req.HasPrice = true
		req.Price = *body.Price
	}
	if body.Description != nil {
		req.HasDescription = true
		req.Description = body.Description
	}
	if body.IsPopular != nil {
		req.HasIsPopular = true
		req.IsPopular = *body.IsPopular
	}
	if body.IsActive != nil {
		req.HasIsActive = true
		req.IsActive = *body.IsActive
	}

	return req, nil
}

func (r *UpdatePackageRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid package id")
	}
	if !r.HasName && !r.HasDurationMonths && !r.HasPrice && !r.HasDescription && !r.HasIsPopular && !r.HasIsActive {
		return errors.New("no fields provided for update")
	}
	if r.HasName && r.Name == "" {
		return errors.New("name must not be empty")
	}
	if r.HasDurationMonths && r.DurationMonths < 1 {
		return errors.New("duration_months must be at least 1")
	}
	if r.HasPrice && r.Price <= 0 {
		return errors.New("price must be positive")
	}
	return nil
}

type PackageIDRequest struct {
	ID uint64
}

func NewPackageIDRequestFromContext(ctx echo.Context) (*PackageIDRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &PackageIDRequest{ID: id}, nil
}

func (r *PackageIDRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid package id")
	}
	return nil
}

type GetProfileRequest struct {
	UserID string
}

func NewGetProfileRequestFromContext(ctx echo.Context) (*GetProfileRequest, error) {
	return &GetProfileRequest{UserID: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *GetProfileRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("invalid user id")
	}
	return nil
}

type AccessCheckRequest struct {
	UserID         string
	ContentPremium bool
}

func NewAccessCheckRequestFromContext(ctx echo.Context) (*AccessCheckRequest, error) {
	req := &AccessCheckRequest{UserID: strings.TrimSpace(ctx.QueryParam("user_id"))}
	raw := strings.TrimSpace(ctx.QueryParam("premium"))
	if raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.ContentPremium = value
	}
	return req, nil
}

func (r *AccessCheckRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}

type SetEntitlementRequest struct {
	UserID          string
	Role            string
	PremiumUntil    *time.Time
	HasPremiumUntil bool
}

func NewSetEntitlementRequestFromContext(ctx echo.Context) (*SetEntitlementRequest, error) {
	var body struct {
		Role         string  `json:"role"`
		PremiumUntil *string `json:"premium_until"`
	}
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	req := &SetEntitlementRequest{
		UserID: strings.TrimSpace(ctx.Param("id")),
		Role:   strings.ToLower(strings.TrimSpace(body.Role)),
	}
	if body.PremiumUntil != nil {
		req.HasPremiumUntil = true
		if trimmed := strings.TrimSpace(*body.PremiumUntil); trimmed != "" {
			t, err := time.Parse(time.RFC3339, trimmed)
			if err != nil {
				return nil, err
			}
			utc := t.UTC()
			req.PremiumUntil = &utc
		}
	}

	return req, nil
}

func (r *SetEntitlementRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("invalid user id")
	}
	if r.Role == "" {
		return errors.New("role is required")
	}
	switch r.Role {
	case "ordinary", "premium", "admin":
	default:
		return errors.New("role must be one of ordinary, premium, admin")
	}
	return nil
}
