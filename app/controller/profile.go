package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/edukasiku/ms-go-premium/app/dto"
	"github.com/edukasiku/ms-go-premium/app/entity"
	"github.com/edukasiku/ms-go-premium/app/factory"
	"github.com/edukasiku/ms-go-premium/app/mapper"
	"github.com/edukasiku/ms-go-premium/app/service"
	"github.com/edukasiku/ms-go-premium/app/types"
)

type entitlementService interface {
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	SetEntitlement(ctx context.Context, req *types.SetEntitlementRequest) (*entity.Profile, error)
}

type accessService interface {
	CheckAccess(ctx context.Context, userID string, contentIsPremium bool) (bool, error)
}

type ProfileController struct {
	entitlementService entitlementService
	accessService      accessService
	logger             logrus.FieldLogger
}

func NewProfileController(entitlementService entitlementService, accessService accessService) *ProfileController {
	return &ProfileController{
		entitlementService: entitlementService,
		accessService:      accessService,
		logger:             factory.NewModuleLogger("profile-controller"),
	}
}

func (c *ProfileController) GetProfile(ctx echo.Context) error {
	req, err := types.NewGetProfileRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.entitlementService.GetProfile(ctx.Request().Context(), req.UserID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "profile not found")
		}
		c.logger.WithError(err).Error("Get profile failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ProfileEnvelopeResponse{Profile: mapper.ProfileToResponse(item)})
}

func (c *ProfileController) CheckAccess(ctx echo.Context) error {
	req, err := types.NewAccessCheckRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid query params")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	allowed, err := c.accessService.CheckAccess(ctx.Request().Context(), req.UserID, req.ContentPremium)
	if err != nil {
		c.logger.WithError(err).Error("Access check failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.AccessCheckResponse{Allowed: allowed})
}

// SetEntitlement is the administrative override that mutates role/expiry
// directly, bypassing the payment pipeline.
func (c *ProfileController) SetEntitlement(ctx echo.Context) error {
	req, err := types.NewSetEntitlementRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.entitlementService.SetEntitlement(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			return c.writeError(ctx, http.StatusNotFound, "profile not found")
		default:
			c.logger.WithError(err).Error("Set entitlement failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &dto.ProfileEnvelopeResponse{Profile: mapper.ProfileToResponse(item)})
}

func (c *ProfileController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}
