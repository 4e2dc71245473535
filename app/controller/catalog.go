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

type catalogService interface {
	ListPackages(ctx context.Context, includeInactive bool) ([]*entity.PremiumPackage, error)
	GetPackage(ctx context.Context, id uint64) (*entity.PremiumPackage, error)
	CreatePackage(ctx context.Context, req *types.CreatePackageRequest) (*entity.PremiumPackage, error)
	UpdatePackage(ctx context.Context, req *types.UpdatePackageRequest) (*entity.PremiumPackage, error)
	DeactivatePackage(ctx context.Context, id uint64) (*entity.PremiumPackage, error)
}

type CatalogController struct {
	catalogService catalogService
	logger         logrus.FieldLogger
}

func NewCatalogController(catalogService catalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		logger:         factory.NewModuleLogger("catalog-controller"),
	}
}

// ListPublicPackages only ever returns active packages.
func (c *CatalogController) ListPublicPackages(ctx echo.Context) error {
	items, err := c.catalogService.ListPackages(ctx.Request().Context(), false)
	if err != nil {
		c.logger.WithError(err).Error("List packages failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ListPackagesResponse{Packages: mapper.PackagesToResponse(items)})
}

func (c *CatalogController) ListPackages(ctx echo.Context) error {
	req, err := types.NewListPackagesRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid query params")
	}

	items, err := c.catalogService.ListPackages(ctx.Request().Context(), req.IncludeInactive)
	if err != nil {
		c.logger.WithError(err).Error("List packages failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ListPackagesResponse{Packages: mapper.PackagesToResponse(items)})
}

func (c *CatalogController) GetPackage(ctx echo.Context) error {
	req, err := types.NewPackageIDRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.catalogService.GetPackage(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "package not found")
		}
		c.logger.WithError(err).Error("Get package failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.PackageEnvelopeResponse{Package: mapper.PackageToResponse(item)})
}

func (c *CatalogController) CreatePackage(ctx echo.Context) error {
	req, err := types.NewCreatePackageRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.catalogService.CreatePackage(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		}
		c.logger.WithError(err).Error("Create package failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, &dto.PackageEnvelopeResponse{Package: mapper.PackageToResponse(item)})
}

func (c *CatalogController) UpdatePackage(ctx echo.Context) error {
	req, err := types.NewUpdatePackageRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.catalogService.UpdatePackage(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPackageNotFound):
			return c.writeError(ctx, http.StatusNotFound, "package not found")
		default:
			c.logger.WithError(err).Error("Update package failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &dto.PackageEnvelopeResponse{Package: mapper.PackageToResponse(item)})
}

func (c *CatalogController) DeactivatePackage(ctx echo.Context) error {
	req, err := types.NewPackageIDRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.catalogService.DeactivatePackage(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "package not found")
		}
		c.logger.WithError(err).Error("Deactivate package failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.PackageEnvelopeResponse{Package: mapper.PackageToResponse(item)})
}

func (c *CatalogController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}
