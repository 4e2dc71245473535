package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edukasiku/ms-go-premium/app/entity"
	"github.com/edukasiku/ms-go-premium/app/repository"
	"github.com/edukasiku/ms-go-premium/app/types"
	"github.com/edukasiku/ms-go-premium/config"
)

// CatalogService manages the premium package catalog. Edits only affect
// future payment intents; in-flight transactions hold frozen snapshots.
type CatalogService struct {
	packageRepo packageRepository
	cfg         config.PremiumConfig
}

func NewCatalogService(packageRepo packageRepository, cfg config.PremiumConfig) *CatalogService {
	return &CatalogService{packageRepo: packageRepo, cfg: cfg}
}

func (s *CatalogService) ListPackages(ctx context.Context, includeInactive bool) ([]*entity.PremiumPackage, error) {
	return s.packageRepo.List(ctx, !includeInactive)
}

func (s *CatalogService) GetPackage(ctx context.Context, id uint64) (*entity.PremiumPackage, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

func (s *CatalogService) CreatePackage(ctx context.Context, req *types.CreatePackageRequest) (*entity.PremiumPackage, error) {
	if req.Price < s.cfg.MinPrice {
		return nil, fmt.Errorf("%w: price must be at least %d", ErrInvalidRequest, s.cfg.MinPrice)
	}

	now := time.Now().UTC()
	pkg := &entity.PremiumPackage{
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		Price:          req.Price,
		Description:    req.Description,
		IsPopular:      req.IsPopular,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *CatalogService) UpdatePackage(ctx context.Context, req *types.UpdatePackageRequest) (*entity.PremiumPackage, error) {
	pkg, err := s.packageRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}

	if req.HasName {
		pkg.Name = req.Name
	}
	if req.HasDurationMonths {
		pkg.DurationMonths = req.DurationMonths
	}
	if req.HasPrice {
		if req.Price < s.cfg.MinPrice {
			return nil, fmt.Errorf("%w: price must be at least %d", ErrInvalidRequest, s.cfg.MinPrice)
		}
		pkg.Price = req.Price
	}
	if req.HasDescription {
		pkg.Description = req.Description
	}
	if req.HasIsPopular {
		pkg.IsPopular = req.IsPopular
	}
	if req.HasIsActive {
		pkg.IsActive = req.IsActive
	}
	pkg.UpdatedAt = time.Now().UTC()

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	return pkg, nil
}

func (s *CatalogService) DeactivatePackage(ctx context.Context, id uint64) (*entity.PremiumPackage, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}

	pkg.IsActive = false
	pkg.UpdatedAt = time.Now().UTC()

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	return pkg, nil
}
