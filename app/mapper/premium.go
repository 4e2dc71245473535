package mapper

import (
	"time"

	"github.com/edukasiku/ms-go-premium/app/dto"
	"github.com/edukasiku/ms-go-premium/app/entity"
)

func PackageToResponse(item *entity.PremiumPackage) dto.PackageResponse {
	return dto.PackageResponse{
		ID:             item.ID,
		Name:           item.Name,
		DurationMonths: item.DurationMonths,
		Price:          item.Price,
		Description:    item.Description,
		IsPopular:      item.IsPopular,
		IsActive:       item.IsActive,
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func PackagesToResponse(items []*entity.PremiumPackage) []dto.PackageResponse {
	result := make([]dto.PackageResponse, 0, len(items))
	for _, item := range items {
		result = append(result, PackageToResponse(item))
	}
	return result
}

func TransactionToResponse(item *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                   item.ID,
		UserID:               item.UserID,
		PackageID:            item.PackageID,
		Amount:               item.Amount,
		DurationMonths:       item.DurationMonths,
		OrderID:              item.OrderID,
		Status:               string(item.Status),
		GatewayTransactionID: item.GatewayTransactionID,
		PaymentType:          item.PaymentType,
		CreatedAt:            item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ProfileToResponse(item *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:       item.UserID,
		Name:         item.Name,
		Email:        item.Email,
		Role:         string(item.Role),
		PremiumUntil: formatTime(item.PremiumUntil),
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func formatTime(v *time.Time) *string {
	if v == nil {
		return nil
	}
	s := v.UTC().Format(time.RFC3339)
	return &s
}
