package service

import (
	"context"
	"fmt"
	"time"

	"github.com/edukasiku/ms-go-premium/app/entity"
	"github.com/edukasiku/ms-go-premium/app/types"
)

// AddCalendarMonths adds whole calendar months, clamping the day of month to
// the last valid day of the target month. Jan 31 plus one month lands on
// Feb 28 (or 29 in a leap year), not Mar 2.
func AddCalendarMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// NextPremiumUntil computes the expiry after a successful payment: duration
// is added to whichever is later, now or the current expiry, so a renewal
// before expiry keeps the remaining time instead of discarding it.
func NextPremiumUntil(now time.Time, current *time.Time, durationMonths int32) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return AddCalendarMonths(base, int(durationMonths))
}

type profileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	UpdateEntitlement(ctx context.Context, userID string, role entity.Role, premiumUntil *time.Time, now time.Time) error
}

// EntitlementService serves profile reads and the administrative override
// that sets role/expiry directly, bypassing the payment pipeline.
type EntitlementService struct {
	profileRepo profileRepository
}

func NewEntitlementService(profileRepo profileRepository) *EntitlementService {
	return &EntitlementService{profileRepo: profileRepo}
}

func (s *EntitlementService) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *EntitlementService) SetEntitlement(ctx context.Context, req *types.SetEntitlementRequest) (*entity.Profile, error) {
	role := entity.Role(req.Role)
	if !entity.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, req.Role)
	}

	profile, err := s.profileRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	premiumUntil := profile.PremiumUntil
	if req.HasPremiumUntil {
		premiumUntil = req.PremiumUntil
	}
	if role != entity.RolePremium {
		premiumUntil = nil
	}

	now := time.Now().UTC()
	if err := s.profileRepo.UpdateEntitlement(ctx, req.UserID, role, premiumUntil, now); err != nil {
		return nil, err
	}

	profile.Role = role
	profile.PremiumUntil = premiumUntil
	profile.UpdatedAt = now
	return profile, nil
}
