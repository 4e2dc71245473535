package service

import (
	"context"
	"time"

	"github.com/edukasiku/ms-go-premium/app/entity"
)

// CanAccess decides whether a profile may view a content item at the given
// wall-clock time. Free content is always visible. Premium content requires
// role=premium with an unexpired (or unbounded) premium_until; a missing
// profile or any other role is denied, including admin, which gets no
// special case here.
func CanAccess(profile *entity.Profile, contentIsPremium bool, now time.Time) bool {
	if !contentIsPremium {
		return true
	}
	if profile == nil || profile.Role != entity.RolePremium {
		return false
	}
	return profile.PremiumUntil == nil || profile.PremiumUntil.After(now)
}

// AccessService evaluates the access predicate against the stored profile.
// The result is computed per call and never cached, because expiry is a
// function of time.
type AccessService struct {
	profileRepo profileRepository
}

func NewAccessService(profileRepo profileRepository) *AccessService {
	return &AccessService{profileRepo: profileRepo}
}

func (s *AccessService) CheckAccess(ctx context.Context, userID string, contentIsPremium bool) (bool, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return CanAccess(profile, contentIsPremium, time.Now().UTC()), nil
}
