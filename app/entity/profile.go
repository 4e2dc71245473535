package entity

import "time"

type Role string

const (
	RoleOrdinary Role = "ordinary"
	RolePremium  Role = "premium"
	RoleAdmin    Role = "admin"
)

func IsValidRole(role Role) bool {
	switch role {
	case RoleOrdinary, RolePremium, RoleAdmin:
		return true
	default:
		return false
	}
}

// Profile holds a user's entitlement state. PremiumUntil is meaningful only
// when Role is premium; a nil PremiumUntil on a premium profile means
// unbounded access and is only ever produced by a manual grant, never by the
// payment pipeline.
type Profile struct {
	UserID       string
	Name         string
	Email        *string
	Role         Role
	PremiumUntil *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
