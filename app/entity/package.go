package entity

import "time"

// PremiumPackage is an admin-managed price/duration definition. Price and
// duration are snapshotted into a Transaction at intent time, so editing a
// package never changes an in-flight payment.
type PremiumPackage struct {
	ID             uint64
	Name           string
	DurationMonths int32
	Price          int64
	Description    *string
	IsPopular      bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
