package notifier

import "context"

// UpgradeNotice describes a completed premium upgrade. Amount is the frozen
// transaction amount in the minor currency unit.
type UpgradeNotice struct {
	UserID    string
	PackageID uint64
	Amount    int64
}

// Notifier delivers a confirmation after a successful upgrade. Delivery is
// best effort; a failure must never affect ledger or entitlement state.
type Notifier interface {
	NotifyUpgrade(ctx context.Context, notice UpgradeNotice) error
}
