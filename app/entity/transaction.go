package entity

import "time"

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusPaid    TransactionStatus = "paid"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Terminal reports whether no further status transition is accepted.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusPaid || s == TransactionStatusFailed
}

// Transaction is the ledger record for one payment intent. Amount and
// DurationMonths are frozen copies taken from the package at creation time;
// PackageID is kept for audit only. GatewayTransactionID and PaymentType are
// filled in once from the first notification that carries them and never
// overwritten afterwards.
type Transaction struct {
	ID                   uint64
	UserID               string
	PackageID            uint64
	Amount               int64
	DurationMonths       int32
	OrderID              string
	Status               TransactionStatus
	GatewayTransactionID *string
	PaymentType          *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
