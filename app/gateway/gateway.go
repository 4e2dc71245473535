package gateway

import "context"

// CheckoutRequest carries everything the gateway needs to open a hosted
// checkout session for one payment intent.
type CheckoutRequest struct {
	OrderID       string
	Amount        int64
	ItemID        string
	ItemName      string
	CustomerName  string
	CustomerEmail string
	FinishURL     string
	ErrorURL      string
	PendingURL    string
}

// Checkout is the gateway-issued handle for a hosted checkout session.
type Checkout struct {
	Token       string
	RedirectURL string
}

type Service interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
}
