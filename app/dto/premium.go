package dto

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PackageResponse struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	DurationMonths int32   `json:"duration_months"`
	Price          int64   `json:"price"`
	Description    *string `json:"description,omitempty"`
	IsPopular      bool    `json:"is_popular"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type ListPackagesResponse struct {
	Packages []PackageResponse `json:"packages"`
}

type PackageEnvelopeResponse struct {
	Package PackageResponse `json:"package"`
}

type TransactionResponse struct {
	ID                   uint64  `json:"id"`
	UserID               string  `json:"user_id"`
	PackageID            uint64  `json:"package_id"`
	Amount               int64   `json:"amount"`
	DurationMonths       int32   `json:"duration_months"`
	OrderID              string  `json:"order_id"`
	Status               string  `json:"status"`
	GatewayTransactionID *string `json:"gateway_transaction_id,omitempty"`
	PaymentType          *string `json:"payment_type,omitempty"`
	CreatedAt            string  `json:"created_at"`
	UpdatedAt            string  `json:"updated_at"`
}

type CreatePaymentResponse struct {
	OrderID     string              `json:"order_id"`
	Token       string              `json:"token"`
	RedirectURL string              `json:"redirect_url"`
	Transaction TransactionResponse `json:"transaction"`
}

type ProfileResponse struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Role         string  `json:"role"`
	PremiumUntil *string `json:"premium_until,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ProfileEnvelopeResponse struct {
	Profile ProfileResponse `json:"profile"`
}

type AccessCheckResponse struct {
	Allowed bool `json:"allowed"`
}
