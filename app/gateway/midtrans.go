package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const snapTransactionsPath = "/snap/v1/transactions"

// MidtransClient creates Snap checkout sessions against the Midtrans REST
// API. The server key doubles as HTTP basic auth username with an empty
// password.
type MidtransClient struct {
	baseURL    string
	serverKey  string
	httpClient *http.Client
}

func NewMidtransClient(baseURL, serverKey string, timeout time.Duration) *MidtransClient {
	return &MidtransClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serverKey:  serverKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type snapTransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type snapCreditCard struct {
	Secure bool `json:"secure"`
}

type snapCustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email,omitempty"`
}

type snapItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type snapCallbacks struct {
	Finish  string `json:"finish,omitempty"`
	Error   string `json:"error,omitempty"`
	Pending string `json:"pending,omitempty"`
}

type snapRequest struct {
	TransactionDetails snapTransactionDetails `json:"transaction_details"`
	CreditCard         snapCreditCard         `json:"credit_card"`
	CustomerDetails    snapCustomerDetails    `json:"customer_details"`
	ItemDetails        []snapItemDetail       `json:"item_details"`
	Callbacks          snapCallbacks          `json:"callbacks"`
}

type snapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

func (c *MidtransClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	payload := snapRequest{
		TransactionDetails: snapTransactionDetails{
			OrderID:     req.OrderID,
			GrossAmount: req.Amount,
		},
		CreditCard: snapCreditCard{Secure: true},
		CustomerDetails: snapCustomerDetails{
			FirstName: req.CustomerName,
			Email:     req.CustomerEmail,
		},
		ItemDetails: []snapItemDetail{{
			ID:       req.ItemID,
			Price:    req.Amount,
			Quantity: 1,
			Name:     req.ItemName,
		}},
		Callbacks: snapCallbacks{
			Finish:  req.FinishURL,
			Error:   req.ErrorURL,
			Pending: req.PendingURL,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal snap request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+snapTransactionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build snap request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call snap api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read snap response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("snap api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var snap snapResponse
	if err := json.Unmarshal(respBody, &snap); err != nil {
		return nil, fmt.Errorf("decode snap response: %w", err)
	}
	if snap.Token == "" {
		return nil, fmt.Errorf("snap api returned no token")
	}

	return &Checkout{Token: snap.Token, RedirectURL: snap.RedirectURL}, nil
}
