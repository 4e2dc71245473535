package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/edukasiku/ms-go-premium/app/entity"
	"github.com/edukasiku/ms-go-premium/app/factory"
	"github.com/edukasiku/ms-go-premium/app/gateway"
	"github.com/edukasiku/ms-go-premium/app/types"
	"github.com/edukasiku/ms-go-premium/config"
)

type packageRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.PremiumPackage, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.PremiumPackage, error)
	Create(ctx context.Context, pkg *entity.PremiumPackage) error
	Update(ctx context.Context, pkg *entity.PremiumPackage) error
}

type transactionCreator interface {
	Create(ctx context.Context, txn *entity.Transaction) error
}

type CreatePaymentResult struct {
	Transaction *entity.Transaction
	Token       string
	RedirectURL string
}

// PaymentIntentService snapshots a package into a PENDING ledger row and
// opens a gateway checkout session. The ledger write always precedes the
// gateway call so a webhook racing the HTTP response finds its transaction.
type PaymentIntentService struct {
	packageRepo     packageRepository
	transactionRepo transactionCreator
	profileRepo     profileRepository
	gw              gateway.Service
	cfg             config.MidtransConfig
	logger          logrus.FieldLogger
}

func NewPaymentIntentService(
	packageRepo packageRepository,
	transactionRepo transactionCreator,
	profileRepo profileRepository,
	gw gateway.Service,
	cfg config.MidtransConfig,
) *PaymentIntentService {
	return &PaymentIntentService{
		packageRepo:     packageRepo,
		transactionRepo: transactionRepo,
		profileRepo:     profileRepo,
		gw:              gw,
		cfg:             cfg,
		logger:          factory.NewModuleLogger("payment-intent"),
	}
}

func (s *PaymentIntentService) CreatePayment(ctx context.Context, req *types.CreatePaymentRequest) (*CreatePaymentResult, error) {
	pkg, err := s.packageRepo.FindByID(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || !pkg.IsActive {
		return nil, ErrPackageNotFound
	}

	now := time.Now().UTC()
	txn := &entity.Transaction{
		UserID:         req.UserID,
		PackageID:      pkg.ID,
		Amount:         pkg.Price,
		DurationMonths: pkg.DurationMonths,
		OrderID:        newOrderID(req.UserID, now),
		Status:         entity.TransactionStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	customerName := "User"
	customerEmail := ""
	if profile, err := s.profileRepo.FindByUserID(ctx, req.UserID); err == nil && profile != nil {
		if profile.Name != "" {
			customerName = profile.Name
		}
		if profile.Email != nil {
			customerEmail = *profile.Email
		}
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	checkout, err := s.createCheckoutSafely(gwCtx, gateway.CheckoutRequest{
		OrderID:       txn.OrderID,
		Amount:        txn.Amount,
		ItemID:        fmt.Sprintf("premium-%d", pkg.ID),
		ItemName:      fmt.Sprintf("Premium Membership %s", pkg.Name),
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		FinishURL:     appendOrderID(s.cfg.FinishURL, txn.OrderID),
		ErrorURL:      appendOrderID(s.cfg.ErrorURL, txn.OrderID),
		PendingURL:    appendOrderID(s.cfg.PendingURL, txn.OrderID),
	})
	if err != nil {
		// The transaction stays PENDING; the caller may retry with a new
		// order id and this row is left for operational reconciliation.
		s.logger.WithError(err).WithField("order_id", txn.OrderID).Error("checkout creation failed")
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return &CreatePaymentResult{
		Transaction: txn,
		Token:       checkout.Token,
		RedirectURL: checkout.RedirectURL,
	}, nil
}

func (s *PaymentIntentService) createCheckoutSafely(ctx context.Context, req gateway.CheckoutRequest) (_ *gateway.Checkout, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("checkout processing failed: %v", rec)
		}
	}()

	return s.gw.CreateCheckout(ctx, req)
}

// newOrderID builds a globally unique, unguessable order identifier from the
// user id, a millisecond timestamp and random entropy.
func newOrderID(userID string, now time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("premium-%s-%d-%s", userID, now.UnixMilli(), suffix)
}

func appendOrderID(baseURL, orderID string) string {
	if baseURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + "order_id=" + orderID
}
