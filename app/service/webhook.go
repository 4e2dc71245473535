package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edukasiku/ms-go-premium/app/entity"
	"github.com/edukasiku/ms-go-premium/app/factory"
	"github.com/edukasiku/ms-go-premium/app/gateway"
	"github.com/edukasiku/ms-go-premium/app/notifier"
	"github.com/edukasiku/ms-go-premium/app/repository"
	"github.com/edukasiku/ms-go-premium/app/types"
	"github.com/edukasiku/ms-go-premium/config"
)

type unitOfWork interface {
	Do(ctx context.Context, fn func(txns repository.TransactionStore, profiles repository.ProfileStore) error) error
}

type upgradeDispatcher interface {
	Dispatch(notice notifier.UpgradeNotice)
}

// WebhookService ingests gateway status notifications. Deliveries are
// at-least-once and unordered, so each order id gets at most one effective
// transition: the row lock serializes concurrent deliveries and the
// compare-and-swap status guard rejects any delivery that lost the race.
// Only the PENDING→PAID transition extends entitlement and notifies, and
// both happen in the same database transaction as the status change (the
// notification is enqueued after commit).
type WebhookService struct {
	uow        unitOfWork
	dispatcher upgradeDispatcher
	cfg        config.MidtransConfig
	logger     logrus.FieldLogger
}

func NewWebhookService(uow unitOfWork, dispatcher upgradeDispatcher, cfg config.MidtransConfig) *WebhookService {
	return &WebhookService{
		uow:        uow,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     factory.NewModuleLogger("webhook-ingestor"),
	}
}

func (s *WebhookService) HandleNotification(ctx context.Context, n *types.PaymentNotification) error {
	if s.cfg.ServerKey != "" {
		if !gateway.VerifyNotificationSignature(n.OrderID, n.StatusCode, n.GrossAmount, s.cfg.ServerKey, n.SignatureKey) {
			s.logger.WithField("order_id", n.OrderID).Warn("rejected notification with bad signature")
			return ErrInvalidSignature
		}
	}

	target, known := mapTransactionStatus(n.TransactionStatus, n.FraudStatus)
	if !known {
		s.logger.WithFields(logrus.Fields{
			"order_id":           n.OrderID,
			"transaction_status": n.TransactionStatus,
		}).Warn("ignoring notification with unrecognized status")
		return nil
	}

	gatewayTxnID := optionalString(n.TransactionID)
	paymentType := optionalString(n.PaymentType)

	var notice *notifier.UpgradeNotice
	err := s.uow.Do(ctx, func(txns repository.TransactionStore, profiles repository.ProfileStore) error {
		txn, err := txns.FindByOrderIDForUpdate(ctx, n.OrderID)
		if err != nil {
			return err
		}
		if txn == nil {
			// May be a lookup race with intent creation; a non-2xx response
			// makes the gateway redeliver.
			return ErrTransactionNotFound
		}

		now := time.Now().UTC()

		if txn.Status.Terminal() {
			s.logger.WithFields(logrus.Fields{
				"order_id": n.OrderID,
				"status":   string(txn.Status),
			}).Info("duplicate notification for terminal transaction ignored")
			return nil
		}

		if target == entity.TransactionStatusPending {
			// Same-state notification: record metadata once, no transition.
			return txns.FillGatewayMetadata(ctx, n.OrderID, gatewayTxnID, paymentType, now)
		}

		ok, err := txns.UpdateStatusFrom(ctx, n.OrderID, entity.TransactionStatusPending, target, gatewayTxnID, paymentType, now)
		if err != nil {
			return err
		}
		if !ok {
			s.logger.WithField("order_id", n.OrderID).Info("lost transition race, treating as duplicate")
			return nil
		}

		if target != entity.TransactionStatusPaid {
			return nil
		}

		// Locked read: two paid orders for the same user must extend
		// sequentially, not both from the same stale premium_until.
		profile, err := profiles.FindByUserIDForUpdate(ctx, txn.UserID)
		if err != nil {
			return err
		}
		if profile == nil {
			return fmt.Errorf("%w: user %s", ErrProfileNotFound, txn.UserID)
		}

		premiumUntil := NextPremiumUntil(now, profile.PremiumUntil, txn.DurationMonths)
		if err := profiles.UpdateEntitlement(ctx, txn.UserID, entity.RolePremium, &premiumUntil, now); err != nil {
			return err
		}

		notice = &notifier.UpgradeNotice{
			UserID:    txn.UserID,
			PackageID: txn.PackageID,
			Amount:    txn.Amount,
		}

		s.logger.WithFields(logrus.Fields{
			"order_id":      n.OrderID,
			"user_id":       txn.UserID,
			"premium_until": premiumUntil.Format(time.RFC3339),
		}).Info("premium entitlement extended")
		return nil
	})
	if err != nil {
		return err
	}

	if notice != nil {
		s.dispatcher.Dispatch(*notice)
	}
	return nil
}

// mapTransactionStatus translates the gateway status vocabulary into a ledger
// status. The second return value is false for vocabulary this service does
// not know, which callers must treat as a no-op rather than an error.
func mapTransactionStatus(transactionStatus, fraudStatus string) (entity.TransactionStatus, bool) {
	switch transactionStatus {
	case "settlement":
		return entity.TransactionStatusPaid, true
	case "capture":
		if fraudStatus == "accept" {
			return entity.TransactionStatusPaid, true
		}
		// Captured but held for fraud review: keep waiting.
		return entity.TransactionStatusPending, true
	case "pending":
		return entity.TransactionStatusPending, true
	case "deny", "expire", "cancel":
		return entity.TransactionStatusFailed, true
	default:
		return "", false
	}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
