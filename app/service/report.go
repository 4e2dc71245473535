package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edukasiku/ms-go-premium/app/entity"
	"github.com/edukasiku/ms-go-premium/app/factory"
	"github.com/edukasiku/ms-go-premium/config"
)

type stalePendingLister interface {
	ListStalePending(ctx context.Context, cutoff time.Time) ([]*entity.Transaction, error)
}

// LedgerReportService surfaces PENDING transactions that never received a
// terminal notification. It only reports; failing them is an operational
// decision made outside this service.
type LedgerReportService struct {
	transactionRepo stalePendingLister
	cfg             config.JobsConfig
	logger          logrus.FieldLogger
}

func NewLedgerReportService(transactionRepo stalePendingLister, cfg config.JobsConfig) *LedgerReportService {
	return &LedgerReportService{
		transactionRepo: transactionRepo,
		cfg:             cfg,
		logger:          factory.NewModuleLogger("ledger-report"),
	}
}

func (s *LedgerReportService) RunStalePendingReport(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.cfg.StalePendingAfter)
	items, err := s.transactionRepo.ListStalePending(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, item := range items {
		s.logger.WithFields(logrus.Fields{
			"order_id":   item.OrderID,
			"user_id":    item.UserID,
			"amount":     item.Amount,
			"created_at": item.CreatedAt.Format(time.RFC3339),
		}).Warn("stale pending transaction")
	}
	s.logger.WithField("count", len(items)).Info("stale pending report completed")
	return nil
}
