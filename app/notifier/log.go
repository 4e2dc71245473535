package notifier

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/edukasiku/ms-go-premium/app/factory"
)

// LogNotifier records upgrades in the service log. Used when no SMTP host is
// configured.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: factory.NewModuleLogger("notifier-log")}
}

func (n *LogNotifier) NotifyUpgrade(_ context.Context, notice UpgradeNotice) error {
	n.logger.WithFields(logrus.Fields{
		"user_id":    notice.UserID,
		"package_id": notice.PackageID,
		"amount":     notice.Amount,
	}).Info("premium upgrade completed")
	return nil
}
