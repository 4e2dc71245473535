package notifier

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/edukasiku/ms-go-premium/app/entity"
	"github.com/edukasiku/ms-go-premium/app/factory"
	"github.com/edukasiku/ms-go-premium/config"
)

type profileLookup interface {
	FindByUserID(ctx context.Context, userID string) (*entity.Profile, error)
}

// SMTPMailer emails an upgrade confirmation to the user's profile address.
type SMTPMailer struct {
	cfg      config.NotifierConfig
	profiles profileLookup
	logger   logrus.FieldLogger
}

func NewSMTPMailer(cfg config.NotifierConfig, profiles profileLookup) *SMTPMailer {
	return &SMTPMailer{
		cfg:      cfg,
		profiles: profiles,
		logger:   factory.NewModuleLogger("notifier-smtp"),
	}
}

func (m *SMTPMailer) NotifyUpgrade(ctx context.Context, notice UpgradeNotice) error {
	profile, err := m.profiles.FindByUserID(ctx, notice.UserID)
	if err != nil {
		return fmt.Errorf("lookup profile for notification: %w", err)
	}
	if profile == nil || profile.Email == nil {
		m.logger.WithField("user_id", notice.UserID).Warn("no email address for upgrade notice")
		return nil
	}

	sender := m.cfg.Sender
	if sender == "" {
		sender = "no-reply@localhost"
	}

	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" && m.cfg.SMTPPassword != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	subject := "Selamat! Akun premium Anda sudah aktif"
	body := fmt.Sprintf(
		"Halo %s,\r\n\r\nPembayaran sebesar Rp %d untuk paket premium Anda telah kami terima. Selamat menikmati seluruh konten premium!\r\n",
		profile.Name, notice.Amount,
	)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", sender, *profile.Email, subject, body))

	addr := net.JoinHostPort(m.cfg.SMTPHost, m.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, sender, []string{*profile.Email}, msg); err != nil {
		return fmt.Errorf("send upgrade email: %w", err)
	}

	m.logger.WithField("user_id", notice.UserID).Info("upgrade email sent")
	return nil
}
