package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/qq3pta/coffee-shop-api/internal/config"
)

type VerificationNotification struct {
	UserID    uint
	Email     string
	Code      string
	ExpiresAt time.Time
}

type EmailVerificationNotifier interface {
	SendEmailVerification(ctx context.Context, notification VerificationNotification) error
}

// DevEmailVerificationNotifier logs the code instead of sending mail. Used in
// development where no SMTP server is configured.
type DevEmailVerificationNotifier struct {
	logger *slog.Logger
}

func NewDevEmailVerificationNotifier(logger *slog.Logger) *DevEmailVerificationNotifier {
	return &DevEmailVerificationNotifier{logger: logger}
}

func (n *DevEmailVerificationNotifier) SendEmailVerification(ctx context.Context, notification VerificationNotification) error {
	n.logger.InfoContext(ctx, "verification code issued",
		"user_id", notification.UserID,
		"email", notification.Email,
		"code", notification.Code,
		"expires_at", notification.ExpiresAt,
	)
	return nil
}

// SMTPEmailVerificationNotifier delivers the code over SMTP with STARTTLS.
type SMTPEmailVerificationNotifier struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewSMTPEmailVerificationNotifier(cfg *config.Config, logger *slog.Logger) *SMTPEmailVerificationNotifier {
	return &SMTPEmailVerificationNotifier{cfg: cfg, logger: logger}
}

func (n *SMTPEmailVerificationNotifier) SendEmailVerification(ctx context.Context, notification VerificationNotification) error {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.MailFrom); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(notification.Email); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject("Verify your Coffee Shop account")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Your verification code is: %s\n\nThe code expires at %s.\n",
		notification.Code,
		notification.ExpiresAt.UTC().Format(time.RFC1123),
	))

	client, err := mail.NewClient(n.cfg.SMTPHost,
		mail.WithPort(n.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.SMTPUser),
		mail.WithPassword(n.cfg.SMTPPass),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	n.logger.InfoContext(ctx, "verification email sent", "user_id", notification.UserID, "email", notification.Email)
	return nil
}
