package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/dcastano/veloshop-backend/pkg/config"
	"github.com/dcastano/veloshop-backend/pkg/logger"
)

// Sender is the outbound email surface used by services. Confirmation mail is
// fire-and-forget; callers must not couple request success to delivery.
type Sender interface {
	SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error
}

// Mailer delivers HTML mail over plain SMTP.
type Mailer struct {
	cfg  config.SMTPConfig
	logg *logger.Logger
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New builds a Mailer from the SMTP config.
func New(cfg config.SMTPConfig, logg *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, logg: logg, send: smtp.SendMail}
}

// Enabled reports whether SMTP is configured; when false SendHTMLEmail is a no-op.
func (m *Mailer) Enabled() bool {
	return strings.TrimSpace(m.cfg.Host) != "" && strings.TrimSpace(m.cfg.From) != ""
}

// SendHTMLEmail delivers a single HTML message to one recipient.
func (m *Mailer) SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error {
	if !m.Enabled() {
		if m.logg != nil {
			m.logg.Warn(ctx, "smtp not configured, skipping email to "+to)
		}
		return nil
	}

	headers := map[string]string{
		"From":         m.cfg.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="UTF-8"`,
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msg strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, headers[k])
	}
	msg.WriteString("\r\n" + htmlBody)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// BuildOrderConfirmationBody renders the order confirmation email.
func BuildOrderConfirmationBody(orderID, total string) string {
	return fmt.Sprintf(`
	<html>
	<body style="font-family: Arial, sans-serif; color: #333;">
		<h2>Thank you for your order</h2>
		<p>Your order <strong>%s</strong> has been received and is pending payment.</p>
		<p>Order total: <strong>%s</strong></p>
		<p>We will email you again once your payment is confirmed.</p>
	</body>
	</html>`, orderID, total)
}

// BuildPaymentConfirmationBody renders the payment confirmation email.
func BuildPaymentConfirmationBody(orderID, amount string) string {
	return fmt.Sprintf(`
	<html>
	<body style="font-family: Arial, sans-serif; color: #333;">
		<h2>Payment confirmed</h2>
		<p>We received your payment of <strong>%s</strong> for order <strong>%s</strong>.</p>
		<p>Your order is now confirmed and will ship shortly.</p>
	</body>
	</html>`, amount, orderID)
}

// BuildPasswordResetBody renders the password reset email.
func BuildPasswordResetBody(token string) string {
	return fmt.Sprintf(`
	<html>
	<body style="font-family: Arial, sans-serif; color: #333;">
		<h2>Password reset requested</h2>
		<p>Use the following token to reset your password:</p>
		<p style="font-size: 1.4em;"><strong>%s</strong></p>
		<p>If you did not request a reset, ignore this email.</p>
	</body>
	</html>`, token)
}
