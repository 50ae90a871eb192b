// Package notify delivers ledger notifications by email (SMTP through gomail)
// and SMS. SMS has no gateway; it is logged only.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"udhar-ledger/internal/adapter/metrics"
	"udhar-ledger/internal/config"
	domain "udhar-ledger/internal/domain/notify"
)

// Sender is the subset of *gomail.Dialer the email notifier needs.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailNotifier struct {
	sender Sender
	from   string
}

func NewEmailNotifier(s Sender, from string) *EmailNotifier {
	return &EmailNotifier{sender: s, from: from}
}

func (n *EmailNotifier) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// Dispatcher implements domain.Notifier. A nil email notifier disables email.
type Dispatcher struct {
	email      *EmailNotifier
	smsEnabled bool
	log        *zap.Logger
	metrics    *metrics.Metrics
}

var _ domain.Notifier = (*Dispatcher)(nil)

func NewDispatcher(email *EmailNotifier, smsEnabled bool, log *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{email: email, smsEnabled: smsEnabled, log: log, metrics: m}
}

// FromConfig wires SMTP when SMTP_ENABLED is set.
func FromConfig(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *Dispatcher {
	var email *EmailNotifier
	if cfg.SMTPEnabled {
		d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		email = NewEmailNotifier(d, cfg.SMTPFrom)
	}
	return NewDispatcher(email, cfg.SMSEnabled, log, m)
}

func (d *Dispatcher) Notify(_ context.Context, ch domain.Channel, recipient, subject, body string) bool {
	ok := d.deliver(ch, recipient, subject, body)
	if d.metrics != nil {
		d.metrics.Notification(string(ch), ok)
	}
	return ok
}

func (d *Dispatcher) deliver(ch domain.Channel, recipient, subject, body string) bool {
	if recipient == "" {
		return false
	}
	switch ch {
	case domain.ChannelEmail:
		if d.email == nil {
			d.log.Debug("email disabled", zap.String("to", recipient))
			return false
		}
		if err := d.email.Send(recipient, subject, body); err != nil {
			d.log.Info("email not delivered", zap.String("to", recipient), zap.Error(err))
			return false
		}
		return true
	case domain.ChannelSMS:
		if !d.smsEnabled {
			return false
		}
		// no gateway: the message is only logged
		d.log.Info("sms", zap.String("to", recipient), zap.String("body", body))
		return true
	default:
		d.log.Warn("unknown notification channel", zap.String("channel", string(ch)))
		return false
	}
}
