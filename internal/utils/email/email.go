package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/bank-account/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
	now    func() time.Time
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	s.send = s.sendSMTP
	return s
}

func (s *Sender) sendSMTP(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

// buildTransactionEmail formats the notification for a deposit or withdrawal
func (s *Sender) buildTransactionEmail(kind string, amount, balance float64) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.NotifyEmail}
	e.Subject = fmt.Sprintf("%s Notification", kind)

	body := fmt.Sprintf("Dear %s,\n\n", s.cfg.AccountHolder)
	switch kind {
	case "Deposit":
		body += fmt.Sprintf("Your account has been credited with %.2f.\n", amount)
	case "Withdrawal":
		body += fmt.Sprintf("An amount of %.2f has been withdrawn from your account.\n", amount)
	default:
		body += fmt.Sprintf("A %s of %.2f has been applied to your account.\n", kind, amount)
	}
	body += fmt.Sprintf("Transaction time: %s\nCurrent balance: %.2f\n", s.now().Format("2006-01-02 15:04:05"), balance)
	body += "\nBest regards,\nBank Service"
	e.Text = []byte(body)
	return e
}

// NotifyTransaction sends a notification email for a deposit or withdrawal
func (s *Sender) NotifyTransaction(kind string, amount, balance float64) error {
	e := s.buildTransactionEmail(kind, amount, balance)
	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send %s notification to %s: %v", kind, s.cfg.NotifyEmail, err)
		return fmt.Errorf("failed to send %s notification: %w", kind, err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.NotifyEmail, e.Subject)
	return nil
}
