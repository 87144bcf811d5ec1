package mailer

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/voltshop/storefront/config"
)

// ContactMessage is a validated contact-form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
}

// Sender delivers contact-form mail to the shop inbox.
type Sender interface {
	SendContact(msg ContactMessage) error
}

type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendContact(msg ContactMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Reply-To", msg.Email)
	m.SetHeader("Subject", fmt.Sprintf("[Contact] %s", msg.Subject))
	m.SetBody("text/plain", fmt.Sprintf(
		"Name: %s\nEmail: %s\nPhone: %s\n\n%s", msg.Name, msg.Email, msg.Phone, msg.Body))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return errors.Wrap(err, "send contact mail")
	}
	zap.L().Info("contact mail delivered", zap.String("from", msg.Email))
	return nil
}
