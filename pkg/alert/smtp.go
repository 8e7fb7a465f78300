package alert

import (
	"context"

	gomail "gopkg.in/gomail.v2"

	"github.com/atelier-hq/workplane/pkg/config"
)

type smtpAlerter struct {
	dialer *gomail.Dialer
	from   string
}

// newSMTPAlerter returns nil when no SMTP host is configured.
func newSMTPAlerter() alertHandlerInterface {
	c := config.GetConfig()
	if c.SMTP.Host == "" {
		return nil
	}
	return &smtpAlerter{
		dialer: gomail.NewDialer(c.SMTP.Host, c.SMTP.Port, c.SMTP.User, c.SMTP.Password),
		from:   c.SMTP.Notify,
	}
}

func (s *smtpAlerter) SendMessageTo(_ context.Context, email, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return s.dialer.DialAndSend(msg)
}
