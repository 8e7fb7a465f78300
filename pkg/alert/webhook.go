package alert

import (
	"context"
	"time"

	"github.com/imroc/req/v3"

	"github.com/atelier-hq/workplane/pkg/config"
)

// webhookAlerter mirrors every notification to an external sink (chat
// bot, automation endpoint). Delivery failures are the caller's to log.
type webhookAlerter struct {
	client *req.Client
	url    string
	secret string
}

func newWebhookAlerter() alertHandlerInterface {
	c := config.GetConfig()
	if c.Webhook.URL == "" {
		return nil
	}
	return &webhookAlerter{
		client: req.C().SetTimeout(5 * time.Second),
		url:    c.Webhook.URL,
		secret: c.Webhook.Secret,
	}
}

func (w *webhookAlerter) SendMessageTo(ctx context.Context, email, subject, body string) error {
	_, err := w.client.R().
		SetContext(ctx).
		SetHeader("X-Workplane-Secret", w.secret).
		SetBodyJsonMarshal(map[string]string{
			"email":   email,
			"subject": subject,
			"body":    body,
		}).
		Post(w.url)
	return err
}
