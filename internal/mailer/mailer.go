package mailer

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"backoffice/api/internal/config"
)

// Mailer posts messages to the external mail relay. The relay takes form
// fields, not JSON, and answers 200 on accept.
type Mailer struct {
	client *resty.Client
	sender string
}

func New(cfg config.MailerConfig) *Mailer {
	client := resty.New().
		SetBaseURL(cfg.RelayURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(1)

	return &Mailer{
		client: client,
		sender: cfg.Sender,
	}
}

func (m *Mailer) Send(ctx context.Context, recipient string, subject string, body string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"destino": recipient,
			"asunto":  subject,
			"detalle": body,
			"from":    m.sender,
		}).
		Post("")
	if err != nil {
		return fmt.Errorf("post mail relay: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail relay status %d", resp.StatusCode())
	}
	return nil
}

// SendVerificationCode delivers the one-time login code to the operator's
// login address.
func (m *Mailer) SendVerificationCode(ctx context.Context, recipient string, code string) error {
	subject := "Código de Verificación"
	body := fmt.Sprintf("Hola, tu código de verificación es: %s", code)
	return m.Send(ctx, recipient, subject, body)
}
