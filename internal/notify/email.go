package notify

import (
	"context"
	"fmt"

	"github.com/mediconnect/omnichannel-platform/internal/manager"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender defines the interface for sending e-mails.
// Implementations can be swapped without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an e-mail to be sent.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// SendGridSender sends e-mails via the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender creates a SendGrid e-mail sender. Without an API
// key it returns nil and alerting stays disabled.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "MediConnect"
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send delivers the message through SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("notify: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: sendgrid send: status %d", resp.StatusCode)
	}
	s.logger.Info("alert e-mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// AssumeAlerts e-mails the on-call operator when a manager assumes a
// critical conversation. It implements manager.AlertSender.
type AssumeAlerts struct {
	sender EmailSender
	to     string
}

// NewAssumeAlerts creates the alert sender. It returns nil when either
// the e-mail backend or the recipient is missing, so wiring stays
// optional.
func NewAssumeAlerts(sender EmailSender, to string) *AssumeAlerts {
	if sender == nil || to == "" {
		return nil
	}
	return &AssumeAlerts{sender: sender, to: to}
}

// SendAssumeAlert sends one alert e-mail for an assumed conversation.
func (a *AssumeAlerts) SendAssumeAlert(ctx context.Context, managerName string, conv manager.CriticalConversation) error {
	subject := fmt.Sprintf("Atendimento crítico assumido: %s", conv.Patient)
	body := fmt.Sprintf(
		"%s assumiu o atendimento de %s (atendente anterior: %s).\nMotivo: %s\nTempo em espera: %s\n",
		managerName, conv.Patient, conv.Agent, conv.Reason, conv.WaitingFor,
	)
	return a.sender.Send(ctx, EmailMessage{To: a.to, Subject: subject, Body: body})
}
