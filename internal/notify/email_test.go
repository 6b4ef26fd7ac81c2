package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/mediconnect/omnichannel-platform/internal/manager"
)

type fakeEmailSender struct {
	sent []EmailMessage
	err  error
}

func (f *fakeEmailSender) Send(_ context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestNewSendGridSenderRequiresKey(t *testing.T) {
	if s := NewSendGridSender(SendGridConfig{}, nil); s != nil {
		t.Fatal("expected nil sender without an API key")
	}
}

func TestNewAssumeAlertsOptionalWiring(t *testing.T) {
	if a := NewAssumeAlerts(nil, "oncall@mediconnect.dev"); a != nil {
		t.Fatal("expected nil alerts without an e-mail backend")
	}
	if a := NewAssumeAlerts(&fakeEmailSender{}, ""); a != nil {
		t.Fatal("expected nil alerts without a recipient")
	}
	if a := NewAssumeAlerts(&fakeEmailSender{}, "oncall@mediconnect.dev"); a == nil {
		t.Fatal("expected alerts with both backend and recipient")
	}
}

func TestSendAssumeAlert(t *testing.T) {
	sender := &fakeEmailSender{}
	alerts := NewAssumeAlerts(sender, "oncall@mediconnect.dev")

	conv := manager.CriticalConversation{
		ConversationID: 1,
		Patient:        "Ana Silva",
		Agent:          "Heloisa Capistrano",
		WaitingFor:     "8 min",
		Reason:         "Reclamação sobre atendimento",
	}
	if err := alerts.SendAssumeAlert(context.Background(), "Rafael Pinheiro", conv); err != nil {
		t.Fatalf("SendAssumeAlert failed: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 e-mail, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "oncall@mediconnect.dev" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Ana Silva") {
		t.Errorf("Subject = %q, want patient name", msg.Subject)
	}
	if !strings.Contains(msg.Body, "Reclamação sobre atendimento") {
		t.Errorf("Body missing reason: %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "Rafael Pinheiro") {
		t.Errorf("Body missing manager: %q", msg.Body)
	}
}
