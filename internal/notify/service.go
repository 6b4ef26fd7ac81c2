package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/mediconnect/omnichannel-platform/internal/events"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

const defaultKeep = 50

// Notification is a rendered, user-facing confirmation. It is the
// backend counterpart of the dashboard toast.
type Notification struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Event       events.Event `json:"event"`
}

// Service consumes confirmation events and renders notifications. It
// keeps a bounded list of the most recent ones for the dashboards.
type Service struct {
	source <-chan events.Event
	logger *logging.Logger
	keep   int

	mu     sync.RWMutex
	recent []Notification
}

// NewService creates a notification service reading from the bus. keep
// bounds the retained history; zero means the default.
func NewService(source <-chan events.Event, keep int, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if keep <= 0 {
		keep = defaultKeep
	}
	return &Service{
		source: source,
		logger: logger,
		keep:   keep,
	}
}

// Run consumes events until ctx is done or the bus closes. It is meant
// to run on its own goroutine.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-s.source:
			if !ok {
				return
			}
			s.ingest(evt)
		}
	}
}

// Recent returns the retained notifications, newest first.
func (s *Service) Recent() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notification, len(s.recent))
	for i, n := range s.recent {
		out[len(s.recent)-1-i] = n
	}
	return out
}

func (s *Service) ingest(evt events.Event) {
	n := Render(evt)
	s.logger.Info("notification",
		"title", n.Title,
		"description", n.Description,
		"type", evt.Type,
	)

	s.mu.Lock()
	s.recent = append(s.recent, n)
	if len(s.recent) > s.keep {
		s.recent = s.recent[len(s.recent)-s.keep:]
	}
	s.mu.Unlock()
}

// Render maps a confirmation event to its user-facing wording.
func Render(evt events.Event) Notification {
	n := Notification{Event: evt}
	switch evt.Type {
	case events.TypeSessionStarted:
		n.Title = "Login realizado com sucesso!"
		n.Description = fmt.Sprintf("Bem-vindo(a), %s", evt.Actor)
	case events.TypeSessionEnded:
		n.Title = "Logout realizado"
		n.Description = "Até logo!"
	case events.TypePatientRegistered:
		n.Title = "Cadastro realizado com sucesso!"
		n.Description = "Você já pode fazer login na plataforma"
	case events.TypeServiceStarted:
		n.Title = "Atendimento iniciado"
		n.Description = fmt.Sprintf("Conversa com %s via %s", evt.Patient, evt.Channel)
	case events.TypeMessageSent:
		n.Title = "Mensagem enviada"
		n.Description = fmt.Sprintf("Resposta enviada para %s", evt.Patient)
	case events.TypeAppointmentScheduled:
		n.Title = "Consulta agendada"
		n.Description = fmt.Sprintf("Consulta marcada para %s", evt.Patient)
	case events.TypeAppointmentRequested:
		n.Title = "Agendamento iniciado"
		n.Description = "Em breve você será redirecionado para a agenda médica"
	case events.TypeConversationFinalized:
		n.Title = "Atendimento finalizado"
		n.Description = fmt.Sprintf("Conversa com %s foi concluída", evt.Patient)
	case events.TypeConversationAssumed:
		n.Title = "Atendimento assumido"
		n.Description = fmt.Sprintf("Você assumiu o atendimento de %s", evt.Patient)
	default:
		n.Title = string(evt.Type)
		n.Description = evt.Detail
	}
	return n
}
