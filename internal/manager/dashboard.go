package manager

import (
	"context"
	"errors"

	"github.com/mediconnect/omnichannel-platform/internal/agent"
	"github.com/mediconnect/omnichannel-platform/internal/queue"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

// ErrNotCritical is returned when a manager tries to assume a
// conversation that is not on the critical list.
var ErrNotCritical = errors.New("manager: conversation is not critical")

// Metrics is the aggregate view shown on the manager dashboard. The
// values are demo fixtures; only the pending count is live.
type Metrics struct {
	HandledToday       int     `json:"atendimentosHoje"`
	AvgResponseMinutes float64 `json:"tempoMedioResposta"`
	SatisfactionPct    int     `json:"satisfacaoGeral"`
	AgentsOnline       int     `json:"atendentesOnline"`
	WaitingQueue       int     `json:"filaEspera"`
	ResolutionRatePct  int     `json:"resolucaoTaxa"`
}

// AgentPresence is the roster status of one agent.
type AgentPresence string

const (
	PresenceOnline  AgentPresence = "online"
	PresenceAway    AgentPresence = "ausente"
	PresenceOffline AgentPresence = "offline"
)

// AgentSummary is one row of the agent roster.
type AgentSummary struct {
	ID                 int           `json:"id"`
	Name               string        `json:"nome"`
	Presence           AgentPresence `json:"status"`
	HandledToday       int           `json:"atendimentosHoje"`
	AvgResponseMinutes float64       `json:"tempoMedio"`
	SatisfactionPct    int           `json:"satisfacao"`
	LastActivity       string        `json:"ultimaAtividade"`
}

// CriticalConversation is a queue conversation escalated for manager
// attention. Only conversations on this list can be assumed.
type CriticalConversation struct {
	ConversationID int            `json:"id"`
	Patient        string         `json:"paciente"`
	Agent          string         `json:"atendente"`
	WaitingFor     string         `json:"tempo"`
	Priority       queue.Priority `json:"prioridade"`
	Reason         string         `json:"motivo"`
}

// Dashboard is the manager view payload.
type Dashboard struct {
	Metrics      Metrics                `json:"metricas"`
	Agents       []AgentSummary         `json:"atendentes"`
	Critical     []CriticalConversation `json:"conversasCriticas"`
	LivePending  int                    `json:"filaPendente"`
	CriticalOpen int                    `json:"situacoesCriticas"`
}

// Service aggregates the manager dashboard data and performs the
// privileged assume action on the shared queue.
type Service struct {
	queue    *queue.Queue
	registry *agent.Registry
	alerts   AlertSender
	logger   *logging.Logger

	metrics  Metrics
	agents   []AgentSummary
	critical []CriticalConversation
}

// AlertSender notifies an operator out-of-band when a manager assumes
// a critical conversation. It may be nil.
type AlertSender interface {
	SendAssumeAlert(ctx context.Context, manager string, conv CriticalConversation) error
}

// NewService creates the manager service with the demo fixtures.
func NewService(q *queue.Queue, registry *agent.Registry, alerts AlertSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		queue:    q,
		registry: registry,
		alerts:   alerts,
		logger:   logger,
		metrics:  seedMetrics(),
		agents:   seedAgents(),
		critical: seedCritical(),
	}
}

func seedMetrics() Metrics {
	return Metrics{
		HandledToday:       47,
		AvgResponseMinutes: 2.3,
		SatisfactionPct:    94,
		AgentsOnline:       3,
		WaitingQueue:       5,
		ResolutionRatePct:  89,
	}
}

func seedAgents() []AgentSummary {
	return []AgentSummary{
		{
			ID:                 1,
			Name:               "Heloisa Capistrano",
			Presence:           PresenceOnline,
			HandledToday:       15,
			AvgResponseMinutes: 2.1,
			SatisfactionPct:    96,
			LastActivity:       "Agora",
		},
		{
			ID:                 2,
			Name:               "João Silva",
			Presence:           PresenceOnline,
			HandledToday:       18,
			AvgResponseMinutes: 2.8,
			SatisfactionPct:    92,
			LastActivity:       "2 min atrás",
		},
		{
			ID:                 3,
			Name:               "Maria Santos",
			Presence:           PresenceAway,
			HandledToday:       14,
			AvgResponseMinutes: 1.9,
			SatisfactionPct:    98,
			LastActivity:       "15 min atrás",
		},
	}
}

func seedCritical() []CriticalConversation {
	return []CriticalConversation{
		{
			ConversationID: 1,
			Patient:        "Ana Silva",
			Agent:          "Heloisa Capistrano",
			WaitingFor:     "8 min",
			Priority:       queue.PriorityHigh,
			Reason:         "Reclamação sobre atendimento",
		},
		{
			ConversationID: 2,
			Patient:        "Carlos Santos",
			Agent:          "João Silva",
			WaitingFor:     "12 min",
			Priority:       queue.PriorityMedium,
			Reason:         "Problema com agendamento",
		},
	}
}

// Dashboard returns the aggregate manager view.
func (s *Service) Dashboard() Dashboard {
	return Dashboard{
		Metrics:      s.metrics,
		Agents:       s.agents,
		Critical:     s.critical,
		LivePending:  s.queue.CountPending(),
		CriticalOpen: len(s.critical),
	}
}

// Assume runs the privileged select on the manager's own session. The
// target must be on the critical list; assuming an arbitrary queue
// conversation is not a manager capability.
func (s *Service) Assume(ctx context.Context, managerID, managerName string, conversationID int) (queue.Conversation, error) {
	crit, ok := s.findCritical(conversationID)
	if !ok {
		return queue.Conversation{}, ErrNotCritical
	}

	session := s.registry.Session(managerID, managerName)
	conv, err := session.AssumeConversation(ctx, conversationID)
	if err != nil {
		return queue.Conversation{}, err
	}

	s.logger.Info("conversation assumed",
		"manager", managerName,
		"patient", conv.Patient,
		"reason", crit.Reason,
	)

	if s.alerts != nil {
		if err := s.alerts.SendAssumeAlert(ctx, managerName, crit); err != nil {
			// Alerting is best-effort; the assumption itself stands.
			s.logger.Warn("assume alert failed", "error", err)
		}
	}
	return conv, nil
}

func (s *Service) findCritical(conversationID int) (CriticalConversation, bool) {
	for _, c := range s.critical {
		if c.ConversationID == conversationID {
			return c, true
		}
	}
	return CriticalConversation{}, false
}
