package queue

// Channel is the contact medium a conversation arrived through.
type Channel string

const (
	ChannelWhatsApp  Channel = "WhatsApp"
	ChannelInstagram Channel = "Instagram"
	ChannelEmail     Channel = "E-mail"
)

// Priority drives display ordering and coloring only; it carries no
// numeric weight.
type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baixa"
)

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status is the conversation lifecycle state. Transitions only move
// forward: aguardando -> em_atendimento -> finalizado.
type Status string

const (
	StatusWaiting   Status = "aguardando"
	StatusInService Status = "em_atendimento"
	StatusFinalized Status = "finalizado"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusInService, StatusFinalized:
		return true
	}
	return false
}

func (s Status) rank() int {
	switch s {
	case StatusWaiting:
		return 0
	case StatusInService:
		return 1
	case StatusFinalized:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next respects the
// forward-only lifecycle. Setting the same status again is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}

// Conversation is one inbound contact-channel thread waiting for, or
// under, an agent's attention.
type Conversation struct {
	ID          int      `json:"id"`
	Patient     string   `json:"paciente"`
	Channel     Channel  `json:"canal"`
	LastMessage string   `json:"ultimaMensagem"`
	TimeLabel   string   `json:"tempo"`
	Priority    Priority `json:"prioridade"`
	Status      Status   `json:"status"`
}
