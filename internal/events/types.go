package events

import "time"

// Type identifies a confirmation event. Events are the backend
// counterpart of the dashboard toasts: every state-machine side action
// is reported, none of them is a durable message append.
type Type string

const (
	TypeSessionStarted        Type = "session.started.v1"
	TypeSessionEnded          Type = "session.ended.v1"
	TypePatientRegistered     Type = "patient.registered.v1"
	TypeServiceStarted        Type = "service.started.v1"
	TypeMessageSent           Type = "message.sent.v1"
	TypeAppointmentScheduled  Type = "appointment.scheduled.v1"
	TypeAppointmentRequested  Type = "appointment.requested.v1"
	TypeConversationFinalized Type = "conversation.finalized.v1"
	TypeConversationAssumed   Type = "conversation.assumed.v1"
)

// Event is a single confirmation emitted by the identity service or
// the conversation state machine.
type Event struct {
	ID             string    `json:"event_id"`
	Type           Type      `json:"type"`
	OccurredAt     time.Time `json:"occurred_at"`
	Actor          string    `json:"actor,omitempty"`
	Patient        string    `json:"patient,omitempty"`
	Channel        string    `json:"channel,omitempty"`
	ConversationID int       `json:"conversation_id,omitempty"`
	Detail         string    `json:"detail,omitempty"`
}
