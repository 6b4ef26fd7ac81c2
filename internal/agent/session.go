package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mediconnect/omnichannel-platform/internal/events"
	"github.com/mediconnect/omnichannel-platform/internal/queue"
)

// State is the explicit state of an agent's conversation session.
type State string

const (
	// StateIdle means no conversation is selected.
	StateIdle State = "idle"
	// StateActive means exactly one conversation is selected.
	StateActive State = "active"
)

var (
	// ErrNoActiveConversation is returned by operations that require an
	// active conversation while the session is idle. Callers violating
	// the contract fail loud instead of silently doing nothing.
	ErrNoActiveConversation = errors.New("agent: no active conversation")

	// ErrBlankDraft is returned when SendMessage is invoked with an
	// empty (after trimming) draft.
	ErrBlankDraft = errors.New("agent: draft message is blank")
)

// Metrics records state-machine activity. Implementations must be safe
// to call from multiple sessions.
type Metrics interface {
	ObserveInteraction(agent string)
	ObserveFinalized()
}

// Session is one agent's conversation state machine: Idle until a
// conversation is selected, Active while exactly one is. It lives for
// the duration of the agent's login and is not persisted.
type Session struct {
	agent     string
	queue     *queue.Queue
	publisher events.Publisher
	metrics   Metrics
	now       func() time.Time

	mu           sync.Mutex
	state        State
	active       *queue.Conversation
	draft        string
	handledToday int
	counterDay   time.Time
}

// SessionOption tweaks session construction.
type SessionOption func(*Session)

// WithHandledToday seeds the daily interaction counter.
func WithHandledToday(n int) SessionOption {
	return func(s *Session) { s.handledToday = n }
}

// WithMetrics attaches activity metrics.
func WithMetrics(m Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// WithClock overrides the time source used for the daily counter.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates an idle session for the named agent over the
// shared conversation queue.
func NewSession(agent string, q *queue.Queue, publisher events.Publisher, opts ...SessionOption) *Session {
	s := &Session{
		agent:     agent,
		queue:     q,
		publisher: publisher,
		now:       time.Now,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.counterDay = dateOf(s.now())
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveConversation returns a copy of the selected conversation, or
// nil while idle.
func (s *Session) ActiveConversation() *queue.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	c := *s.active
	return &c
}

// Draft returns the current draft buffer.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// HandledToday returns the session-scoped daily interaction counter.
func (s *Session) HandledToday() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollCounterLocked()
	return s.handledToday
}

// SelectConversation focuses the session on a conversation from the
// queue. Selection is a focus action: the conversation status does not
// change. Re-selecting while active replaces the previous selection
// and discards the draft.
func (s *Session) SelectConversation(ctx context.Context, id int) (queue.Conversation, error) {
	conv, err := s.queue.Get(id)
	if err != nil {
		return queue.Conversation{}, err
	}

	s.mu.Lock()
	s.state = StateActive
	s.active = &conv
	s.draft = ""
	s.mu.Unlock()

	s.publish(ctx, events.Event{
		Type:           events.TypeServiceStarted,
		Actor:          s.agent,
		Patient:        conv.Patient,
		Channel:        string(conv.Channel),
		ConversationID: conv.ID,
	})
	return conv, nil
}

// AssumeConversation is the manager's privileged variant of
// SelectConversation: identical focus semantics, reported as an
// assumption instead of a service start.
func (s *Session) AssumeConversation(ctx context.Context, id int) (queue.Conversation, error) {
	conv, err := s.queue.Get(id)
	if err != nil {
		return queue.Conversation{}, err
	}

	s.mu.Lock()
	s.state = StateActive
	s.active = &conv
	s.draft = ""
	s.mu.Unlock()

	s.publish(ctx, events.Event{
		Type:           events.TypeConversationAssumed,
		Actor:          s.agent,
		Patient:        conv.Patient,
		Channel:        string(conv.Channel),
		ConversationID: conv.ID,
	})
	return conv, nil
}

// ComposeDraft sets the draft buffer verbatim. Valid only while active.
func (s *Session) ComposeDraft(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNoActiveConversation
	}
	s.draft = text
	return nil
}

// SendMessage reports the draft as an outgoing message for the active
// conversation, clears the draft and increments the daily counter. The
// conversation status is not changed; there is no transport behind
// this, only the confirmation event.
func (s *Session) SendMessage(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return ErrNoActiveConversation
	}
	if strings.TrimSpace(s.draft) == "" {
		s.mu.Unlock()
		return ErrBlankDraft
	}
	conv := *s.active
	s.draft = ""
	s.rollCounterLocked()
	s.handledToday++
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveInteraction(s.agent)
	}
	s.publish(ctx, events.Event{
		Type:           events.TypeMessageSent,
		Actor:          s.agent,
		Patient:        conv.Patient,
		Channel:        string(conv.Channel),
		ConversationID: conv.ID,
	})
	return nil
}

// ScheduleAppointment reports an appointment side action for the
// active conversation. No appointment entity is created here; the
// scheduling collaborator owns that.
func (s *Session) ScheduleAppointment(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return ErrNoActiveConversation
	}
	conv := *s.active
	s.mu.Unlock()

	s.publish(ctx, events.Event{
		Type:           events.TypeAppointmentScheduled,
		Actor:          s.agent,
		Patient:        conv.Patient,
		ConversationID: conv.ID,
	})
	return nil
}

// Finalize marks the active conversation finalizado in the queue and
// returns the session to idle, discarding the draft.
func (s *Session) Finalize(ctx context.Context) (queue.Conversation, error) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return queue.Conversation{}, ErrNoActiveConversation
	}
	conv := *s.active
	s.mu.Unlock()

	if err := s.queue.SetStatus(conv.ID, queue.StatusFinalized); err != nil {
		return queue.Conversation{}, fmt.Errorf("agent: finalize conversation %d: %w", conv.ID, err)
	}

	s.mu.Lock()
	s.state = StateIdle
	s.active = nil
	s.draft = ""
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveFinalized()
	}
	s.publish(ctx, events.Event{
		Type:           events.TypeConversationFinalized,
		Actor:          s.agent,
		Patient:        conv.Patient,
		ConversationID: conv.ID,
	})

	conv.Status = queue.StatusFinalized
	return conv, nil
}

// rollCounterLocked resets the daily counter when the date changes.
// Callers must hold s.mu.
func (s *Session) rollCounterLocked() {
	today := dateOf(s.now())
	if !today.Equal(s.counterDay) {
		s.counterDay = today
		s.handledToday = 0
	}
}

func (s *Session) publish(ctx context.Context, evt events.Event) {
	if s.publisher == nil {
		return
	}
	// Confirmation events are best-effort; a full bus must not wedge
	// the state machine.
	_ = s.publisher.Publish(ctx, evt)
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
