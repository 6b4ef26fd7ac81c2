package queue

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrConversationNotFound is returned when the conversation id is unknown.
	ErrConversationNotFound = errors.New("queue: conversation not found")

	// ErrStatusRegression is returned when a transition would move a
	// conversation backwards in its lifecycle.
	ErrStatusRegression = errors.New("queue: status cannot move backwards")

	// ErrInvalidStatus is returned for statuses outside the closed set.
	ErrInvalidStatus = errors.New("queue: invalid status")
)

// Queue holds the inbound conversations in insertion order. It is
// read-mostly: the only mutation in scope is the status progression
// driven by the agent state machine.
type Queue struct {
	mu            sync.RWMutex
	conversations []*Conversation
	byID          map[int]*Conversation
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{byID: make(map[int]*Conversation)}
}

// NewSeeded creates a queue pre-loaded with the demo service backlog.
func NewSeeded() *Queue {
	q := New()
	for _, c := range seedConversations() {
		// Seed data is static and well-formed; Append only fails on
		// duplicate ids.
		_ = q.Append(c)
	}
	return q
}

func seedConversations() []Conversation {
	return []Conversation{
		{
			ID:          1,
			Patient:     "Ana Silva",
			Channel:     ChannelWhatsApp,
			LastMessage: "Preciso reagendar minha consulta",
			TimeLabel:   "2 min atrás",
			Priority:    PriorityHigh,
			Status:      StatusWaiting,
		},
		{
			ID:          2,
			Patient:     "Carlos Santos",
			Channel:     ChannelInstagram,
			LastMessage: "Qual o resultado do meu exame?",
			TimeLabel:   "5 min atrás",
			Priority:    PriorityMedium,
			Status:      StatusWaiting,
		},
		{
			ID:          3,
			Patient:     "Maria Oliveira",
			Channel:     ChannelEmail,
			LastMessage: "Consulta confirmada, obrigada!",
			TimeLabel:   "10 min atrás",
			Priority:    PriorityLow,
			Status:      StatusFinalized,
		},
	}
}

// Append adds a conversation at the end of the queue.
func (q *Queue) Append(c Conversation) error {
	if !c.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, c.Status)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.byID[c.ID]; exists {
		return fmt.Errorf("queue: duplicate conversation id %d", c.ID)
	}
	stored := c
	q.conversations = append(q.conversations, &stored)
	q.byID[stored.ID] = &stored
	return nil
}

// List returns conversations in insertion order. A non-empty status
// narrows the result; the zero value returns everything.
func (q *Queue) List(status Status) []Conversation {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]Conversation, 0, len(q.conversations))
	for _, c := range q.conversations {
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, *c)
	}
	return out
}

// Get returns a copy of the conversation with the given id.
func (q *Queue) Get(id int) (Conversation, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	c, ok := q.byID[id]
	if !ok {
		return Conversation{}, ErrConversationNotFound
	}
	return *c, nil
}

// CountPending counts conversations still waiting for an agent.
func (q *Queue) CountPending() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	n := 0
	for _, c := range q.conversations {
		if c.Status == StatusWaiting {
			n++
		}
	}
	return n
}

// SetStatus advances a conversation's lifecycle. Moving backwards,
// including reopening a finalized conversation, is rejected.
func (q *Queue) SetStatus(id int, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	c, ok := q.byID[id]
	if !ok {
		return ErrConversationNotFound
	}
	if !c.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusRegression, c.Status, status)
	}
	c.Status = status
	return nil
}

// Len returns the number of conversations in the queue.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.conversations)
}
