package agent

import (
	"sync"

	"github.com/mediconnect/omnichannel-platform/internal/events"
	"github.com/mediconnect/omnichannel-platform/internal/queue"
)

// demo dashboards open with a non-zero daily counter
const seedHandledToday = 12

// Registry holds one session per logged-in user, created lazily. The
// manager's "assume" action runs through a session from here as well.
type Registry struct {
	queue     *queue.Queue
	publisher events.Publisher
	metrics   Metrics

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a session registry over the shared queue.
func NewRegistry(q *queue.Queue, publisher events.Publisher, metrics Metrics) *Registry {
	return &Registry{
		queue:     q,
		publisher: publisher,
		metrics:   metrics,
		sessions:  make(map[string]*Session),
	}
}

// Session returns the session for the given user, creating an idle one
// on first use. Sessions are transient; they are dropped on logout.
func (r *Registry) Session(userID, name string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		return s
	}
	s := NewSession(name, r.queue, r.publisher,
		WithHandledToday(seedHandledToday),
		WithMetrics(r.metrics),
	)
	r.sessions[userID] = s
	return s
}

// Drop removes a user's session, ending the state machine's lifetime.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}
