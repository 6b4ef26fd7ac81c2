package agent

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mediconnect/omnichannel-platform/internal/identity"
	"github.com/mediconnect/omnichannel-platform/internal/queue"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

// Handler exposes the agent state machine over HTTP. All routes assume
// the session middleware has already authenticated an atendente.
type Handler struct {
	registry *Registry
	logger   *logging.Logger
}

// NewHandler creates an agent handler.
func NewHandler(registry *Registry, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{registry: registry, logger: logger}
}

type selectRequest struct {
	ConversationID int `json:"conversation_id"`
}

type draftRequest struct {
	Text string `json:"text"`
}

type sessionStateResponse struct {
	State        State               `json:"state"`
	Active       *queue.Conversation `json:"active_conversation,omitempty"`
	Draft        string              `json:"draft"`
	HandledToday int                 `json:"handled_today"`
}

// Select handles POST /agent/select.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session := h.registry.Session(user.ID, user.Name)
	conv, err := session.SelectConversation(r.Context(), req.ConversationID)
	if err != nil {
		if errors.Is(err, queue.ErrConversationNotFound) {
			http.Error(w, "conversation not found", http.StatusNotFound)
			return
		}
		h.logger.Error("select failed", "error", err, "conversation_id", req.ConversationID)
		http.Error(w, "select failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("service started",
		"agent", user.Name,
		"patient", conv.Patient,
		"channel", conv.Channel,
	)
	h.writeState(w, session)
}

// Draft handles POST /agent/draft.
func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session := h.registry.Session(user.ID, user.Name)
	if err := session.ComposeDraft(req.Text); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.writeState(w, session)
}

// Send handles POST /agent/send.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	session := h.registry.Session(user.ID, user.Name)
	err := session.SendMessage(r.Context())
	switch {
	case errors.Is(err, ErrBlankDraft):
		// Sending nothing is the one specified no-op.
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, ErrNoActiveConversation):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("send failed", "error", err)
		http.Error(w, "send failed", http.StatusInternalServerError)
		return
	}
	h.writeState(w, session)
}

// Schedule handles POST /agent/schedule.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	session := h.registry.Session(user.ID, user.Name)
	if err := session.ScheduleAppointment(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.writeState(w, session)
}

// Finalize handles POST /agent/finalize.
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	session := h.registry.Session(user.ID, user.Name)
	conv, err := session.Finalize(r.Context())
	switch {
	case errors.Is(err, ErrNoActiveConversation):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("finalize failed", "error", err)
		http.Error(w, "finalize failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("conversation finalized",
		"agent", user.Name,
		"patient", conv.Patient,
	)
	h.writeState(w, session)
}

// SessionState handles GET /agent/session.
func (h *Handler) SessionState(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	h.writeState(w, h.registry.Session(user.ID, user.Name))
}

func (h *Handler) writeState(w http.ResponseWriter, s *Session) {
	resp := sessionStateResponse{
		State:        s.State(),
		Active:       s.ActiveConversation(),
		Draft:        s.Draft(),
		HandledToday: s.HandledToday(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
