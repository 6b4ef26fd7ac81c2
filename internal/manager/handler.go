package manager

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mediconnect/omnichannel-platform/internal/identity"
	"github.com/mediconnect/omnichannel-platform/internal/queue"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

// Handler exposes the manager dashboard over HTTP. Routes assume the
// session middleware has authenticated a gerente.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a manager handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type assumeRequest struct {
	ConversationID int `json:"conversation_id"`
}

type assumeResponse struct {
	Conversation queue.Conversation `json:"conversation"`
}

// Dashboard handles GET /manager/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.Dashboard())
}

// Assume handles POST /manager/assume.
func (h *Handler) Assume(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	var req assumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conv, err := h.service.Assume(r.Context(), user.ID, user.Name, req.ConversationID)
	switch {
	case errors.Is(err, ErrNotCritical):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, queue.ErrConversationNotFound):
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("assume failed", "error", err, "conversation_id", req.ConversationID)
		http.Error(w, "assume failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assumeResponse{Conversation: conv})
}
