package queue

import (
	"encoding/json"
	"net/http"

	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

// Handler exposes read access to the conversation queue.
type Handler struct {
	queue  *Queue
	logger *logging.Logger
}

// NewHandler creates a queue handler.
func NewHandler(q *Queue, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{queue: q, logger: logger}
}

type listResponse struct {
	Conversations []Conversation `json:"conversations"`
	Count         int            `json:"count"`
}

type pendingResponse struct {
	Pending int `json:"pending"`
}

// List handles GET /queue with an optional ?status= filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		http.Error(w, "invalid status filter", http.StatusBadRequest)
		return
	}

	conversations := h.queue.List(status)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listResponse{
		Conversations: conversations,
		Count:         len(conversations),
	})
}

// Pending handles GET /queue/pending.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pendingResponse{Pending: h.queue.CountPending()})
}
