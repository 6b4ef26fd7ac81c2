package notify

import (
	"encoding/json"
	"net/http"
)

// Handler exposes the recent notifications.
type Handler struct {
	service *Service
}

// NewHandler creates a notifications handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type listResponse struct {
	Notifications []Notification `json:"notifications"`
	Count         int            `json:"count"`
}

// List handles GET /notifications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recent := h.service.Recent()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listResponse{
		Notifications: recent,
		Count:         len(recent),
	})
}
