package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	waiting func() bool
	logger  *logrus.Logger
}

// NewHealthHandler creates a new health handler. waiting reports whether
// the receiver still expects a token.
func NewHealthHandler(waiting func() bool, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{waiting: waiting, logger: logger}
}

// HealthResponse represents the health response
type HealthResponse struct {
	Status  string `json:"status"`
	Waiting bool   `json:"waiting_for_token"`
}

// ServeHTTP handles the health check endpoint
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(HealthResponse{Status: "healthy", Waiting: h.waiting()}); err != nil {
		h.logger.WithError(err).Error("Failed to encode health response")
	}
}
