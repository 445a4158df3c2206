package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Authenticator reports whether a token is held
type Authenticator interface {
	Authenticated() bool
}

// StatusHandler reports whether the session has a token
type StatusHandler struct {
	session Authenticator
	logger  *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(session Authenticator, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		session: session,
		logger:  logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(StatusResponse{Authenticated: h.session.Authenticated()}); err != nil {
		h.logger.WithError(err).Error("Failed to encode status response")
	}
}
