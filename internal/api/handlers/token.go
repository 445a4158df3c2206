package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/amaumene/rakuroku/internal/services/anilist"
	"github.com/sirupsen/logrus"
)

const maxFragmentSize = 8 << 10

// TokenHandler receives the redirect fragment relayed by the callback page
type TokenHandler struct {
	deliver func(token string)
	logger  *logrus.Logger
}

// NewTokenHandler creates a new token handler. deliver is called once per
// token received.
func NewTokenHandler(deliver func(token string), logger *logrus.Logger) *TokenHandler {
	return &TokenHandler{
		deliver: deliver,
		logger:  logger,
	}
}

// ServeHTTP handles the token endpoint
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFragmentSize))
	if err != nil {
		h.logger.WithError(err).Error("Failed to read redirect fragment")
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	token, err := anilist.TokenFromRedirect(string(body))
	if err != nil {
		if errors.Is(err, anilist.ErrNoToken) {
			h.logger.Warn("Redirect carried no access token")
		} else {
			h.logger.WithError(err).Warn("Failed to parse redirect fragment")
		}
		http.Error(w, "No access token", http.StatusBadRequest)
		return
	}

	h.deliver(token)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
