package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// The provider puts the token in the URL fragment, which never reaches the
// server. The page posts location.hash back to /token.
const callbackPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>rakuroku</title></head>
<body>
<p id="msg">Finishing login...</p>
<script>
fetch("/token", {method: "POST", body: window.location.hash})
  .then(function (r) {
    document.getElementById("msg").textContent = r.ok
      ? "Logged in. You can close this tab."
      : "Login failed. Check the terminal.";
  });
</script>
</body>
</html>
`

// CallbackHandler serves the OAuth redirect target
type CallbackHandler struct {
	logger *logrus.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(logger *logrus.Logger) *CallbackHandler {
	return &CallbackHandler{logger: logger}
}

// ServeHTTP handles the redirect endpoint
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write([]byte(callbackPage)); err != nil {
		h.logger.WithError(err).Debug("Failed to write callback page")
	}
}
