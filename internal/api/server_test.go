package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amaumene/rakuroku/internal/config"
	"github.com/amaumene/rakuroku/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAuth bool

func (a staticAuth) Authenticated() bool { return bool(a) }

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(&config.Config{CallbackPort: "8765"}, staticAuth(false), utils.DiscardLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestCallbackPageRelaysFragment(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/callback")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	resp, err = http.Post(ts.URL+"/callback", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestTokenDelivered(t *testing.T) {
	srv, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/token", "text/plain",
		strings.NewReader("#access_token=abc.def&token_type=Bearer&expires_in=31536000"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case token := <-srv.Tokens():
		assert.Equal(t, "abc.def", token)
	default:
		t.Fatal("token not delivered")
	}

	// a second token does not block the handler
	resp, err = http.Post(ts.URL+"/token", "text/plain", strings.NewReader("#access_token=again"))
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = http.Post(ts.URL+"/token", "text/plain", strings.NewReader("#access_token=third"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTokenRejectsMissingToken(t *testing.T) {
	srv, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/token", "text/plain", strings.NewReader("#error=access_denied"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/token")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	select {
	case <-srv.Tokens():
		t.Fatal("no token expected")
	default:
	}
}

func TestHealthAndStatus(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, true, health["waiting_for_token"])

	resp, err = http.Post(ts.URL+"/token", "text/plain", strings.NewReader("access_token=abc"))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, false, health["waiting_for_token"])

	resp, err = http.Get(ts.URL + "/status")
	require.NoError(t, err)
	var status map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	assert.False(t, status["authenticated"])
}

func TestRedirectURL(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, "http://127.0.0.1:8765/callback", srv.RedirectURL())
	assert.Equal(t, "127.0.0.1:8765", srv.server.Addr)
}

func TestStartReturnsAfterShutdown(t *testing.T) {
	srv := NewServer(&config.Config{CallbackPort: "0"}, staticAuth(false), utils.DiscardLogger())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(context.Background()) }()

	require.NoError(t, srv.Shutdown(context.Background()))
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
