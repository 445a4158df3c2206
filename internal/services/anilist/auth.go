package anilist

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/amaumene/rakuroku/internal/models"
)

const (
	authorizeURL = "https://anilist.co/api/v2/oauth/authorize"

	// TokenKey is the fixed credential store key holding the access token
	TokenKey = "anilist_access_token"
)

// ErrNoToken is returned when a redirect URL carries no access token
var ErrNoToken = errors.New("no access_token in redirect fragment")

// CredentialStore is the app-scoped key-value store holding the token
type CredentialStore interface {
	GetCredential(key string) (string, error)
	SetCredential(key, value string) error
	DeleteCredential(key string) error
}

// Session holds the access token. Login and Logout are the only writers;
// everyone else reads a snapshot through Token.
type Session struct {
	mu    sync.RWMutex
	token string
	store CredentialStore
}

// NewSession loads the token from store once. A nil store gives an
// in-memory session.
func NewSession(store CredentialStore) (*Session, error) {
	s := &Session{store: store}
	if store == nil {
		return s, nil
	}

	token, err := store.GetCredential(TokenKey)
	if err != nil {
		if errors.Is(err, models.ErrCredentialNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	s.token = token
	return s, nil
}

// Token returns the current token, empty when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Login persists token and makes it current
func (s *Session) Login(token string) error {
	if token == "" {
		return ErrNoToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SetCredential(TokenKey, token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}
	}
	s.token = token
	return nil
}

// Logout removes the persisted token
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.DeleteCredential(TokenKey); err != nil {
			return fmt.Errorf("failed to delete token: %w", err)
		}
	}
	s.token = ""
	return nil
}

// AuthorizeURL builds the implicit-grant URL. The redirect target is
// configured on the AniList client, not passed here.
func AuthorizeURL(clientID string) string {
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("response_type", "token")
	return authorizeURL + "?" + params.Encode()
}

// TokenFromRedirect extracts the access token from a redirect URL of the form
// ...#access_token=xxx&token_type=Bearer&expires_in=yyy. A bare fragment
// (without the leading URL) is accepted too.
func TokenFromRedirect(redirect string) (string, error) {
	fragment := redirect
	if i := strings.Index(redirect, "#"); i != -1 {
		fragment = redirect[i+1:]
	}

	params, err := url.ParseQuery(fragment)
	if err != nil {
		return "", fmt.Errorf("failed to parse redirect fragment: %w", err)
	}

	token := params.Get("access_token")
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
