package anilist

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed remote call
type ErrorKind int

const (
	// KindTransport means no response was received at all
	KindTransport ErrorKind = iota
	// KindRateLimited means the service answered 429
	KindRateLimited
	// KindService means any other non-2xx status
	KindService
	// KindQuery means the service answered with a GraphQL error array
	KindQuery
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRateLimited:
		return "rate_limited"
	case KindService:
		return "service"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

const rateLimitedMessage = "Too many requests. Please try again shortly."

// ErrNotAuthenticated is returned by mutations when the session holds no token
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNoUserName is returned by reads that need a user name when none is configured
var ErrNoUserName = errors.New("no AniList user name configured")

// Error is a classified failure from the remote service
type Error struct {
	Kind       ErrorKind
	Operation  string
	StatusCode int    // set for KindRateLimited and KindService
	Message    string // first GraphQL error message, if any
	Err        error  // underlying transport error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRateLimited:
		return rateLimitedMessage
	case KindService:
		return fmt.Sprintf("AniList API error: %d", e.StatusCode)
	case KindQuery:
		if e.Message == "" {
			return "AniList API error"
		}
		return e.Message
	default:
		return fmt.Sprintf("request failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err if it carries one
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsRateLimited reports whether err is a 429 from the service
func IsRateLimited(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindRateLimited
}

// DisplayMessage turns err into the string shown to the user. Classified
// errors are shown verbatim without the wrapping context added on the way up.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
