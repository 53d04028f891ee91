package github

import (
	"errors"
	"fmt"
)

// ErrorKind classifies GitHub API failures for callers that need to branch
// on them without inspecting status codes.
type ErrorKind string

const (
	// KindNameConflict: 422 with a name-field error on repository create.
	KindNameConflict ErrorKind = "name_conflict"
	// KindValidation: 422 for any other reason.
	KindValidation ErrorKind = "validation"
	// KindScope: 403 on a write — the token lacks the repo scope.
	KindScope ErrorKind = "insufficient_scope"
	// KindUnauthorized: 401 — invalid or expired token.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindRateLimited: 403 on a read, interpreted as quota exhaustion.
	KindRateLimited ErrorKind = "rate_limited"
	// KindNotFound: 404 where the resource was expected to exist.
	KindNotFound ErrorKind = "not_found"
	// KindUpstream: any other non-2xx answer.
	KindUpstream ErrorKind = "upstream_error"
	// KindNetwork: transport failure or timeout before a status arrived.
	KindNetwork ErrorKind = "network_error"
)

// APIError is a classified failure from the GitHub API.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("github: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github: %s: %s", e.Kind, e.Message)
}

// KindOf extracts the classification from err, or KindUpstream when err is
// not an APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUpstream
}
