package client

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when a request requires a signed-in profile
// and the client has no valid token. Callers should prompt for login rather
// than retry.
var ErrUnauthenticated = errors.New("not authenticated")

// ValidationError reports input the server rejected. The message is safe to
// show to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError reports a failed sign-in or sign-up attempt, such as wrong
// credentials or an email that is already registered.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// RequestError covers everything else the server refused: missing records,
// insufficient permissions, internal failures.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}
