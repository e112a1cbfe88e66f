package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotAuthenticated = errors.New("no authentication token found")
)

// APIError is a non-2xx answer (or a 2xx answer with success=false) from the
// backend. Message is the server's "error" text verbatim when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

func statusMessage(status int) string {
	return fmt.Sprintf("HTTP error! status: %d", status)
}
