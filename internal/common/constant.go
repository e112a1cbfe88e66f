// Package common contains shared constants and sentinel errors used across
// GophStorage components.
package common

// APIBasePath is the path prefix of every REST endpoint.
const APIBasePath = "/api/v1"

// RequestIDHeaderName carries the per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// Keys of the persisted session entries. Both are written on login and
// removed together on logout.
const (
	TokenStorageKey = "auth_token"
	UserStorageKey  = "auth_user"
)
