// Package models defines client-side data models used by the GophStorage client.
package models

import (
	"encoding/json"
	"time"
)

// User is the identity record returned by the API. Register answers with
// user_id/user_name/user_email, login with id/name/email; both decode here.
type User struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	CreatedAt int64  `json:"created_at,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	var raw struct {
		UserID    string `json:"user_id"`
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
		ID        string `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		CreatedAt int64  `json:"created_at"`
		UpdatedAt int64  `json:"updated_at"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = User{
		UserID:    firstNonEmpty(raw.UserID, raw.ID),
		UserName:  firstNonEmpty(raw.UserName, raw.Name),
		UserEmail: firstNonEmpty(raw.UserEmail, raw.Email),
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
	}
	return nil
}

// Session is the authenticated identity held by the session store.
// A Session without a token is never handed out.
type Session struct {
	UserID    string
	UserName  string
	UserEmail string
	Token     string

	// ExpiresAt is read from the token's exp claim when present. It is
	// informational only: the token is never validated locally.
	ExpiresAt time.Time
}

// User returns the identity part of the session.
func (s *Session) User() User {
	return User{UserID: s.UserID, UserName: s.UserName, UserEmail: s.UserEmail}
}

// NewSession combines a token and the user record it was issued for.
func NewSession(token string, u User) *Session {
	return &Session{
		UserID:    u.UserID,
		UserName:  u.UserName,
		UserEmail: u.UserEmail,
		Token:     token,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
