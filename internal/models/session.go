package models

import "time"

// Session is the server-side state behind a session cookie.
//
// Lifecycle: anonymous (no OAuthState, no User) -> pending (OAuthState set)
// -> authenticated (Tokens and User set).
type Session struct {
	CreatedAt  time.Time    `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt  time.Time    `json:"expires_at" dynamodbav:"expires_at"` // session TTL, independent of token expiry
	OAuthState *OAuthState  `json:"oauth_state,omitempty" dynamodbav:"oauth_state,omitempty"`
	Tokens     *Tokens      `json:"tokens,omitempty" dynamodbav:"tokens,omitempty"`
	User       *SessionUser `json:"user,omitempty" dynamodbav:"user,omitempty"`
	ID         string       `json:"-" dynamodbav:"-"` // never persisted; stores key by its hash
}

// OAuthState is the single in-flight authorization request of a session.
type OAuthState struct {
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	State        string    `json:"state" dynamodbav:"state"`
	CodeVerifier string    `json:"code_verifier" dynamodbav:"code_verifier"`
}

// Tokens holds the provider access token of an authenticated session.
type Tokens struct {
	ExpiresAt   time.Time `json:"expires_at" dynamodbav:"expires_at"`
	AccessToken string    `json:"access_token" dynamodbav:"access_token"`
}

// SessionUser references the local user of an authenticated session.
type SessionUser struct {
	UserID   string `json:"user_id" dynamodbav:"user_id"`
	Username string `json:"username" dynamodbav:"username"`
}

// IsAuthenticated reports whether the session completed a login.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil && s.Tokens != nil
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.OAuthState != nil {
		st := *s.OAuthState
		c.OAuthState = &st
	}
	if s.Tokens != nil {
		tk := *s.Tokens
		c.Tokens = &tk
	}
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return &c
}
