package models

import "time"

// User is a local account bound to an external X identity.
type User struct {
	CreatedAt    time.Time `json:"created_at"`              // first successful login
	UpdatedAt    time.Time `json:"updated_at"`              // last successful login
	UserID       string    `json:"user_id"`                 // external identity id, primary key
	Username     string    `json:"username"`                // unique handle
	RefreshToken string    `json:"refresh_token,omitempty"` // sealed refresh credential, may be empty
}
