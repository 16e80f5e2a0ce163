package api

import "time"

// StatusResponse is returned by GET /
type StatusResponse struct {
	Message       string `json:"message"`
	LoginURL      string `json:"login_url,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// DashboardResponse describes the logged-in user. The access token itself is never returned.
type DashboardResponse struct {
	TokenExpiresAt time.Time `json:"token_expires_at"` // expiry of the provider access token
	UserID         string    `json:"user_id"`          // external identity id
	Username       string    `json:"username"`
}

// HealthResponse is returned by GET /api/v1/health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Storage string `json:"storage,omitempty"`
}
