package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

const maxProfileBody = 1 << 20

// Profile is the identity returned by the provider
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ProfileFetcher loads the profile of the token owner
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}

// XProfileClient calls the X "users/me" endpoint
type XProfileClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewXProfileClient creates a client for endpoint. httpClient may be nil.
func NewXProfileClient(endpoint string, httpClient *http.Client) *XProfileClient {
	return &XProfileClient{endpoint: endpoint, httpClient: httpClient}
}

// FetchProfile performs a bearer-authenticated GET and decodes {"data": {...}}
func (c *XProfileClient) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Data Profile `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProfileBody)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if body.Data.ID == "" {
		return nil, fmt.Errorf("profile response has no user id")
	}

	return &body.Data, nil
}
