// Package clerk talks to the Clerk Backend API and verifies Clerk session
// tokens. Clerk is the identity provider: it authenticates callers and holds
// the GitHub OAuth tokens of users who connected their GitHub account.
package clerk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.clerk.com/v1"

// Client calls the Clerk Backend API with the instance secret key.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(secretKey, baseURL string) *Client {
	c := NewClient(secretKey)
	c.baseURL = baseURL
	return c
}

type oauthTokenResponse struct {
	Token string `json:"token"`
}

// GitHubOAuthToken returns the stored GitHub OAuth token for the given user.
// ok=false means the user never connected GitHub (Clerk answers 404 for
// that); it is an expected outcome, not an error.
func (c *Client) GitHubOAuthToken(ctx context.Context, userID string) (token string, ok bool, err error) {
	url := fmt.Sprintf("%s/users/%s/oauth_access_tokens/github", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("failed to call clerk api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// Clerk returns a list of tokens; the first entry is current.
		var tokens []oauthTokenResponse
		if err := json.Unmarshal(body, &tokens); err != nil {
			return "", false, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if len(tokens) == 0 || tokens[0].Token == "" {
			return "", false, nil
		}
		return tokens[0].Token, true, nil
	case http.StatusNotFound:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("clerk api returned status %d: %s", resp.StatusCode, string(body))
	}
}
